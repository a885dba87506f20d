package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/llm"
	"github.com/Harshitk-cp/litsynth/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SynthesisEngine folds analyzed documents, one at a time, into themes,
// contradictions and research gaps.
//
// An engine is not safe for concurrent use. Each ProcessDocument call must
// return before the next starts; SessionService enforces this for the API.
type SynthesisEngine struct {
	cfg      EngineConfig
	embedder domain.EmbeddingClient
	judge    domain.JudgeClient
	logger   *zap.Logger
	metrics  *metrics.Synthesis
	now      func() time.Time

	findings       *FindingStore
	themes         *ThemeStore
	updater        *ThemeUpdater
	filter         *CandidateFilter
	contradictions *ContradictionJudge
	merger         *ThemeMerger
	gaps           *GapScanner

	contradictionLog []domain.Contradiction
	gapLog           []domain.ResearchGap
	documents        int
	final            *domain.Synthesis
	failed           error
}

// NewSynthesisEngine builds an engine. judge may be nil, in which case every
// optional judge step degrades to its placeholder and no contradictions are
// recorded. m may be nil.
func NewSynthesisEngine(cfg EngineConfig, embedder domain.EmbeddingClient, judge domain.JudgeClient, logger *zap.Logger, m *metrics.Synthesis) (*SynthesisEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding client is required", domain.ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	findings := NewFindingStore()
	themes := NewThemeStore(findings)

	return &SynthesisEngine{
		cfg:            cfg,
		embedder:       embedder,
		judge:          judge,
		logger:         logger,
		metrics:        m,
		now:            time.Now,
		findings:       findings,
		themes:         themes,
		updater:        NewThemeUpdater(themes, cfg.ThemeThreshold),
		filter:         NewCandidateFilter(findings, cfg.CandidateTopK, cfg.TopicFloor),
		contradictions: NewContradictionJudge(judge, logger, m),
		merger:         NewThemeMerger(themes, cfg.MergeThreshold),
		gaps:           NewGapScanner(judge, cfg.GapMaxConfidence, cfg.GapMinSupport, cfg.JudgeConcurrency, logger, m),
	}, nil
}

// ProcessDocument runs one round: embed, attach to themes, check
// contradictions, scan for gaps on every GapScanInterval-th document, merge
// converged themes, and report what changed.
//
// Judge failures never fail the round. An embedding failure or count
// mismatch aborts the round before any state changes.
func (e *SynthesisEngine) ProcessDocument(ctx context.Context, extracted []domain.ExtractedFinding, doc domain.DocumentInfo) (*domain.SynthesisUpdate, error) {
	if e.final != nil {
		return nil, domain.ErrEngineFinalized
	}
	if e.failed != nil {
		return nil, e.failed
	}
	start := time.Now()

	texts := make([]string, len(extracted))
	for i, f := range extracted {
		texts[i] = f.Text
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = e.embedder.EmbedBatch(ctx, texts, domain.EmbeddingPurposeFinding)
		if err != nil {
			return nil, fmt.Errorf("embed findings: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("%w: requested %d, got %d", domain.ErrEmbeddingCountMismatch, len(texts), len(vectors))
		}
	}

	round := e.documents + 1
	cutoff := e.findings.NextID()
	before := e.themes.confidences()
	now := e.now()

	// Theme assignment is pure in-memory work, so later findings of this
	// document already see themes spawned by earlier ones.
	newFindings := make([]domain.Finding, 0, len(texts))
	var created []assignment
	touched := make(map[domain.ThemeID]*themeState)
	var touchedOrder []domain.ThemeID
	for i, text := range texts {
		f := e.findings.Append(text, vectors[i], doc.ID, e.findings.Len(), now)
		newFindings = append(newFindings, f)

		a := e.updater.Assign(f, round)
		if a.created {
			created = append(created, a)
		}
		if _, ok := touched[a.theme.id]; !ok {
			touched[a.theme.id] = a.theme
			touchedOrder = append(touchedOrder, a.theme.id)
		}
	}

	if err := e.requireOwners(newFindings); err != nil {
		return nil, err
	}

	var checks []pairCheck
	for _, f := range newFindings {
		for _, c := range e.filter.Candidates(f.Embedding, cutoff) {
			checks = append(checks, pairCheck{incoming: f, candidate: c})
		}
	}

	names, found := e.askJudge(ctx, created, checks, round)

	for i, a := range created {
		a.theme.name = names[i]
	}
	var newContradictions []domain.Contradiction
	for _, c := range found {
		if c != nil {
			newContradictions = append(newContradictions, *c)
		}
	}
	e.contradictionLog = append(e.contradictionLog, newContradictions...)

	var deltas []domain.ConfidenceDelta
	for _, id := range touchedOrder {
		t := touched[id]
		prev, existed := before[id]
		if !existed {
			prev = domain.InitialThemeConfidence
		}
		if t.confidence != prev {
			deltas = append(deltas, domain.ConfidenceDelta{ThemeID: id, Name: t.name, Before: prev, After: t.confidence})
		}
	}

	newThemes := make([]domain.Theme, 0, len(created))
	for _, a := range created {
		newThemes = append(newThemes, a.theme.snapshot())
	}

	e.documents = round

	var newGaps []domain.ResearchGap
	if round%e.cfg.GapScanInterval == 0 {
		newGaps = e.gaps.Scan(ctx, e.themes.live(), round)
		e.gapLog = append(e.gapLog, newGaps...)
	}

	merges := e.merger.Merge()

	update := &domain.SynthesisUpdate{
		Sequence:          round,
		DocumentID:        doc.ID,
		DocumentTitle:     doc.Title,
		Timestamp:         now,
		NewFindings:       cloneFindings(newFindings),
		NewThemes:         newThemes,
		NewContradictions: newContradictions,
		NewGaps:           newGaps,
		ConfidenceDeltas:  deltas,
		Merges:            merges,
		Synthesis:         e.Snapshot(),
	}

	elapsed := time.Since(start)
	e.metrics.Round(elapsed, len(newThemes), len(newContradictions), len(newGaps), len(merges))
	e.logger.Info("document synthesized",
		zap.Int("sequence", round),
		zap.String("document_id", doc.ID),
		zap.Int("findings", len(newFindings)),
		zap.Int("new_themes", len(newThemes)),
		zap.Int("contradiction_checks", len(checks)),
		zap.Int("new_contradictions", len(newContradictions)),
		zap.Int("new_gaps", len(newGaps)),
		zap.Int("merges", len(merges)),
		zap.Int("live_themes", len(e.themes.live())),
		zap.Duration("duration", elapsed))

	return update, nil
}

// requireOwners checks that every finding belongs to a live theme. A
// violation means the stores disagree; the engine is stopped for good
// before the round's judge results or contradictions are recorded.
func (e *SynthesisEngine) requireOwners(findings []domain.Finding) error {
	for _, f := range findings {
		if _, ok := e.themes.Owner(f.ID); !ok {
			e.failed = fmt.Errorf("%w: finding %d", domain.ErrUnassignedFinding, f.ID)
			e.logger.Error("synthesis engine stopped", zap.Error(e.failed))
			return e.failed
		}
	}
	return nil
}

// askJudge issues every naming and contradiction prompt of a round
// concurrently and returns results aligned with its inputs. Goroutines never
// return errors; each failure has already degraded to its fallback.
func (e *SynthesisEngine) askJudge(ctx context.Context, created []assignment, checks []pairCheck, round int) ([]string, []*domain.Contradiction) {
	names := make([]string, len(created))
	found := make([]*domain.Contradiction, len(checks))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.JudgeConcurrency)
	for i, a := range created {
		text := a.finding.Text
		eg.Go(func() error {
			names[i] = e.nameTheme(egCtx, text)
			return nil
		})
	}
	for i, pc := range checks {
		eg.Go(func() error {
			found[i] = e.contradictions.Check(egCtx, pc, round)
			return nil
		})
	}
	_ = eg.Wait()

	return names, found
}

func (e *SynthesisEngine) nameTheme(ctx context.Context, findingText string) string {
	if e.judge == nil {
		return domain.PlaceholderThemeName
	}

	raw, err := e.judge.Complete(ctx, llm.ThemeNamePrompt(findingText), llm.ThemeNameMaxTokens, llm.ThemeNameTemperature)
	e.metrics.JudgeCall(metrics.KindThemeName, err)
	if err != nil {
		e.logger.Debug("theme naming failed, using placeholder", zap.Error(err))
		return domain.PlaceholderThemeName
	}

	name := llm.CleanName(raw)
	if name == "" {
		return domain.PlaceholderThemeName
	}
	return name
}

// Snapshot materializes the current aggregate. The result shares no memory
// with the engine.
func (e *SynthesisEngine) Snapshot() domain.Synthesis {
	live := e.themes.live()
	names := make([]string, 0, len(live))
	for _, t := range live {
		names = append(names, t.name)
	}

	contradictions := append(make([]domain.Contradiction, 0, len(e.contradictionLog)), e.contradictionLog...)
	gaps := make([]domain.ResearchGap, len(e.gapLog))
	for i, g := range e.gapLog {
		g.SuggestedDirections = append([]string(nil), g.SuggestedDirections...)
		gaps[i] = g
	}

	return domain.Synthesis{
		Themes:          names,
		Contradictions:  contradictions,
		Gaps:            gaps,
		Recommendations: buildRecommendations(live, contradictions, gaps),
	}
}

// Finalize freezes the engine and returns the final synthesis. Later calls
// return the same result; ProcessDocument fails with ErrEngineFinalized.
func (e *SynthesisEngine) Finalize() *domain.Synthesis {
	if e.final == nil {
		s := e.Snapshot()
		e.final = &s
		e.logger.Info("synthesis finalized",
			zap.Int("documents", e.documents),
			zap.Int("themes", len(s.Themes)),
			zap.Int("contradictions", len(s.Contradictions)),
			zap.Int("gaps", len(s.Gaps)))
	}
	out := cloneSynthesis(*e.final)
	return &out
}

func cloneFindings(in []domain.Finding) []domain.Finding {
	out := make([]domain.Finding, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}

func cloneSynthesis(s domain.Synthesis) domain.Synthesis {
	s.Themes = append(make([]string, 0, len(s.Themes)), s.Themes...)
	s.Contradictions = append(make([]domain.Contradiction, 0, len(s.Contradictions)), s.Contradictions...)
	gaps := make([]domain.ResearchGap, len(s.Gaps))
	for i, g := range s.Gaps {
		g.SuggestedDirections = append([]string(nil), g.SuggestedDirections...)
		gaps[i] = g
	}
	s.Gaps = gaps
	s.Recommendations = append(make([]string, 0, len(s.Recommendations)), s.Recommendations...)
	return s
}

func (e *SynthesisEngine) Finalized() bool {
	return e.final != nil
}

// Themes returns copies of the live themes in creation order.
func (e *SynthesisEngine) Themes() []domain.Theme {
	return e.themes.Themes()
}

// ThemeOf returns the live theme holding a finding.
func (e *SynthesisEngine) ThemeOf(id domain.FindingID) (domain.Theme, bool) {
	tid, ok := e.themes.Owner(id)
	if !ok {
		return domain.Theme{}, false
	}
	return e.themes.Get(tid)
}

func (e *SynthesisEngine) Findings() []domain.Finding {
	return e.findings.All()
}

func (e *SynthesisEngine) DocumentsProcessed() int {
	return e.documents
}

func (e *SynthesisEngine) Config() EngineConfig {
	return e.cfg
}
