package service

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/llm"
	"github.com/Harshitk-cp/litsynth/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxSuggestedDirections = 3

// GapScanner flags under-supported themes as research gaps. The rule is a
// static heuristic; the judge only contributes suggested directions.
type GapScanner struct {
	judge         domain.JudgeClient
	maxConfidence float64
	minSupport    int
	concurrency   int
	flagged       map[domain.ThemeID]struct{}
	logger        *zap.Logger
	metrics       *metrics.Synthesis
}

func NewGapScanner(judge domain.JudgeClient, maxConfidence float64, minSupport, concurrency int, logger *zap.Logger, m *metrics.Synthesis) *GapScanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &GapScanner{
		judge:         judge,
		maxConfidence: maxConfidence,
		minSupport:    minSupport,
		concurrency:   concurrency,
		flagged:       make(map[domain.ThemeID]struct{}),
		logger:        logger,
		metrics:       m,
	}
}

// Scan returns a gap for every theme below the confidence and support bars
// that has not been flagged before.
func (g *GapScanner) Scan(ctx context.Context, themes []*themeState, round int) []domain.ResearchGap {
	var weak []*themeState
	for _, t := range themes {
		if _, seen := g.flagged[t.id]; seen {
			continue
		}
		if t.confidence < g.maxConfidence && len(t.documents) < g.minSupport {
			weak = append(weak, t)
		}
	}
	if len(weak) == 0 {
		return nil
	}

	directions := make([][]string, len(weak))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, t := range weak {
		name, support, confidence := t.name, len(t.documents), t.confidence
		eg.Go(func() error {
			directions[i] = g.suggest(egCtx, name, support, confidence)
			return nil
		})
	}
	_ = eg.Wait()

	gaps := make([]domain.ResearchGap, 0, len(weak))
	for i, t := range weak {
		g.flagged[t.id] = struct{}{}
		gaps = append(gaps, domain.ResearchGap{
			ThemeID:             t.id,
			ThemeName:           t.name,
			Description:         gapDescription(t.name, len(t.documents), t.confidence),
			Importance:          g.importance(t),
			SuggestedDirections: directions[i],
			DetectedAt:          round,
		})
	}
	return gaps
}

// importance grows as confidence and support fall further below the bars.
func (g *GapScanner) importance(t *themeState) float64 {
	confShortfall := (g.maxConfidence - t.confidence) / g.maxConfidence
	supportShortfall := float64(g.minSupport-len(t.documents)) / float64(g.minSupport)
	return 0.5*confShortfall + 0.5*supportShortfall
}

func (g *GapScanner) suggest(ctx context.Context, name string, support int, confidence float64) []string {
	if g.judge == nil {
		return fallbackDirections(name)
	}

	text, err := g.judge.Complete(ctx, llm.GapDirectionsPrompt(name, support, confidence),
		llm.GapDirectionsMaxTokens, llm.GapDirectionsTemperature)
	g.metrics.JudgeCall(metrics.KindGapDirections, err)
	if err != nil {
		g.logger.Debug("gap suggestion failed, using template", zap.String("theme", name), zap.Error(err))
		return fallbackDirections(name)
	}

	dirs := llm.ParseDirections(text, maxSuggestedDirections)
	if len(dirs) == 0 {
		return fallbackDirections(name)
	}
	return dirs
}

func gapDescription(name string, support int, confidence float64) string {
	return fmt.Sprintf("%q is supported by %d document(s) at confidence %.2f; the evidence is too thin to draw conclusions.",
		name, support, confidence)
}

func fallbackDirections(name string) []string {
	return []string{
		fmt.Sprintf("Replicate findings on %s in independent studies", name),
		fmt.Sprintf("Examine %s with larger or more diverse samples", name),
	}
}
