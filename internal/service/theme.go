package service

import (
	"github.com/Harshitk-cp/litsynth/internal/domain"
)

type themeState struct {
	id         domain.ThemeID
	name       string
	confidence float64
	members    []domain.FindingID
	documents  []string
	docSet     map[string]struct{}
	createdAt  int
	live       bool
}

func (t *themeState) addMember(f domain.Finding) {
	t.members = append(t.members, f.ID)
	if _, ok := t.docSet[f.DocumentID]; !ok {
		t.docSet[f.DocumentID] = struct{}{}
		t.documents = append(t.documents, f.DocumentID)
	}
}

func (t *themeState) snapshot() domain.Theme {
	return domain.Theme{
		ID:         t.id,
		Name:       t.name,
		Confidence: t.confidence,
		Findings:   append([]domain.FindingID(nil), t.members...),
		Documents:  append([]string(nil), t.documents...),
		CreatedAt:  t.createdAt,
	}
}

// ThemeStore owns every theme and the finding-to-theme index.
type ThemeStore struct {
	findings *FindingStore
	themes   []*themeState
	byID     map[domain.ThemeID]*themeState
	owner    map[domain.FindingID]domain.ThemeID
	nextID   domain.ThemeID
}

func NewThemeStore(findings *FindingStore) *ThemeStore {
	return &ThemeStore{
		findings: findings,
		byID:     make(map[domain.ThemeID]*themeState),
		owner:    make(map[domain.FindingID]domain.ThemeID),
		nextID:   1,
	}
}

func (s *ThemeStore) create(name string, confidence float64, round int) *themeState {
	t := &themeState{
		id:         s.nextID,
		name:       name,
		confidence: domain.ClampConfidence(confidence),
		docSet:     make(map[string]struct{}),
		createdAt:  round,
		live:       true,
	}
	s.nextID++
	s.themes = append(s.themes, t)
	s.byID[t.id] = t
	return t
}

func (s *ThemeStore) attach(t *themeState, f domain.Finding) {
	t.addMember(f)
	s.owner[f.ID] = t.id
}

// absorb moves every member of gone into keep and retires gone. Confidence
// becomes the larger of the two.
func (s *ThemeStore) absorb(keep, gone *themeState) {
	for _, id := range gone.members {
		s.owner[id] = keep.id
		keep.members = append(keep.members, id)
	}
	for _, doc := range gone.documents {
		if _, ok := keep.docSet[doc]; !ok {
			keep.docSet[doc] = struct{}{}
			keep.documents = append(keep.documents, doc)
		}
	}
	if gone.confidence > keep.confidence {
		keep.confidence = gone.confidence
	}
	gone.live = false
	gone.members = nil
}

// live returns the live themes in creation order. The slice is a fresh list
// but shares the theme pointers.
func (s *ThemeStore) live() []*themeState {
	out := make([]*themeState, 0, len(s.themes))
	for _, t := range s.themes {
		if t.live {
			out = append(out, t)
		}
	}
	return out
}

func (s *ThemeStore) memberEmbeddings(t *themeState) [][]float32 {
	return s.findings.Embeddings(t.members)
}

// Owner returns the live theme holding a finding.
func (s *ThemeStore) Owner(id domain.FindingID) (domain.ThemeID, bool) {
	tid, ok := s.owner[id]
	if !ok {
		return 0, false
	}
	t := s.byID[tid]
	if t == nil || !t.live {
		return 0, false
	}
	return tid, true
}

func (s *ThemeStore) Get(id domain.ThemeID) (domain.Theme, bool) {
	t, ok := s.byID[id]
	if !ok || !t.live {
		return domain.Theme{}, false
	}
	return t.snapshot(), true
}

// Themes returns copies of the live themes in creation order.
func (s *ThemeStore) Themes() []domain.Theme {
	live := s.live()
	out := make([]domain.Theme, 0, len(live))
	for _, t := range live {
		out = append(out, t.snapshot())
	}
	return out
}

func (s *ThemeStore) confidences() map[domain.ThemeID]float64 {
	out := make(map[domain.ThemeID]float64, len(s.themes))
	for _, t := range s.themes {
		if t.live {
			out[t.id] = t.confidence
		}
	}
	return out
}

// assignment is the outcome of placing one finding.
type assignment struct {
	finding domain.Finding
	theme   *themeState
	created bool
	score   float64
}

// ThemeUpdater attaches each new finding to the closest theme or spawns one.
type ThemeUpdater struct {
	store     *ThemeStore
	threshold float64
}

func NewThemeUpdater(store *ThemeStore, threshold float64) *ThemeUpdater {
	return &ThemeUpdater{store: store, threshold: threshold}
}

// Assign places f. New themes get the placeholder name; the engine fills in
// judge-provided names once the round's provider calls return.
func (u *ThemeUpdater) Assign(f domain.Finding, round int) assignment {
	var best *themeState
	bestScore := 0.0
	for _, t := range u.store.live() {
		if len(t.members) == 0 {
			continue
		}
		score := averageSimilarity(f.Embedding, u.store.memberEmbeddings(t))
		if best == nil || score > bestScore {
			best, bestScore = t, score
		}
	}

	if best != nil && bestScore >= u.threshold {
		best.confidence = domain.ClampConfidence(best.confidence + (bestScore-u.threshold)*0.1)
		u.store.attach(best, f)
		return assignment{finding: f, theme: best, score: bestScore}
	}

	t := u.store.create(domain.PlaceholderThemeName, domain.InitialThemeConfidence, round)
	u.store.attach(t, f)
	return assignment{finding: f, theme: t, created: true, score: bestScore}
}
