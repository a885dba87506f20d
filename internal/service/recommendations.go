package service

import (
	"fmt"
	"sort"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

// Themes at or above this confidence earn a consolidation recommendation.
const recommendConfidence = 0.75

var severityRank = map[domain.Severity]int{
	domain.SeverityHigh:   0,
	domain.SeverityMedium: 1,
	domain.SeverityLow:    2,
}

// buildRecommendations derives reader-facing next steps from the aggregate:
// contradictions first (most severe first), then gaps, then strong themes.
func buildRecommendations(themes []*themeState, contradictions []domain.Contradiction, gaps []domain.ResearchGap) []string {
	out := make([]string, 0, len(contradictions)+len(gaps))

	ordered := append([]domain.Contradiction(nil), contradictions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return severityRank[ordered[i].Severity] < severityRank[ordered[j].Severity]
	})
	for _, c := range ordered {
		out = append(out, fmt.Sprintf("Reconcile conflicting findings (%s severity): %q vs %q", c.Severity, c.TextA, c.TextB))
	}

	for _, g := range gaps {
		out = append(out, fmt.Sprintf("Investigate %q: %s", g.ThemeName, g.Description))
	}

	for _, t := range themes {
		if t.confidence >= recommendConfidence {
			out = append(out, fmt.Sprintf("Consolidate evidence on %q (%d documents, confidence %.2f)", t.name, len(t.documents), t.confidence))
		}
	}
	return out
}
