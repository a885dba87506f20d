package service

import (
	"github.com/Harshitk-cp/litsynth/internal/domain"
)

// ThemeMerger coalesces live themes whose members have converged.
type ThemeMerger struct {
	store     *ThemeStore
	threshold float64
}

func NewThemeMerger(store *ThemeStore, threshold float64) *ThemeMerger {
	return &ThemeMerger{store: store, threshold: threshold}
}

// Merge examines every unordered pair from the live themes captured at the
// start of the pass. A theme absorbed earlier in the pass is skipped; the
// absorbing theme keeps its grown membership for later comparisons.
func (m *ThemeMerger) Merge() []domain.MergeEvent {
	themes := m.store.live()

	var events []domain.MergeEvent
	for i := 0; i < len(themes); i++ {
		keep := themes[i]
		if !keep.live {
			continue
		}
		for j := i + 1; j < len(themes); j++ {
			gone := themes[j]
			if !gone.live {
				continue
			}

			sim := averagePairwiseSimilarity(m.store.memberEmbeddings(keep), m.store.memberEmbeddings(gone))
			if sim < m.threshold {
				continue
			}

			m.store.absorb(keep, gone)
			events = append(events, domain.MergeEvent{
				Kept:         keep.id,
				KeptName:     keep.name,
				Absorbed:     gone.id,
				AbsorbedName: gone.name,
				Similarity:   sim,
				Confidence:   keep.confidence,
			})
		}
	}

	return events
}
