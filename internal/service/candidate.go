package service

import (
	"sort"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

// Candidate is a prior finding close enough to be checked for contradiction.
type Candidate struct {
	Finding    domain.Finding
	Similarity float64
}

// CandidateFilter bounds contradiction checking to the top-K nearest prior
// findings that clear the same-topic floor.
type CandidateFilter struct {
	findings *FindingStore
	topK     int
	floor    float64
}

func NewCandidateFilter(findings *FindingStore, topK int, floor float64) *CandidateFilter {
	return &CandidateFilter{findings: findings, topK: topK, floor: floor}
}

// Candidates ranks every finding with an ID below cutoff by similarity to
// query, keeps the top K, then drops those under the floor. Ties keep the
// older finding first.
func (f *CandidateFilter) Candidates(query []float32, cutoff domain.FindingID) []Candidate {
	prior := f.findings.before(cutoff)
	if len(prior) == 0 || f.topK <= 0 {
		return nil
	}

	ranked := make([]Candidate, 0, len(prior))
	for _, p := range prior {
		ranked = append(ranked, Candidate{Finding: p, Similarity: CosineSimilarity(query, p.Embedding)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if len(ranked) > f.topK {
		ranked = ranked[:f.topK]
	}

	out := ranked[:0]
	for _, c := range ranked {
		if c.Similarity >= f.floor {
			out = append(out, c)
		}
	}
	return out
}
