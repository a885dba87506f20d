package service

import (
	"time"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

// FindingStore is the append-only ledger of every ingested finding.
type FindingStore struct {
	findings []domain.Finding
	index    map[domain.FindingID]int
	nextID   domain.FindingID
}

func NewFindingStore() *FindingStore {
	return &FindingStore{
		index:  make(map[domain.FindingID]int),
		nextID: 1,
	}
}

// Append stores a finding under the next identifier. The embedding is
// copied, so the caller may reuse its slice.
func (s *FindingStore) Append(text string, embedding []float32, documentID string, arrivalIndex int, now time.Time) domain.Finding {
	f := domain.Finding{
		ID:           s.nextID,
		Text:         text,
		Embedding:    append([]float32(nil), embedding...),
		DocumentID:   documentID,
		ArrivalIndex: arrivalIndex,
		CreatedAt:    now,
	}
	s.index[f.ID] = len(s.findings)
	s.findings = append(s.findings, f)
	s.nextID++
	return f.Clone()
}

func (s *FindingStore) Get(id domain.FindingID) (domain.Finding, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Finding{}, false
	}
	return s.findings[i].Clone(), true
}

// Embeddings returns the vectors of ids, skipping unknown ones.
func (s *FindingStore) Embeddings(ids []domain.FindingID) [][]float32 {
	out := make([][]float32, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.index[id]; ok {
			out = append(out, s.findings[i].Embedding)
		}
	}
	return out
}

// NextID is the identifier the next Append will assign. Every stored
// finding has a smaller one.
func (s *FindingStore) NextID() domain.FindingID {
	return s.nextID
}

func (s *FindingStore) Len() int {
	return len(s.findings)
}

// All returns deep copies of the findings in arrival order.
func (s *FindingStore) All() []domain.Finding {
	out := make([]domain.Finding, len(s.findings))
	for i, f := range s.findings {
		out[i] = f.Clone()
	}
	return out
}

// before returns the stored prefix of findings with IDs below cutoff.
func (s *FindingStore) before(cutoff domain.FindingID) []domain.Finding {
	n := int(cutoff - 1)
	if n > len(s.findings) {
		n = len(s.findings)
	}
	if n < 0 {
		n = 0
	}
	return s.findings[:n]
}
