package service

import (
	"testing"
	"time"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateFilter_TopKThenFloor(t *testing.T) {
	findings := NewFindingStore()
	now := time.Now()
	for i, cos := range []float64{0.99, 0.95, 0.9, 0.65, 0.59, 0.2} {
		findings.Append("prior", unit(cos), "d", i, now)
	}

	t.Run("top k", func(t *testing.T) {
		got := NewCandidateFilter(findings, 2, 0.6).Candidates([]float32{1, 0, 0}, findings.NextID())
		require.Len(t, got, 2)
		assert.Equal(t, domain.FindingID(1), got[0].Finding.ID)
		assert.Equal(t, domain.FindingID(2), got[1].Finding.ID)
	})

	t.Run("floor applied after ranking", func(t *testing.T) {
		got := NewCandidateFilter(findings, 10, 0.6).Candidates([]float32{1, 0, 0}, findings.NextID())
		require.Len(t, got, 4)
		for _, c := range got {
			assert.GreaterOrEqual(t, c.Similarity, 0.6)
		}
	})

	t.Run("cutoff excludes newer findings", func(t *testing.T) {
		got := NewCandidateFilter(findings, 10, 0).Candidates([]float32{1, 0, 0}, 3)
		require.Len(t, got, 2)
	})

	t.Run("empty store", func(t *testing.T) {
		got := NewCandidateFilter(NewFindingStore(), 5, 0).Candidates([]float32{1, 0, 0}, 1)
		assert.Empty(t, got)
	})
}

func TestCandidateFilter_TiesKeepOlderFirst(t *testing.T) {
	findings := NewFindingStore()
	now := time.Now()
	findings.Append("a", []float32{1, 0}, "d", 0, now)
	findings.Append("b", []float32{1, 0}, "d", 1, now)

	got := NewCandidateFilter(findings, 1, 0).Candidates([]float32{1, 0}, findings.NextID())
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Finding.Text)
}
