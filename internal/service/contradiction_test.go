package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/llm"
	"github.com/Harshitk-cp/litsynth/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPair() pairCheck {
	now := time.Now()
	prior := domain.Finding{ID: 1, Text: "Caffeine improves memory", DocumentID: "d1", CreatedAt: now}
	incoming := domain.Finding{ID: 2, Text: "Caffeine has no effect on memory", DocumentID: "d2", CreatedAt: now}
	return pairCheck{incoming: incoming, candidate: Candidate{Finding: prior, Similarity: 0.88}}
}

func TestContradictionJudge_Affirmative(t *testing.T) {
	judge := llm.NewMockClient()
	judge.ContradictionResponse = " Yes. "
	judge.ExplanationResponse = "One reports an effect, the other none."
	m := metrics.NewSynthesis(prometheus.NewRegistry())

	c := NewContradictionJudge(judge, zap.NewNop(), m).Check(context.Background(), testPair(), 3)

	require.NotNil(t, c)
	assert.Equal(t, domain.FindingID(1), c.FindingA)
	assert.Equal(t, domain.FindingID(2), c.FindingB)
	assert.Equal(t, "Caffeine improves memory", c.TextA)
	assert.Equal(t, "One reports an effect, the other none.", c.Explanation)
	assert.Equal(t, domain.SeverityHigh, c.Severity)
	assert.Equal(t, 3, c.DetectedAt)
	assert.Equal(t, 1, judge.CallCount(llm.PromptContradiction))
	assert.Equal(t, 1, judge.CallCount(llm.PromptExplanation))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JudgeCalls.WithLabelValues(metrics.KindContradiction)))
}

func TestContradictionJudge_FailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"negative", "no", nil},
		{"hedged", "Yes, but only partially", nil},
		{"empty", "", nil},
		{"error", "", errors.New("judge unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := llm.NewMockClient()
			judge.ContradictionResponse = tt.response
			judge.ContradictionError = tt.err

			c := NewContradictionJudge(judge, zap.NewNop(), nil).Check(context.Background(), testPair(), 1)

			assert.Nil(t, c)
			assert.Equal(t, 0, judge.CallCount(llm.PromptExplanation))
		})
	}
}

func TestContradictionJudge_ExplanationFallback(t *testing.T) {
	judge := llm.NewMockClient()
	judge.ContradictionResponse = "yes"
	judge.ExplanationError = errors.New("timeout")

	c := NewContradictionJudge(judge, zap.NewNop(), nil).Check(context.Background(), testPair(), 1)

	require.NotNil(t, c)
	assert.Equal(t, PlaceholderExplanation, c.Explanation)
}

func TestContradictionJudge_NilJudge(t *testing.T) {
	assert.Nil(t, NewContradictionJudge(nil, zap.NewNop(), nil).Check(context.Background(), testPair(), 1))
}
