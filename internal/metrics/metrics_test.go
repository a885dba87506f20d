package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSynthesis_JudgeCall(t *testing.T) {
	m := NewSynthesis(prometheus.NewRegistry())

	m.JudgeCall(KindContradiction, nil)
	m.JudgeCall(KindContradiction, errors.New("timeout"))
	m.JudgeCall(KindThemeName, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JudgeCalls.WithLabelValues(KindContradiction)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JudgeFailures.WithLabelValues(KindContradiction)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.JudgeFailures.WithLabelValues(KindThemeName)))
}

func TestSynthesis_Round(t *testing.T) {
	m := NewSynthesis(prometheus.NewRegistry())

	m.Round(50*time.Millisecond, 2, 1, 0, 1)
	m.Round(20*time.Millisecond, 1, 0, 1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsProcessed))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ThemesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContradictionsDetected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GapsFlagged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ThemesMerged))
}

func TestSynthesis_NilSafe(t *testing.T) {
	var m *Synthesis
	assert.NotPanics(t, func() {
		m.JudgeCall(KindExplanation, nil)
		m.Round(time.Second, 1, 1, 1, 1)
	})
}
