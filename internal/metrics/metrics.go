// Package metrics holds the prometheus collectors for synthesis activity.
// A nil *Synthesis is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Judge call kinds
const (
	KindThemeName     = "theme_name"
	KindContradiction = "contradiction"
	KindExplanation   = "explanation"
	KindGapDirections = "gap_directions"
)

type Synthesis struct {
	DocumentsProcessed     prometheus.Counter
	JudgeCalls             *prometheus.CounterVec
	JudgeFailures          *prometheus.CounterVec
	ContradictionsDetected prometheus.Counter
	ThemesCreated          prometheus.Counter
	ThemesMerged           prometheus.Counter
	GapsFlagged            prometheus.Counter
	RoundDuration          prometheus.Histogram
}

// NewSynthesis builds the collectors and registers them on reg.
func NewSynthesis(reg prometheus.Registerer) *Synthesis {
	m := &Synthesis{
		DocumentsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "litsynth_documents_processed_total",
			Help: "Documents folded into a synthesis",
		}),
		JudgeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "litsynth_judge_calls_total",
			Help: "Judge prompts issued, by kind",
		}, []string{"kind"}),
		JudgeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "litsynth_judge_failures_total",
			Help: "Judge prompts that errored and degraded to a fallback, by kind",
		}, []string{"kind"}),
		ContradictionsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "litsynth_contradictions_detected_total",
			Help: "Contradictions recorded",
		}),
		ThemesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "litsynth_themes_created_total",
			Help: "Themes spawned by the theme updater",
		}),
		ThemesMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "litsynth_themes_merged_total",
			Help: "Themes absorbed by the theme merger",
		}),
		GapsFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "litsynth_gaps_flagged_total",
			Help: "Research gaps surfaced by the gap scanner",
		}),
		RoundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "litsynth_round_duration_seconds",
			Help:    "Wall time to process one document",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.DocumentsProcessed,
			m.JudgeCalls,
			m.JudgeFailures,
			m.ContradictionsDetected,
			m.ThemesCreated,
			m.ThemesMerged,
			m.GapsFlagged,
			m.RoundDuration,
		)
	}
	return m
}

// JudgeCall records one judge prompt and whether it failed.
func (m *Synthesis) JudgeCall(kind string, err error) {
	if m == nil {
		return
	}
	m.JudgeCalls.WithLabelValues(kind).Inc()
	if err != nil {
		m.JudgeFailures.WithLabelValues(kind).Inc()
	}
}

// Round records the outcome of one processed document.
func (m *Synthesis) Round(d time.Duration, themesCreated, contradictions, gaps, merges int) {
	if m == nil {
		return
	}
	m.DocumentsProcessed.Inc()
	m.RoundDuration.Observe(d.Seconds())
	m.ThemesCreated.Add(float64(themesCreated))
	m.ContradictionsDetected.Add(float64(contradictions))
	m.GapsFlagged.Add(float64(gaps))
	m.ThemesMerged.Add(float64(merges))
}

// NewHTTPRequests builds the API request counter and registers it on reg.
func NewHTTPRequests(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "litsynth_http_requests_total",
		Help: "API requests by route pattern, method and status",
	}, []string{"route", "method", "status"})
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}
