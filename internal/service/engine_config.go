package service

import (
	"fmt"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

// Engine defaults
const (
	DefaultThemeThreshold   = 0.70
	DefaultMergeThreshold   = 0.85
	DefaultTopicFloor       = 0.60
	DefaultCandidateTopK    = 5
	DefaultGapScanInterval  = 5 // documents between gap scans
	DefaultGapMaxConfidence = 0.60
	DefaultGapMinSupport    = 3 // supporting documents
	DefaultJudgeConcurrency = 4
)

// EngineConfig tunes one synthesis engine.
type EngineConfig struct {
	ThemeThreshold   float64 `yaml:"theme_threshold" json:"theme_threshold"`
	MergeThreshold   float64 `yaml:"merge_threshold" json:"merge_threshold"`
	TopicFloor       float64 `yaml:"topic_floor" json:"topic_floor"`
	CandidateTopK    int     `yaml:"candidate_top_k" json:"candidate_top_k"`
	GapScanInterval  int     `yaml:"gap_scan_interval" json:"gap_scan_interval"`
	GapMaxConfidence float64 `yaml:"gap_max_confidence" json:"gap_max_confidence"`
	GapMinSupport    int     `yaml:"gap_min_support" json:"gap_min_support"`
	JudgeConcurrency int     `yaml:"judge_concurrency" json:"judge_concurrency"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ThemeThreshold:   DefaultThemeThreshold,
		MergeThreshold:   DefaultMergeThreshold,
		TopicFloor:       DefaultTopicFloor,
		CandidateTopK:    DefaultCandidateTopK,
		GapScanInterval:  DefaultGapScanInterval,
		GapMaxConfidence: DefaultGapMaxConfidence,
		GapMinSupport:    DefaultGapMinSupport,
		JudgeConcurrency: DefaultJudgeConcurrency,
	}
}

func (c EngineConfig) Validate() error {
	for name, v := range map[string]float64{
		"theme_threshold":    c.ThemeThreshold,
		"merge_threshold":    c.MergeThreshold,
		"topic_floor":        c.TopicFloor,
		"gap_max_confidence": c.GapMaxConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", domain.ErrInvalidConfig, name, v)
		}
	}
	if c.CandidateTopK < 1 {
		return fmt.Errorf("%w: candidate_top_k must be at least 1", domain.ErrInvalidConfig)
	}
	if c.GapScanInterval < 1 {
		return fmt.Errorf("%w: gap_scan_interval must be at least 1", domain.ErrInvalidConfig)
	}
	if c.GapMinSupport < 1 {
		return fmt.Errorf("%w: gap_min_support must be at least 1", domain.ErrInvalidConfig)
	}
	if c.JudgeConcurrency < 1 {
		return fmt.Errorf("%w: judge_concurrency must be at least 1", domain.ErrInvalidConfig)
	}
	return nil
}
