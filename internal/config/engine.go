package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Harshitk-cp/litsynth/internal/service"
	"gopkg.in/yaml.v3"
)

// LoadEngineConfig builds the engine tuning: defaults, then the YAML file at
// path (skipped when path is empty or missing), then env overrides. The
// result is validated.
func LoadEngineConfig(path string) (service.EngineConfig, error) {
	cfg := service.DefaultEngineConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read engine config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse engine config %s: %w", path, err)
			}
		}
	}

	if err := applyEngineEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEngineEnv(cfg *service.EngineConfig) error {
	floats := []struct {
		env string
		dst *float64
	}{
		{"THEME_THRESHOLD", &cfg.ThemeThreshold},
		{"MERGE_THRESHOLD", &cfg.MergeThreshold},
		{"TOPIC_FLOOR", &cfg.TopicFloor},
		{"GAP_MAX_CONFIDENCE", &cfg.GapMaxConfidence},
	}
	for _, f := range floats {
		raw := os.Getenv(f.env)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", f.env, err)
		}
		*f.dst = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"CANDIDATE_TOP_K", &cfg.CandidateTopK},
		{"GAP_SCAN_INTERVAL", &cfg.GapScanInterval},
		{"GAP_MIN_SUPPORT", &cfg.GapMinSupport},
		{"JUDGE_CONCURRENCY", &cfg.JudgeConcurrency},
	}
	for _, i := range ints {
		raw := os.Getenv(i.env)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", i.env, err)
		}
		*i.dst = v
	}
	return nil
}
