package config

import (
	"os"
	"strconv"

	"uxstat/adapters/stats/cluster"
	"uxstat/adapters/stats/crossmethod"
	"uxstat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis      AnalysisConfig
	Accessibility crossmethod.AccessibilityConfig
	Paths         PathConfig
}

// AnalysisConfig holds the card-sort analysis tunables
type AnalysisConfig struct {
	// CompletenessThreshold is the mean deck coverage below which a result
	// set is flagged invalid.
	CompletenessThreshold float64
	// Linkage selects the clustering linkage rule (average, single, complete)
	Linkage cluster.Linkage
}

// PathConfig holds file system paths for the ingestion adapter
type PathConfig struct {
	StudyFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	linkage, err := cluster.ParseLinkage(getEnvOrDefault("CLUSTER_LINKAGE", string(cluster.LinkageAverage)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cluster configuration")
	}

	config := &Config{
		Analysis: AnalysisConfig{
			CompletenessThreshold: getEnvFloatOrDefault("COMPLETENESS_THRESHOLD", 0.8),
			Linkage:               linkage,
		},
		Accessibility: loadAccessibilityConfig(),
		Paths: PathConfig{
			StudyFile: getEnvOrDefault("STUDY_FILE", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadAccessibilityConfig() crossmethod.AccessibilityConfig {
	cfg := crossmethod.DefaultAccessibilityConfig()
	cfg.ReportFloor = getEnvFloatOrDefault("A11Y_REPORT_FLOOR", cfg.ReportFloor)
	cfg.MediumCutoff = getEnvFloatOrDefault("A11Y_MEDIUM_CUTOFF", cfg.MediumCutoff)
	cfg.HighCutoff = getEnvFloatOrDefault("A11Y_HIGH_CUTOFF", cfg.HighCutoff)
	return cfg
}

// Validate checks the tunables for ranges the pipeline cannot run with.
// Callers that override fields after Load must re-run it.
func (c *Config) Validate() error {
	if c.Analysis.CompletenessThreshold <= 0 || c.Analysis.CompletenessThreshold > 1 {
		return errors.ConfigInvalid("COMPLETENESS_THRESHOLD must be in (0, 1]")
	}
	if c.Accessibility.MediumCutoff >= c.Accessibility.HighCutoff {
		return errors.ConfigInvalid("A11Y_MEDIUM_CUTOFF must be below A11Y_HIGH_CUTOFF")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
