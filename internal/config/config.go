package config

import (
	"os"
	"strconv"
	"time"

	"plaquerisk/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Model    ModelConfig `validate:"required"`
	Database DatabaseConfig
	Explain  ExplainConfig
	Cache    CacheConfig
	Server   ServerConfig
}

// ModelConfig holds persisted predictor settings
type ModelConfig struct {
	Dir          string `validate:"required"`
	BaselineFile string
	UseHeuristic bool
}

// DatabaseConfig holds the optional cohort database settings. When URL is
// empty the cohort is read from the baseline file next to the model.
type DatabaseConfig struct {
	URL         string
	CohortTable string
}

// ExplainConfig holds counterfactual explanation settings
type ExplainConfig struct {
	MaxParallel int
}

// CacheConfig holds classifier memoization settings
type CacheConfig struct {
	Size int
}

// ServerConfig holds metrics endpoint settings
type ServerConfig struct {
	MetricsPort string
	Timeout     time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Model: ModelConfig{
			Dir:          getEnvOrDefault("MODEL_DIR", "ag_model"),
			BaselineFile: os.Getenv("BASELINE_FILE"),
			UseHeuristic: getEnvBoolOrDefault("USE_HEURISTIC_MODEL", false),
		},
		Database: DatabaseConfig{
			URL:         os.Getenv("DATABASE_URL"),
			CohortTable: getEnvOrDefault("COHORT_TABLE", "patient_cohort"),
		},
		Explain: ExplainConfig{
			MaxParallel: getEnvIntOrDefault("EXPLAIN_MAX_PARALLEL", 0),
		},
		Cache: CacheConfig{
			Size: getEnvIntOrDefault("CACHE_SIZE", 1024),
		},
		Server: ServerConfig{
			MetricsPort: getEnvOrDefault("METRICS_PORT", ""),
			Timeout:     getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Model.Dir == "" {
		return errors.ConfigInvalid("model directory is required")
	}
	if config.Explain.MaxParallel < 0 {
		return errors.ConfigInvalid("EXPLAIN_MAX_PARALLEL must not be negative")
	}
	if config.Cache.Size <= 0 {
		return errors.ConfigInvalid("CACHE_SIZE must be positive")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
