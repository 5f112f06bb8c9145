package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/screenshot-differ/internal/diff"
)

// Config carries all run settings. Defaults come from the environment;
// command-line flags override them.
type Config struct {
	// CaptureRoot is scanned for the latest run directory when no
	// explicit directories are given
	CaptureRoot string
	// ExploreDir and ScriptDir override run resolution with explicit
	// capture directories (blob name prefixes in azure mode)
	ExploreDir string
	ScriptDir  string
	// FlatDir holds both sides in one directory with explore-/script-
	// file name prefixes, the layout the capture tooling writes
	FlatDir string
	// OutputRoot receives one timestamped artifact directory per run
	OutputRoot string

	MatchThreshold  float64
	ReviewThreshold float64
	Workers         int

	// Source selects where captures live: "local" or "azure"
	Source         string
	AzureAccount   string
	AzureKey       string
	AzureContainer string

	ServeAddr      string
	RequestTimeout time.Duration
}

// LoadFromEnv builds a config from environment variables with defaults
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		CaptureRoot:     getEnvOrDefault("CAPTURE_ROOT", "screenshots"),
		ExploreDir:      os.Getenv("EXPLORE_DIR"),
		ScriptDir:       os.Getenv("SCRIPT_DIR"),
		FlatDir:         os.Getenv("FLAT_DIR"),
		OutputRoot:      os.Getenv("DIFF_OUTPUT_ROOT"),
		MatchThreshold:  parseFloatOrDefault("MATCH_THRESHOLD", diff.DefaultMatchThreshold),
		ReviewThreshold: parseFloatOrDefault("REVIEW_THRESHOLD", diff.DefaultReviewThreshold),
		Workers:         int(parseIntOrDefault("DIFF_WORKERS", 0)),
		Source:          getEnvOrDefault("CAPTURE_SOURCE", "local"),
		AzureAccount:    os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:        os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:  os.Getenv("AZURE_STORAGE_CONTAINER"),
		ServeAddr:       getEnvOrDefault("SERVE_ADDR", "0.0.0.0:8080"),
		RequestTimeout:  parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
	}
	return cfg, nil
}

// Validate checks invariants and fills derived defaults
func (c *Config) Validate() error {
	if c.MatchThreshold <= 0 || c.ReviewThreshold <= 0 {
		return fmt.Errorf("thresholds must be > 0 (got match=%.2f, review=%.2f)", c.MatchThreshold, c.ReviewThreshold)
	}
	if c.MatchThreshold >= c.ReviewThreshold {
		return fmt.Errorf("match threshold %.2f must be below review threshold %.2f", c.MatchThreshold, c.ReviewThreshold)
	}
	if (c.ExploreDir == "") != (c.ScriptDir == "") {
		return fmt.Errorf("explore and script directories must be set together")
	}
	if c.Source != "local" && c.Source != "azure" {
		return fmt.Errorf("unsupported capture source: %q", c.Source)
	}
	if c.Source == "azure" {
		if c.AzureAccount == "" || c.AzureKey == "" || c.AzureContainer == "" {
			return fmt.Errorf("azure source needs AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY and AZURE_STORAGE_CONTAINER")
		}
		if c.ExploreDir == "" || c.ScriptDir == "" {
			return fmt.Errorf("azure source needs explore and script blob prefixes")
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0 (got %s)", c.RequestTimeout)
	}
	if c.OutputRoot == "" {
		c.OutputRoot = filepath.Join(c.CaptureRoot, "diffs")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
