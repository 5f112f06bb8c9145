package config

import (
	"testing"
	"time"

	"github.com/anime-shed/screenshot-differ/internal/diff"
)

func validConfig() *Config {
	return &Config{
		CaptureRoot:     "screenshots",
		MatchThreshold:  diff.DefaultMatchThreshold,
		ReviewThreshold: diff.DefaultReviewThreshold,
		Source:          "local",
		RequestTimeout:  time.Minute,
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"MATCH_THRESHOLD", "REVIEW_THRESHOLD", "CAPTURE_SOURCE", "DIFF_WORKERS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.MatchThreshold != 22.0 {
		t.Errorf("Expected default match threshold 22.0, got %f", cfg.MatchThreshold)
	}
	if cfg.ReviewThreshold != 30.0 {
		t.Errorf("Expected default review threshold 30.0, got %f", cfg.ReviewThreshold)
	}
	if cfg.Source != "local" {
		t.Errorf("Expected local source, got %q", cfg.Source)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "10.5")
	t.Setenv("REVIEW_THRESHOLD", "40")
	t.Setenv("DIFF_WORKERS", "3")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.MatchThreshold != 10.5 || cfg.ReviewThreshold != 40.0 {
		t.Errorf("Expected overridden thresholds, got %f / %f", cfg.MatchThreshold, cfg.ReviewThreshold)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Workers)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"Inverted Thresholds", func(c *Config) { c.MatchThreshold = 30; c.ReviewThreshold = 22 }, true},
		{"Zero Threshold", func(c *Config) { c.MatchThreshold = 0 }, true},
		{"Explore Without Script", func(c *Config) { c.ExploreDir = "a" }, true},
		{"Unknown Source", func(c *Config) { c.Source = "ftp" }, true},
		{"Azure Missing Credentials", func(c *Config) { c.Source = "azure" }, true},
		{"Zero Timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_DefaultsOutputRoot(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.OutputRoot == "" {
		t.Error("Expected output root to default under the capture root")
	}
}
