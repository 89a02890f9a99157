package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "9999" {
		t.Errorf("port = %s, want 9999", cfg.Port)
	}
	if cfg.DatabasePath != "resorts.db" {
		t.Errorf("database path = %s", cfg.DatabasePath)
	}
	if cfg.MatcherBaseURL != "http://localhost:9999/api/resorts/reconcile" {
		t.Errorf("matcher base url = %s", cfg.MatcherBaseURL)
	}
	if cfg.SimilarityThreshold != 0.60 {
		t.Errorf("similarity threshold = %v, want 0.60", cfg.SimilarityThreshold)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("MATCHER_TIMEOUT", "45s")
	t.Setenv("SIMILARITY_THRESHOLD", "0.75")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Port)
	}
	if cfg.MatcherTimeout != 45*time.Second {
		t.Errorf("matcher timeout = %v, want 45s", cfg.MatcherTimeout)
	}
	if cfg.SimilarityThreshold != 0.75 {
		t.Errorf("similarity threshold = %v, want 0.75", cfg.SimilarityThreshold)
	}
	// Порт участвует в умолчании адреса сверки
	if cfg.MatcherBaseURL != "http://localhost:8080/api/resorts/reconcile" {
		t.Errorf("matcher base url = %s", cfg.MatcherBaseURL)
	}
}

func TestLoadConfigInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("MATCHER_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.MaxOpenConns != 25 {
		t.Errorf("max open conns = %d, want default 25", cfg.MaxOpenConns)
	}
	if cfg.MatcherTimeout != 30*time.Second {
		t.Errorf("matcher timeout = %v, want default 30s", cfg.MatcherTimeout)
	}
}

func TestValidate(t *testing.T) {
	if err := GetDefaults().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty port", func(c *Config) { c.Port = "" }, "port is required"},
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "between 1 and 65535"},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }, "database path is required"},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 50 }, "cannot be greater"},
		{"bad log level", func(c *Config) { c.LogLevel = "VERBOSE" }, "invalid log level"},
		{"short matcher timeout", func(c *Config) { c.MatcherTimeout = 0 }, "matcher timeout"},
		{"zero rate", func(c *Config) { c.MatcherRatePerSec = 0 }, "rate limit"},
		{"threshold above 1", func(c *Config) { c.SimilarityThreshold = 1.5 }, "similarity threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	cfg := GetDefaults()
	cfg.Port = ""
	cfg.DatabasePath = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "port is required") || !strings.Contains(err.Error(), "database path is required") {
		t.Errorf("error must list all problems: %v", err)
	}
}
