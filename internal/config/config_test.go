package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOMDIFF_API_KEY", "k")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "not-a-duration")

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected job TTL 1h, got %s", cfg.JobTTL)
	}
	if cfg.DefaultProfile != "simple" {
		t.Errorf("expected default profile simple, got %q", cfg.DefaultProfile)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback enabled by default")
	}
	if cfg.ArchiveEnabled() {
		t.Error("expected archive disabled without ARCHIVE_URL")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	profiles := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(profiles, []byte("[]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	base := func() Config {
		return Config{
			Port:           "8090",
			APIKey:         "k",
			WorkerCount:    2,
			MaxQueueSize:   10,
			MaxUploadBytes: 1 << 20,
			DefaultProfile: "simple",
			JobTTL:         time.Minute,
			StatsWindow:    time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"valid with archive", func(c *Config) { c.ArchiveURL = "http://archive:8080"; c.ArchiveAPIKey = "a" }, ""},
		{"valid profiles file", func(c *Config) { c.ProfilesFile = profiles }, ""},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "BOMDIFF_API_KEY is required"},
		{"archive without key", func(c *Config) { c.ArchiveURL = "http://archive:8080" }, "ARCHIVE_API_KEY is required when ARCHIVE_URL is set"},
		{"bad archive url", func(c *Config) { c.ArchiveURL = "::nope"; c.ArchiveAPIKey = "a" }, "ARCHIVE_URL"},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }, "WORKER_COUNT: must be at least 1"},
		{"tiny ttl", func(c *Config) { c.JobTTL = time.Millisecond }, "JOB_TTL"},
		{"missing profiles file", func(c *Config) { c.ProfilesFile = filepath.Join(t.TempDir(), "nope.yaml") }, "PROFILES_FILE"},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, "PORT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
