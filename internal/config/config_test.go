package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_DIR", "INFLUENCERS_SOURCE", "HTTP_TIMEOUT_SECONDS", "LOG_LEVEL", "FETCH_RETRIES", "RELOAD_CRON"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Sources.Tracking != filepath.Join("./data", "tracking_data.csv") {
		t.Fatalf("unexpected tracking source %s", cfg.Sources.Tracking)
	}
	if cfg.HTTPTimeout != 15*time.Second || cfg.FetchRetries != 3 {
		t.Fatalf("unexpected timeouts: %v %d", cfg.HTTPTimeout, cfg.FetchRetries)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.LogLevel)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/campaign")
	t.Setenv("PAYOUTS_SOURCE", "https://example.test/payouts.csv")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := FromEnv()
	if cfg.Sources.Posts != filepath.Join("/srv/campaign", "posts.csv") {
		t.Fatalf("unexpected posts source %s", cfg.Sources.Posts)
	}
	if cfg.Sources.Payouts != "https://example.test/payouts.csv" {
		t.Fatalf("unexpected payouts source %s", cfg.Sources.Payouts)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("PORT", "")
	t.Setenv("INFLUENCERS_SOURCE", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "port: \"9090\"\ndata_dir: /data/mb\nsources:\n  tracking: https://example.test/tracking.csv\nhttp_timeout: 5s\nreload_cron: \"@hourly\"\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.ReloadCron != "@hourly" || cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.Sources.Influencers != filepath.Join("/data/mb", "influencers.csv") {
		t.Fatalf("unexpected influencers source %s", cfg.Sources.Influencers)
	}
	if cfg.Sources.Tracking != "https://example.test/tracking.csv" {
		t.Fatalf("unexpected tracking source %s", cfg.Sources.Tracking)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOverlayKeepsEnvSourcesAndZeroRetries(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("INFLUENCERS_SOURCE", "")
	t.Setenv("POSTS_SOURCE", "")
	t.Setenv("TRACKING_SOURCE", "https://example.test/tracking.csv")
	t.Setenv("FETCH_RETRIES", "")

	cfg, err := overlay(FromEnv(), []byte("data_dir: /data/mb\nfetch_retries: 0\n"))
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if cfg.Sources.Tracking != "https://example.test/tracking.csv" {
		t.Fatalf("env source was overwritten: %s", cfg.Sources.Tracking)
	}
	if cfg.Sources.Posts != filepath.Join("/data/mb", "posts.csv") {
		t.Fatalf("unexpected posts source %s", cfg.Sources.Posts)
	}
	if cfg.FetchRetries != 0 {
		t.Fatalf("explicit fetch_retries: 0 should apply, got %d", cfg.FetchRetries)
	}

	cfg, err = overlay(FromEnv(), []byte("port: \"9000\"\n"))
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if cfg.FetchRetries != 3 {
		t.Fatalf("absent fetch_retries should keep the default, got %d", cfg.FetchRetries)
	}
}
