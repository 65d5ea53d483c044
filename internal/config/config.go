package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Sources struct {
	Influencers string `yaml:"influencers"`
	Posts       string `yaml:"posts"`
	Tracking    string `yaml:"tracking"`
	Payouts     string `yaml:"payouts"`
}

type Config struct {
	Port            string
	DataDir         string
	Sources         Sources
	HTTPTimeout     time.Duration
	FetchRetries    int
	ReloadCron      string // empty = no scheduled reload
	DefaultPageSize int
	LogLevel        slog.Level
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	dir := envOr("DATA_DIR", "./data")
	return Config{
		Port:    envOr("PORT", "8080"),
		DataDir: dir,
		Sources: Sources{
			Influencers: envOr(sourceEnv.Influencers, filepath.Join(dir, "influencers.csv")),
			Posts:       envOr(sourceEnv.Posts, filepath.Join(dir, "posts.csv")),
			Tracking:    envOr(sourceEnv.Tracking, filepath.Join(dir, "tracking_data.csv")),
			Payouts:     envOr(sourceEnv.Payouts, filepath.Join(dir, "payouts.csv")),
		},
		HTTPTimeout:     to,
		FetchRetries:    envInt("FETCH_RETRIES", 3),
		ReloadCron:      os.Getenv("RELOAD_CRON"),
		DefaultPageSize: envInt("DEFAULT_PAGE_SIZE", 100),
		LogLevel:        lvl,
	}
}

// Load reads the environment and, when CONFIG_FILE is set, overlays the
// non-zero values of that YAML file.
func Load() (Config, error) {
	cfg := FromEnv()
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return overlay(cfg, b)
}

// fileConfig mirrors Config for YAML. FetchRetries is a pointer so an
// explicit 0 is distinguishable from an absent key.
type fileConfig struct {
	Port            string        `yaml:"port"`
	DataDir         string        `yaml:"data_dir"`
	Sources         Sources       `yaml:"sources"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	FetchRetries    *int          `yaml:"fetch_retries"`
	ReloadCron      string        `yaml:"reload_cron"`
	DefaultPageSize int           `yaml:"default_page_size"`
}

// sourceEnv names the environment variable behind each source.
var sourceEnv = struct{ Influencers, Posts, Tracking, Payouts string }{
	"INFLUENCERS_SOURCE", "POSTS_SOURCE", "TRACKING_SOURCE", "PAYOUTS_SOURCE",
}

func overlay(cfg Config, b []byte) (Config, error) {
	var f fileConfig
	if err := yaml.Unmarshal(b, &f); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if f.Port != "" {
		cfg.Port = f.Port
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
		// sources set in the environment win over ones derived from data_dir
		derive := func(dst *string, env, file string) {
			if os.Getenv(env) == "" {
				*dst = filepath.Join(f.DataDir, file)
			}
		}
		derive(&cfg.Sources.Influencers, sourceEnv.Influencers, "influencers.csv")
		derive(&cfg.Sources.Posts, sourceEnv.Posts, "posts.csv")
		derive(&cfg.Sources.Tracking, sourceEnv.Tracking, "tracking_data.csv")
		derive(&cfg.Sources.Payouts, sourceEnv.Payouts, "payouts.csv")
	}
	if f.Sources.Influencers != "" {
		cfg.Sources.Influencers = f.Sources.Influencers
	}
	if f.Sources.Posts != "" {
		cfg.Sources.Posts = f.Sources.Posts
	}
	if f.Sources.Tracking != "" {
		cfg.Sources.Tracking = f.Sources.Tracking
	}
	if f.Sources.Payouts != "" {
		cfg.Sources.Payouts = f.Sources.Payouts
	}
	if f.HTTPTimeout > 0 {
		cfg.HTTPTimeout = f.HTTPTimeout
	}
	if f.FetchRetries != nil && *f.FetchRetries >= 0 {
		cfg.FetchRetries = *f.FetchRetries
	}
	if f.ReloadCron != "" {
		cfg.ReloadCron = f.ReloadCron
	}
	if f.DefaultPageSize > 0 {
		cfg.DefaultPageSize = f.DefaultPageSize
	}
	return cfg, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
