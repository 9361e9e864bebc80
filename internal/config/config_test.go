package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matheuskafuri/ainews/internal/filter"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIURL, EnvLogLevel, EnvCacheBackend, EnvRedisURL} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.APIURL != "http://localhost:5000/api" {
		t.Errorf("api_url = %q", cfg.APIURL)
	}
	if cfg.PageSize != 20 || cfg.SearchPageSize != 50 {
		t.Errorf("page sizes = %d/%d", cfg.PageSize, cfg.SearchPageSize)
	}
	if len(cfg.Sources) != 8 || len(cfg.Categories) != 8 {
		t.Errorf("expected 8 sources and 8 categories, got %d/%d", len(cfg.Sources), len(cfg.Categories))
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults do not validate: %v", err)
	}
}

func TestDefaultFiltersMatchBuiltins(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatal(err)
	}
	got := cfg.DefaultFilters()
	if !got.Equal(filter.Defaults()) {
		t.Errorf("DefaultFilters = %+v, want %+v", got, filter.Defaults())
	}
}

func TestDefaultFiltersOverrides(t *testing.T) {
	off := false
	cfg := &Config{Defaults: FilterDefaults{
		Categories: []string{},
		SortBy:     "date",
		MinHotness: 0.4,
		ShowImages: &off,
	}}
	st := cfg.DefaultFilters()
	if len(st.Categories) != 0 {
		t.Errorf("explicit empty categories lost: %v", st.Categories)
	}
	if st.SortBy != filter.SortDate || st.MinHotness != 0.4 || st.ShowImages || !st.ShowSummaries {
		t.Errorf("unexpected state: %+v", st)
	}

	cfg.Defaults.SortBy = "bogus"
	if cfg.DefaultFilters().SortBy != filter.SortHotness {
		t.Error("invalid sort should keep the built-in default")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"90d", 90 * 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"720h", 720 * time.Hour},
		{"30s", 30 * time.Second},
		{"", time.Minute},
		{"invalid", time.Minute},
		{"-5m", time.Minute},
	}
	for _, tt := range tests {
		if got := ParseDuration(tt.input, time.Minute); got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := &Config{Timeout: "10s", Cache: CacheConfig{Fresh: "1m", MaxStale: "2m", Retention: "3d"}}
	if cfg.TimeoutDuration() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.TimeoutDuration())
	}
	if cfg.FreshDuration() != time.Minute || cfg.MaxStaleDuration() != 2*time.Minute {
		t.Errorf("fresh/max stale = %v/%v", cfg.FreshDuration(), cfg.MaxStaleDuration())
	}
	if cfg.RetentionDuration() != 72*time.Hour {
		t.Errorf("retention = %v", cfg.RetentionDuration())
	}
	if cfg.ScrapeDelay() != 5*time.Second {
		t.Errorf("scrape delay default = %v", cfg.ScrapeDelay())
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `api_url: https://news.example.com/api
page_size: 10
categories: [Robotics, AI]
defaults:
  sort_by: date
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://news.example.com/api" || cfg.PageSize != 10 {
		t.Errorf("file values not applied: %q %d", cfg.APIURL, cfg.PageSize)
	}
	if !slices.Equal(cfg.Categories, []string{"Robotics", "AI"}) {
		t.Errorf("categories = %v", cfg.Categories)
	}
	// unset keys keep the embedded defaults
	if cfg.SearchPageSize != 50 || cfg.Cache.Backend != "sqlite" || len(cfg.Sources) != 8 {
		t.Errorf("defaults not kept: %d %q %d", cfg.SearchPageSize, cfg.Cache.Backend, len(cfg.Sources))
	}
	st := cfg.DefaultFilters()
	if st.SortBy != filter.SortDate || !st.ShowSummaries {
		t.Errorf("defaults block merge: %+v", st)
	}
}

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	clearEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageSize != 20 {
		t.Errorf("page_size = %d", cfg.PageSize)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("defaults not written: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://api.internal:8080/api")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvCacheBackend, "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://api.internal:8080/api" || cfg.Log.Level != "debug" || cfg.Cache.Backend != "memory" {
		t.Errorf("env not applied: %q %q %q", cfg.APIURL, cfg.Log.Level, cfg.Cache.Backend)
	}
}

func TestValidation(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"bad scheme", "api_url: ftp://x/api\n"},
		{"no host", "api_url: http:///api\n"},
		{"bad backend", "cache:\n  backend: etcd\n"},
		{"redis without url", "cache:\n  backend: redis\n  redis_url: \"\"\n"},
		{"zero page size", "page_size: 0\n"},
		{"bad sort", "defaults:\n  sort_by: random\n"},
		{"hotness out of range", "defaults:\n  min_hotness: 1.5\n"},
		{"fresh beyond stale", "cache:\n  fresh: 20m\n  max_stale: 10m\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPaths(t *testing.T) {
	for _, p := range []string{DefaultConfigPath(), CachePath(), LogPath()} {
		if !filepath.IsAbs(p) {
			t.Errorf("expected absolute path, got %q", p)
		}
	}
	cfg := &Config{Cache: CacheConfig{Path: "/tmp/x.db"}, Log: LogConfig{File: "/tmp/x.log"}}
	if cfg.CacheFile() != "/tmp/x.db" || cfg.LogFile() != "/tmp/x.log" {
		t.Error("explicit paths not honoured")
	}
}

func TestWatchReloads(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_size: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, slog.New(slog.DiscardHandler), func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		}, nil)
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("page_size: 33\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changed:
		if c.PageSize != 33 {
			t.Errorf("reloaded page_size = %d", c.PageSize)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
