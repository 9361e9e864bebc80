package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/matheuskafuri/ainews/internal/filter"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EnvAPIURL       = "AINEWS_API_URL"
	EnvLogLevel     = "AINEWS_LOG_LEVEL"
	EnvCacheBackend = "AINEWS_CACHE_BACKEND"
	EnvRedisURL     = "AINEWS_REDIS_URL"
)

type CacheConfig struct {
	Backend   string `yaml:"backend"`
	Fresh     string `yaml:"fresh"`
	MaxStale  string `yaml:"max_stale"`
	Retention string `yaml:"retention"`
	RedisURL  string `yaml:"redis_url,omitempty"`
	Path      string `yaml:"path,omitempty"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
}

// FilterDefaults is the filter selection the reader starts with and
// returns to on reset.
type FilterDefaults struct {
	Sources       []string `yaml:"sources,omitempty"`
	Categories    []string `yaml:"categories"`
	SortBy        string   `yaml:"sort_by"`
	TimeRange     string   `yaml:"time_range"`
	MinHotness    float64  `yaml:"min_hotness"`
	ShowSummaries *bool    `yaml:"show_summaries,omitempty"`
	ShowImages    *bool    `yaml:"show_images,omitempty"`
}

type Config struct {
	APIURL             string         `yaml:"api_url"`
	Timeout            string         `yaml:"timeout"`
	PageSize           int            `yaml:"page_size"`
	SearchPageSize     int            `yaml:"search_page_size"`
	TrendingLimit      int            `yaml:"trending_limit"`
	KeywordsLimit      int            `yaml:"keywords_limit"`
	ScrapeRefreshDelay string         `yaml:"scrape_refresh_delay"`
	Cache              CacheConfig    `yaml:"cache"`
	Log                LogConfig      `yaml:"log"`
	Sources            []string       `yaml:"sources"`
	Categories         []string       `yaml:"categories"`
	Defaults           FilterDefaults `yaml:"defaults"`
}

func (c *Config) TimeoutDuration() time.Duration {
	return ParseDuration(c.Timeout, 30*time.Second)
}

func (c *Config) ScrapeDelay() time.Duration {
	return ParseDuration(c.ScrapeRefreshDelay, 5*time.Second)
}

func (c *Config) FreshDuration() time.Duration {
	return ParseDuration(c.Cache.Fresh, 5*time.Minute)
}

func (c *Config) MaxStaleDuration() time.Duration {
	return ParseDuration(c.Cache.MaxStale, 10*time.Minute)
}

func (c *Config) RetentionDuration() time.Duration {
	return ParseDuration(c.Cache.Retention, 7*24*time.Hour)
}

// CacheFile is where the sqlite backend keeps its database.
func (c *Config) CacheFile() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return CachePath()
}

func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return LogPath()
}

// DefaultFilters turns the defaults block into a filter.State. Unset
// fields keep the built-in defaults.
func (c *Config) DefaultFilters() filter.State {
	st := filter.Defaults()
	d := c.Defaults
	if d.Sources != nil {
		st.Sources = append([]string(nil), d.Sources...)
	}
	if d.Categories != nil {
		st.Categories = append([]string(nil), d.Categories...)
	}
	if s := filter.SortBy(d.SortBy); s.Valid() {
		st.SortBy = s
	}
	if d.TimeRange != "" {
		st.TimeRange = d.TimeRange
	}
	st.MinHotness = d.MinHotness
	if d.ShowSummaries != nil {
		st.ShowSummaries = *d.ShowSummaries
	}
	if d.ShowImages != nil {
		st.ShowImages = *d.ShowImages
	}
	return st
}

// ParseDuration accepts Go durations plus an "Nd" day form. Empty or
// invalid input yields fallback.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ainews", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "ainews", "ainews.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "ainews", "ainews.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads the config at path (DefaultConfigPath when empty) on top of
// the embedded defaults, then applies environment overrides. A missing
// file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// first run; a write failure just means we run on the embedded copy
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Cache.RedisURL = v
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url: missing host")
	}
	switch cfg.Cache.Backend {
	case "sqlite", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (valid: sqlite, memory, redis)", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required for the redis backend")
	}
	for name, n := range map[string]int{
		"page_size":        cfg.PageSize,
		"search_page_size": cfg.SearchPageSize,
		"trending_limit":   cfg.TrendingLimit,
		"keywords_limit":   cfg.KeywordsLimit,
	} {
		if n <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, n)
		}
	}
	if s := cfg.Defaults.SortBy; s != "" && !filter.SortBy(s).Valid() {
		return fmt.Errorf("defaults.sort_by: unknown sort %q (valid: hotness, date, relevance)", s)
	}
	if h := cfg.Defaults.MinHotness; h < 0 || h > 1 {
		return fmt.Errorf("defaults.min_hotness must be between 0 and 1, got %v", h)
	}
	if cfg.FreshDuration() > cfg.MaxStaleDuration() {
		return fmt.Errorf("cache.fresh (%s) must not exceed cache.max_stale (%s)", cfg.Cache.Fresh, cfg.Cache.MaxStale)
	}
	return nil
}
