package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/cache"
	"github.com/matheuskafuri/ainews/internal/config"
	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/matheuskafuri/ainews/internal/filter"
	"github.com/matheuskafuri/ainews/internal/logging"
	"github.com/spf13/cobra"
)

// session is everything a command needs to talk to the backend.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   cache.Store
	query   *cache.Query
	source  *feed.Source
	filters *filter.Store

	logCloser io.Closer
}

func loadConfig() (*config.Config, error) {
	config.LoadEnv()
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagNoCache {
		cfg.Cache.Backend = "memory"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	return logging.New(logging.Options{
		Path:       cfg.LogFile(),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
}

// openStore picks the cache backend named in the config. A sqlite cache is
// pruned of entries older than the retention period on open.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		rs, err := cache.OpenRedis(ctx, cfg.Cache.RedisURL, "", cfg.RetentionDuration())
		if err != nil {
			return nil, err
		}
		return rs, nil
	}

	db, err := cache.Open(cfg.CacheFile())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if n, err := db.Prune(ctx, time.Now().Add(-cfg.RetentionDuration())); err != nil {
		logger.Warn("pruning cache on open failed", "pruned", n, "error", err)
	}
	return db, nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, logCloser := newLogger(cfg)

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	client := api.New(cfg.APIURL, cfg.TimeoutDuration(), api.WithLogger(logger))
	query := cache.NewQuery(store,
		cache.WithLogger(logger),
		cache.WithRevalidateTimeout(cfg.TimeoutDuration()),
	)
	policies := feed.DefaultPolicies().WithBase(cache.Policy{
		Fresh:    cfg.FreshDuration(),
		MaxStale: cfg.MaxStaleDuration(),
	})
	source := feed.NewSource(client, query, feed.WithPolicies(policies), feed.WithLogger(logger))

	filters := filter.NewStore(cfg.DefaultFilters())
	if err := applyFilterFlags(cmd, filters); err != nil {
		store.Close()
		logCloser.Close()
		return nil, err
	}

	logger.Debug("session opened", "api", cfg.APIURL, "cache", cfg.Cache.Backend)
	return &session{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		query:     query,
		source:    source,
		filters:   filters,
		logCloser: logCloser,
	}, nil
}

// Close waits for background cache refreshes before closing the store.
func (s *session) Close() error {
	s.query.Wait()
	return errors.Join(s.store.Close(), s.logCloser.Close())
}

// requestContext bounds a one-shot command by the configured API timeout.
func (s *session) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), s.cfg.TimeoutDuration())
}
