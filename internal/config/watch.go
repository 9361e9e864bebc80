package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// Watch calls onChange with the reloaded config whenever the file at path
// is written. Editors that save by rename are handled by watching the
// directory. A file that fails to load is reported through onError and the
// previous config stays in effect. Watch returns when ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config), onError func(error)) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	var (
		timer  *time.Timer
		reload = make(chan struct{}, 1)
	)
	fire := func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, fire)

		case <-reload:
			cfg, err := loadWithRetry(path)
			if err != nil {
				logger.Warn("config reload failed, keeping previous config", "path", path, "error", err)
				if onError != nil {
					onError(err)
				}
				continue
			}
			logger.Info("config reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

// loadWithRetry gives a writer that truncates before writing a moment to
// finish.
func loadWithRetry(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	for i := range 3 {
		if i > 0 {
			time.Sleep(100 * time.Millisecond)
		}
		if cfg, err = Load(path); err == nil {
			return cfg, nil
		}
	}
	return nil, err
}
