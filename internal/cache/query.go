package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Policy is a stale-while-revalidate window. Entries younger than Fresh are
// served as is. Entries younger than MaxStale are served immediately while a
// background refresh runs. Older entries are refetched before returning.
type Policy struct {
	Fresh    time.Duration
	MaxStale time.Duration
}

var DefaultPolicy = Policy{Fresh: 5 * time.Minute, MaxStale: 10 * time.Minute}

// Status describes where a Fetch result came from.
type Status int

const (
	Miss Status = iota
	Fresh
	Stale
)

func (s Status) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	}
	return "miss"
}

// FetchFunc loads the value for a key from the network.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Query fronts a Store with the stale-while-revalidate discipline and
// collapses concurrent loads of the same key into one request.
type Query struct {
	store   Store
	group   singleflight.Group
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration

	wg sync.WaitGroup
}

type QueryOption func(*Query)

func WithLogger(l *slog.Logger) QueryOption {
	return func(q *Query) { q.logger = l }
}

func WithClock(now func() time.Time) QueryOption {
	return func(q *Query) { q.now = now }
}

// WithRevalidateTimeout bounds background refreshes, which outlive the
// caller's context.
func WithRevalidateTimeout(d time.Duration) QueryOption {
	return func(q *Query) { q.timeout = d }
}

func NewQuery(store Store, opts ...QueryOption) *Query {
	q := &Query{
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Query) Store() Store { return q.store }

// Fetch returns the body for key according to p.
func (q *Query) Fetch(ctx context.Context, key string, p Policy, fn FetchFunc) ([]byte, Status, error) {
	e, err := q.store.Get(ctx, key)
	switch {
	case err == nil:
		age := q.now().Sub(e.FetchedAt)
		if age < p.Fresh {
			return e.Body, Fresh, nil
		}
		if age < p.MaxStale {
			q.revalidate(key, fn)
			return e.Body, Stale, nil
		}
	case !errors.Is(err, ErrNotFound):
		q.logger.Warn("cache read failed", "key", key, "error", err)
	}

	body, err := q.load(ctx, key, fn)
	if err != nil {
		return nil, Miss, err
	}
	return body, Miss, nil
}

func (q *Query) load(ctx context.Context, key string, fn FetchFunc) ([]byte, error) {
	v, err, _ := q.group.Do(key, func() (any, error) {
		body, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if err := q.store.Put(ctx, key, Entry{Body: body, FetchedAt: q.now()}); err != nil {
			q.logger.Warn("cache write failed", "key", key, "error", err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (q *Query) revalidate(key string, fn FetchFunc) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()
		if _, err := q.load(ctx, key, fn); err != nil {
			q.logger.Debug("background revalidation failed", "key", key, "error", err)
			return
		}
		q.logger.Debug("revalidated", "key", key)
	}()
}

// Wait blocks until all background revalidations have finished.
func (q *Query) Wait() { q.wg.Wait() }

// Invalidate drops keys so the next Fetch goes to the network.
func (q *Query) Invalidate(ctx context.Context, keys ...string) error {
	return q.store.Delete(ctx, keys...)
}

// InvalidateKind drops every key created with Key(kind, ...).
func (q *Query) InvalidateKind(ctx context.Context, kind string) (int64, error) {
	return q.store.DeletePrefix(ctx, kind+":")
}

// Get is the typed form of Fetch: fn's result is cached as JSON.
func Get[T any](ctx context.Context, q *Query, key string, p Policy, fn func(ctx context.Context) (T, error)) (T, Status, error) {
	var zero T
	body, status, err := q.Fetch(ctx, key, p, func(ctx context.Context) ([]byte, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, status, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		// a corrupt entry must not wedge the key; drop it and refetch
		q.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		if err := q.store.Delete(ctx, key); err != nil {
			q.logger.Warn("cache delete failed", "key", key, "error", err)
		}
		body, err = q.load(ctx, key, func(ctx context.Context) ([]byte, error) {
			v, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(v)
		})
		if err != nil {
			return zero, Miss, err
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return zero, Miss, fmt.Errorf("decoding %s: %w", key, err)
		}
		return out, Miss, nil
	}
	return out, status, nil
}
