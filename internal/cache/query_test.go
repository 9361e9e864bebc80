package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestQuery() (*Query, *clock) {
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewQuery(NewMemoryStore(), WithClock(clk.Now)), clk
}

func counter(vals ...string) (FetchFunc, *atomic.Int32) {
	var n atomic.Int32
	return func(context.Context) ([]byte, error) {
		i := int(n.Add(1)) - 1
		if i >= len(vals) {
			i = len(vals) - 1
		}
		return []byte(vals[i]), nil
	}, &n
}

func TestQueryFreshHit(t *testing.T) {
	q, clk := newTestQuery()
	ctx := context.Background()
	fn, calls := counter("v1", "v2")

	body, st, err := q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	if err != nil || string(body) != "v1" || st != Miss {
		t.Fatalf("first fetch = %s %v %v", body, st, err)
	}
	clk.Advance(4 * time.Minute)
	body, st, _ = q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	if string(body) != "v1" || st != Fresh {
		t.Errorf("second fetch = %s %v, want cached fresh", body, st)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 network call, got %d", calls.Load())
	}
}

func TestQueryStaleWhileRevalidate(t *testing.T) {
	q, clk := newTestQuery()
	ctx := context.Background()
	fn, calls := counter("v1", "v2")

	q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	clk.Advance(7 * time.Minute)

	body, st, err := q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "v1" || st != Stale {
		t.Errorf("stale fetch = %s %v, want v1 stale", body, st)
	}
	q.Wait()
	if calls.Load() != 2 {
		t.Fatalf("expected background refresh, got %d calls", calls.Load())
	}

	body, st, _ = q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	if string(body) != "v2" || st != Fresh {
		t.Errorf("after refresh = %s %v, want v2 fresh", body, st)
	}
}

func TestQueryExpired(t *testing.T) {
	q, clk := newTestQuery()
	ctx := context.Background()
	fn, calls := counter("v1", "v2")

	q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	clk.Advance(11 * time.Minute)

	body, st, _ := q.Fetch(ctx, "k:1", DefaultPolicy, fn)
	if string(body) != "v2" || st != Miss {
		t.Errorf("expired fetch = %s %v, want v2 miss", body, st)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestQueryErrorNotCached(t *testing.T) {
	q, _ := newTestQuery()
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := q.Fetch(ctx, "k:1", DefaultPolicy, func(context.Context) ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := q.Store().Get(ctx, "k:1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("failed fetch must not be cached, got %v", err)
	}
}

func TestQueryInvalidate(t *testing.T) {
	q, _ := newTestQuery()
	ctx := context.Background()
	fn, calls := counter("v1", "v2", "v3")

	q.Fetch(ctx, Key("articles", 1), DefaultPolicy, fn)
	q.Fetch(ctx, Key("articles", 2), DefaultPolicy, fn)
	if err := q.Invalidate(ctx, Key("articles", 1)); err != nil {
		t.Fatal(err)
	}
	body, _, _ := q.Fetch(ctx, Key("articles", 1), DefaultPolicy, fn)
	if string(body) != "v3" {
		t.Errorf("invalidated key served %s", body)
	}

	n, err := q.InvalidateKind(ctx, "articles")
	if err != nil || n != 2 {
		t.Errorf("InvalidateKind = %d, %v", n, err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestQueryCollapsesConcurrentLoads(t *testing.T) {
	q, _ := newTestQuery()
	ctx := context.Background()
	release := make(chan struct{})
	var calls atomic.Int32
	fn := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Fetch(ctx, "k:1", DefaultPolicy, fn)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected 1 collapsed call, got %d", calls.Load())
	}
}

func TestGetTyped(t *testing.T) {
	q, _ := newTestQuery()
	ctx := context.Background()
	type payload struct {
		Total int `json:"total"`
	}
	var calls int
	fn := func(context.Context) (payload, error) {
		calls++
		return payload{Total: 42}, nil
	}

	got, st, err := Get(ctx, q, "stats:1", DefaultPolicy, fn)
	if err != nil || got.Total != 42 || st != Miss {
		t.Fatalf("Get = %+v %v %v", got, st, err)
	}
	got, st, _ = Get(ctx, q, "stats:1", DefaultPolicy, fn)
	if got.Total != 42 || st != Fresh || calls != 1 {
		t.Errorf("cached Get = %+v %v calls=%d", got, st, calls)
	}

	// corrupt entries are dropped and refetched
	q.Store().Put(ctx, "stats:1", Entry{Body: []byte("{"), FetchedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)})
	got, _, err = Get(ctx, q, "stats:1", DefaultPolicy, fn)
	if err != nil || got.Total != 42 || calls != 2 {
		t.Errorf("corrupt entry: %+v %v calls=%d", got, err, calls)
	}
}

// lockedStore refuses deletes, like a sqlite file held by another writer.
type lockedStore struct {
	*MemoryStore
}

func (lockedStore) Delete(context.Context, ...string) error {
	return errors.New("database is locked")
}

func TestGetLogsFailedDelete(t *testing.T) {
	var logs bytes.Buffer
	store := lockedStore{NewMemoryStore()}
	q := NewQuery(store, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	ctx := context.Background()

	store.Put(ctx, "stats:1", Entry{Body: []byte("{"), FetchedAt: time.Now()})
	got, _, err := Get(ctx, q, "stats:1", DefaultPolicy, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("Get = %v %v", got, err)
	}
	if !strings.Contains(logs.String(), "cache delete failed") {
		t.Errorf("delete failure not logged:\n%s", logs.String())
	}
}
