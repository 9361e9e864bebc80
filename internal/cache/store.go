package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned by Store.Get for unknown keys.
var ErrNotFound = errors.New("cache: not found")

// Entry is one cached response body.
type Entry struct {
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store persists entries. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	// Prune removes entries fetched before cutoff.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// Key builds a deterministic cache key: kind followed by a digest of the
// JSON encoding of parts. Keys of one kind share the "kind:" prefix so they
// can be dropped together.
func Key(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = []byte(fmt.Sprint(parts...))
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", kind, h[:16])
}

// KindOf returns the prefix Key was called with.
func KindOf(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.entries {
		if e.FetchedAt.Before(cutoff) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) Close() error { return nil }
