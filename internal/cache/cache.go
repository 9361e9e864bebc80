package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists responses in a local SQLite file so a restarted
// reader can serve its last pages without a round trip.
type SQLiteStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &SQLiteStore{writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// opened after init so the read-only handle sees an existing file
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *SQLiteStore) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			key        TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			body       BLOB NOT NULL,
			fetched_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_responses_kind ON responses(kind);
		CREATE INDEX IF NOT EXISTS idx_responses_fetched ON responses(fetched_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *SQLiteStore) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

func (c *SQLiteStore) Get(ctx context.Context, key string) (Entry, error) {
	var e Entry
	err := c.readDB.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM responses WHERE key = ?", key,
	).Scan(&e.Body, &e.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", key, err)
	}
	return e, nil
}

func (c *SQLiteStore) Put(ctx context.Context, key string, e Entry) error {
	_, err := c.writeDB.ExecContext(ctx, `
		INSERT INTO responses (key, kind, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, key, KindOf(key), e.Body, e.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (c *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = "?"
		args[i] = k
	}
	query := "DELETE FROM responses WHERE key IN (" + strings.Join(placeholders, ",") + ")" //nolint:gosec
	if _, err := c.writeDB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

func (c *SQLiteStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	res, err := c.writeDB.ExecContext(ctx,
		"DELETE FROM responses WHERE substr(key, 1, ?) = ?", len(prefix), prefix)
	if err != nil {
		return 0, fmt.Errorf("deleting prefix %q: %w", prefix, err)
	}
	return res.RowsAffected()
}

func (c *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.writeDB.ExecContext(ctx,
		"DELETE FROM responses WHERE fetched_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := c.writeDB.ExecContext(ctx, "VACUUM"); err != nil {
			return n, fmt.Errorf("vacuum after pruning: %w", err)
		}
	}
	return n, nil
}

// KindCount is the number of cached responses of one kind.
type KindCount struct {
	Kind  string
	Count int
}

// Stats returns per-kind entry counts and the size of the database file.
func (c *SQLiteStore) Stats(ctx context.Context, dbPath string) ([]KindCount, int64, error) {
	rows, err := c.readDB.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM responses GROUP BY kind ORDER BY kind")
	if err != nil {
		return nil, 0, fmt.Errorf("counting responses: %w", err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, 0, fmt.Errorf("scanning count: %w", err)
		}
		counts = append(counts, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var size int64
	if fi, err := os.Stat(dbPath); err == nil {
		size = fi.Size()
	}
	return counts, size, nil
}
