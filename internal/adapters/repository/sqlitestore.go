package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/pokelookup/pkg/logger"
	"github.com/okian/pokelookup/pkg/metrics"
)

// MemoryPath opens a private in-memory cache.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS pokemon (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	document   BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// SQLiteStore is a Store backed by a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	now    func() time.Time
	logger logger.Logger
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the cache at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create cache directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// One connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now, logger: logger.Get().Named("cache")}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s.updateMetrics(ctx)
	return s, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, id int, doc []byte) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	if len(doc) == 0 {
		return fmt.Errorf("%w: #%d", ErrEmptyDoc, id)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pokemon (id, name, document, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			fetched_at = excluded.fetched_at`,
		id, documentName(doc), doc, s.now().Unix())
	if err != nil {
		return fmt.Errorf("store #%d: %w", id, err)
	}
	s.updateMetrics(ctx)
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id int) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM pokemon WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load #%d: %w", id, err)
	}
	return doc, nil
}

// All implements Store.
func (s *SQLiteStore) All(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, document, fetched_at FROM pokemon ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			d  Document
			ts int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Body, &ts); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		d.FetchedAt = time.Unix(ts, 0).UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}
	return out, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pokemon`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) updateMetrics(ctx context.Context) {
	n, err := s.Count(ctx)
	if err != nil {
		s.logger.Warn(ctx, "cache count failed", logger.Error(err))
		return
	}
	metrics.UpdateCacheSize(n)
}

// documentName extracts the top-level name for the indexed column. Invalid
// documents are still cached; decoding errors surface at roster load.
func documentName(doc []byte) string {
	var head struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return ""
	}
	return head.Name
}
