// Package sqlitestore provides a SQLite-backed prefs.Store. Values are kept
// as JSON text, one row per key.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/delaneyj/servable/prefs"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists preferences in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Entry is one stored preference.
type Entry struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path, creating the prefs table if needed.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// an in-memory database lives only as long as its connection
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create prefs table: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Get(key string, dst any) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("%w: storage is not configured", prefs.ErrLoadFailed)
	}
	var value string
	err := s.sqlDB.QueryRowContext(context.Background(),
		`SELECT value FROM prefs WHERE key = ?`, key,
	).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %s: %v", prefs.ErrLoadFailed, key, err)
	}
	if err := json.Unmarshal([]byte(value), dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", prefs.ErrLoadFailed, key, err)
	}
	return true, nil
}

func (s *Store) Set(key string, value any) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("%w: storage is not configured", prefs.ErrSaveFailed)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", prefs.ErrSaveFailed, key, err)
	}
	_, err = s.sqlDB.ExecContext(context.Background(),
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", prefs.ErrSaveFailed, key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("%w: storage is not configured", prefs.ErrSaveFailed)
	}
	if _, err := s.sqlDB.ExecContext(context.Background(), `DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %s: %v", prefs.ErrSaveFailed, key, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	entries, err := s.Entries(context.Background())
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return keys, nil
}

// Entries returns every stored preference ordered by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("%w: storage is not configured", prefs.ErrLoadFailed)
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT key, value, updated_at FROM prefs ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", prefs.ErrLoadFailed, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			value   string
			updated int64
		)
		if err := rows.Scan(&e.Key, &value, &updated); err != nil {
			return nil, fmt.Errorf("%w: list: %v", prefs.ErrLoadFailed, err)
		}
		e.Value = json.RawMessage(value)
		e.UpdatedAt = fromMillis(updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", prefs.ErrLoadFailed, err)
	}
	return entries, nil
}

var (
	_ prefs.Store   = (*Store)(nil)
	_ prefs.Lister  = (*Store)(nil)
	_ prefs.Deleter = (*Store)(nil)
)
