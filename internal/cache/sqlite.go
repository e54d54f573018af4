package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var openDB = sql.Open

const schema = `CREATE TABLE IF NOT EXISTS llm_cache (
	request_key TEXT PRIMARY KEY,
	payload     BLOB NOT NULL,
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL DEFAULT 0
)`

// SQLiteStore is a persistent Cache backed by a single SQLite file
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSQLiteStore opens (or creates) the database at path and migrates it.
// A zero ttl keeps entries forever.
func OpenSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY under concurrent batches
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate cache database: %w", err)
		}
	}

	return &SQLiteStore{db: db, ttl: ttl}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	var (
		payload   []byte
		expiresAt int64
	)
	err := s.db.QueryRow(
		`SELECT payload, expires_at FROM llm_cache WHERE request_key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return nil, false
	}
	if expiresAt > 0 && time.Now().UnixNano() > expiresAt {
		_ = s.Delete(key)
		return nil, false
	}
	return payload, true
}

// Set replaces any existing row for key
func (s *SQLiteStore) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.ttl
	}
	now := time.Now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixNano()
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO llm_cache (request_key, payload, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		key, value, now.UnixNano(), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("save cache row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM llm_cache WHERE request_key = ?`, key)
	return err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM llm_cache`)
	return err
}

// Count returns the number of stored rows, expired ones included
func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM llm_cache`).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
