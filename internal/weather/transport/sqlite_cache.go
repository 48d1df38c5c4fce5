package transport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS responses (
    key        TEXT PRIMARY KEY,
    body       BLOB    NOT NULL,
    created_at INTEGER NOT NULL
);`

// SQLiteCache keeps responses in a local SQLite file, so they survive across runs.
type SQLiteCache struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteCache opens (creating if needed) the cache database at path.
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", path, err)
	}
	// a single writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite cache schema: %w", err)
	}
	return NewSQLiteCacheFromDB(db), nil
}

// NewSQLiteCacheFromDB wraps an already-initialized database handle.
func NewSQLiteCacheFromDB(db *sqlx.DB) *SQLiteCache {
	return &SQLiteCache{db: db, now: time.Now}
}

func (s *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT body FROM responses WHERE key = ?;`
	var body []byte
	if err := s.db.GetContext(ctx, &body, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return body, true, nil
}

func (s *SQLiteCache) Set(ctx context.Context, key string, body []byte) error {
	const q = `
        INSERT INTO responses (key, body, created_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET body = excluded.body, created_at = excluded.created_at;
    `
	_, err := s.db.ExecContext(ctx, q, key, body, s.now().Unix())
	return err
}

func (s *SQLiteCache) Close() error {
	return s.db.Close()
}
