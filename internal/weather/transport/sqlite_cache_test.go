package transport

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.sqlite")

	c, err := NewSQLiteCache(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteCache failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get() on empty cache = ok %v, err %v; want miss", ok, err)
	}
	if err := c.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwriting Set failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	c, err = NewSQLiteCache(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c.Close()

	body, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = ok %v, err %v; want hit", ok, err)
	}
	if string(body) != "v2" {
		t.Errorf("Get() = %q, want %q", body, "v2")
	}
}

func TestSQLiteCache_GetDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	c := NewSQLiteCacheFromDB(sqlx.NewDb(db, "sqlite"))
	defer c.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM responses WHERE key = ?")).
		WithArgs("k").
		WillReturnError(sql.ErrConnDone)

	if _, ok, err := c.Get(context.Background(), "k"); err == nil || ok {
		t.Fatalf("Get() = ok %v, err %v; want error", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
