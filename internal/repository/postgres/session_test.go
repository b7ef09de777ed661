package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS client_sessions (
		scope TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (scope, key))`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestSessionRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	scope := "test:" + t.Name()
	t.Cleanup(func() { repo.Delete(ctx, scope) })

	if err := repo.Save(ctx, scope, models.Session{Token: "first", UserID: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, scope, models.Session{Token: "second", UserID: 2}); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	got, err := repo.Get(ctx, scope)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Token != "second" || got.UserID != 2 {
		t.Fatalf("Get = %+v, want second/2", got)
	}

	if err := repo.Delete(ctx, scope); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.Get(ctx, scope); got != nil {
		t.Errorf("Get after Delete = %+v, want nil", got)
	}
}
