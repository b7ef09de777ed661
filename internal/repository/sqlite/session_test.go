package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func TestSessionRepositorySurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	repo := NewSessionRepository(db)
	if err := repo.Save(ctx, "chat:9", models.Session{Token: "tok", UserID: 9}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, "chat:9", models.Session{Token: "tok2", UserID: 9}); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	repo = NewSessionRepository(db)

	got, err := repo.Get(ctx, "chat:9")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Token != "tok2" || got.UserID != 9 {
		t.Fatalf("Get = %+v, want tok2/9", got)
	}

	if err := repo.Delete(ctx, "chat:9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.Get(ctx, "chat:9"); got != nil {
		t.Errorf("Get after Delete = %+v, want nil", got)
	}
}

func TestOpenEnablesWAL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	var mode string
	if err := db.Raw("PRAGMA journal_mode").Scan(&mode).Error; err != nil {
		t.Fatalf("read journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}
