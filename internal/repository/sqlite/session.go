package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository"
)

// SessionEntry is one persisted key-value pair of a session.
type SessionEntry struct {
	Scope     string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:16"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

type sessionRepository struct {
	db *gorm.DB
}

// Open opens (creating if needed) a SQLite database at path and migrates the
// session table. Use ":memory:" for a throwaway database.
func Open(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY between concurrent chats.
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := db.AutoMigrate(&SessionEntry{}); err != nil {
		return nil, fmt.Errorf("migrate session table: %w", err)
	}
	return db, nil
}

// NewSessionRepository creates a session repository on an opened database.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, scope string) (*models.Session, error) {
	var rows []SessionEntry
	if err := r.db.WithContext(ctx).Where("scope = ?", scope).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query session entries: %w", err)
	}

	entries := make(map[string]string, len(rows))
	for _, row := range rows {
		entries[row.Key] = row.Value
	}
	return repository.SessionFromEntries(entries)
}

func (r *sessionRepository) Save(ctx context.Context, scope string, session models.Session) error {
	now := time.Now()
	var rows []SessionEntry
	for key, value := range repository.Entries(session) {
		rows = append(rows, SessionEntry{Scope: scope, Key: key, Value: value, UpdatedAt: now})
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, scope string) error {
	if err := r.db.WithContext(ctx).Where("scope = ?", scope).Delete(&SessionEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
