package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a session repository backed by the
// client_sessions table (see migrations/).
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, scope string) (*models.Session, error) {
	query := `
		SELECT key, value
		FROM client_sessions
		WHERE scope = $1`

	rows, err := r.db.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query session entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session entry: %w", err)
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session entries: %w", err)
	}

	return repository.SessionFromEntries(entries)
}

func (r *sessionRepository) Save(ctx context.Context, scope string, session models.Session) error {
	query := `
		INSERT INTO client_sessions (scope, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for key, value := range repository.Entries(session) {
		if _, err := tx.ExecContext(ctx, query, scope, key, value, now); err != nil {
			return fmt.Errorf("failed to save session entry %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, scope string) error {
	query := `DELETE FROM client_sessions WHERE scope = $1`

	if _, err := r.db.ExecContext(ctx, query, scope); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
