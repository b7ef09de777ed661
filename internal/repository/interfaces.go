package repository

import (
	"context"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// SessionRepository persists the credential of one client profile (scope).
// Implementations store it as two key-value entries, KeyToken and KeyUserID,
// which are always written and removed together.
type SessionRepository interface {
	// Get returns the stored session, or nil when the scope has none.
	Get(ctx context.Context, scope string) (*models.Session, error)
	Save(ctx context.Context, scope string, session models.Session) error
	Delete(ctx context.Context, scope string) error
}
