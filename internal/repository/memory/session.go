package memory

import (
	"context"
	"sync"

	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewSessionRepository creates a process-local session repository. Sessions
// do not survive a restart.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{sessions: make(map[string]models.Session)}
}

func (r *sessionRepository) Get(ctx context.Context, scope string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[scope]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, scope string, session models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[scope] = session
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, scope)
	return nil
}
