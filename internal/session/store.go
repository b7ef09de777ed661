// Package session owns the persisted credential of one client profile.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository"
)

// Store is the only writer of a scope's session. Every Set or Clear advances
// a monotonic generation; ClearIfGeneration lets a caller that started work
// under an older session avoid clearing one established after it.
type Store struct {
	repo   repository.SessionRepository
	scope  string
	logger *logrus.Logger

	mu         sync.Mutex
	generation *atomic.Uint64
}

// NewStore creates a store for the given scope.
func NewStore(repo repository.SessionRepository, scope string, logger *logrus.Logger) *Store {
	return &Store{
		repo:       repo,
		scope:      scope,
		logger:     logger,
		generation: atomic.NewUint64(0),
	}
}

// Scope returns the storage scope of this store.
func (s *Store) Scope() string {
	return s.scope
}

// Get returns the current session, or nil when logged out.
func (s *Store) Get(ctx context.Context) (*models.Session, error) {
	session, err := s.repo.Get(ctx, s.scope)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", s.scope, err)
	}
	if !session.Valid() {
		return nil, nil
	}
	return session, nil
}

// Set replaces the stored session.
func (s *Store) Set(ctx context.Context, session models.Session) error {
	if session.Token == "" {
		return fmt.Errorf("refusing to store a session without token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, s.scope, session); err != nil {
		return fmt.Errorf("save session %s: %w", s.scope, err)
	}
	gen := s.generation.Inc()

	s.logger.WithFields(logrus.Fields{
		"scope":      s.scope,
		"user_id":    session.UserID,
		"generation": gen,
	}).Info("Session stored")
	return nil
}

// Clear removes both session entries.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearLocked(ctx)
}

// Generation returns the current session generation.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// ClearIfGeneration clears the session only if no Set or Clear happened since
// gen was observed. It reports whether the session was cleared. A ctx that is
// already done when the store lock is taken clears nothing; once the clear has
// started it runs to completion.
func (s *Store) ClearIfGeneration(ctx context.Context, gen uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if current := s.generation.Load(); current != gen {
		s.logger.WithFields(logrus.Fields{
			"scope":      s.scope,
			"generation": gen,
			"current":    current,
		}).Debug("Session superseded, not clearing")
		return false, nil
	}
	if err := s.clearLocked(context.WithoutCancel(ctx)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) clearLocked(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.scope); err != nil {
		return fmt.Errorf("clear session %s: %w", s.scope, err)
	}
	gen := s.generation.Inc()

	s.logger.WithFields(logrus.Fields{
		"scope":      s.scope,
		"generation": gen,
	}).Info("Session cleared")
	return nil
}
