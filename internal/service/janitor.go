package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// StartWorkspaceJanitor evicts idle workspaces every interval until ctx is
// cancelled. It blocks, so launch it in its own goroutine.
func (s *Service) StartWorkspaceJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.WithField("idle", idle).Info("Workspace janitor started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Workspace janitor stopped")
			return
		case <-ticker.C:
			if n := s.EvictIdle(ctx, idle); n > 0 {
				s.logger.WithField("evicted", n).Debug("Evicted idle workspaces")
			}
		}
	}
}

// EvictIdle drops the workspaces of logged-out chats that have not been used
// for at least idle and returns how many were dropped. idle must exceed the
// API timeout: an evicted workspace's in-flight calls still hold its store.
func (s *Service) EvictIdle(ctx context.Context, idle time.Duration) int {
	cutoff := s.now().Add(-idle).UnixNano()

	s.mu.Lock()
	candidates := make(map[int64]*Workspace)
	for id, w := range s.workspaces {
		if w.lastUsed.Load() <= cutoff {
			candidates[id] = w
		}
	}
	s.mu.Unlock()

	// Session reads may hit the network, so they run outside the lock.
	for id, w := range candidates {
		sess, err := w.Sessions.Get(ctx)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"chat_id": id,
				"error":   err,
			}).Warn("Failed to read session, keeping workspace")
			delete(candidates, id)
			continue
		}
		if sess != nil {
			delete(candidates, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, w := range candidates {
		// Skip chats that came back while their session was being read.
		if s.workspaces[id] != w || w.lastUsed.Load() > cutoff {
			continue
		}
		w.closeView()
		delete(s.workspaces, id)
		evicted++
	}
	return evicted
}
