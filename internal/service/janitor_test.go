package service

import (
	"context"
	"testing"
	"time"
)

func TestEvictIdle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	loggedOut := svc.Workspace(1)
	loggedIn := svc.Workspace(2)
	if _, err := loggedIn.Login(ctx, register(t, loggedIn, "maria@example.com")); err != nil {
		t.Fatalf("login: %v", err)
	}

	now = now.Add(2 * time.Hour)
	recent := svc.Workspace(3)

	if n := svc.EvictIdle(ctx, time.Hour); n != 1 {
		t.Fatalf("evicted %d workspaces, want 1", n)
	}
	if svc.Workspace(1) == loggedOut {
		t.Error("idle logged-out workspace was kept")
	}
	if svc.Workspace(2) != loggedIn {
		t.Error("idle workspace with a session was evicted")
	}
	if svc.Workspace(3) != recent {
		t.Error("recently used workspace was evicted")
	}
}

func TestWorkspaceJanitorStopsWithContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartWorkspaceJanitor(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
