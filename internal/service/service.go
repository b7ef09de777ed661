package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/dashboard"
	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository"
	"github.com/Kerhoff/RepBoT/internal/session"
	"github.com/Kerhoff/RepBoT/internal/transport"
)

// ErrSessionExpired wraps an unauthorized API error after the session it was
// issued under has been cleared.
var ErrSessionExpired = errors.New("session expired")

// Config holds the API connection settings shared by all workspaces.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper // base transport, http.DefaultTransport when nil
}

// Service is the central layer between the chat handlers and the API. It
// keeps one Workspace per chat so a chat's session generation survives
// across commands.
type Service struct {
	sessions         repository.SessionRepository
	cfg              Config
	apiMetrics       *transport.Metrics
	dashboardMetrics *dashboard.Metrics
	logger           *logrus.Logger

	now func() time.Time

	mu         sync.Mutex
	workspaces map[int64]*Workspace
}

// New creates a new Service. Metrics may be nil.
func New(sessions repository.SessionRepository, cfg Config,
	apiMetrics *transport.Metrics,
	dashboardMetrics *dashboard.Metrics,
	logger *logrus.Logger,
) *Service {
	return &Service{
		sessions:         sessions,
		cfg:              cfg,
		apiMetrics:       apiMetrics,
		dashboardMetrics: dashboardMetrics,
		logger:           logger,
		now:              time.Now,
		workspaces:       make(map[int64]*Workspace),
	}
}

// Scope returns the session storage scope of a chat.
func Scope(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}

// Workspace returns the workspace of a chat, creating it on first use.
func (s *Service) Workspace(chatID int64) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.workspaces[chatID]; ok {
		w.lastUsed.Store(s.now().UnixNano())
		return w
	}

	store := session.NewStore(s.sessions, Scope(chatID), s.logger)
	httpClient := &http.Client{
		Timeout:   s.cfg.Timeout,
		Transport: transport.New(store, s.cfg.Transport, s.apiMetrics, s.logger),
	}
	w := &Workspace{
		ChatID:   chatID,
		Sessions: store,
		API:      client.New(s.cfg.BaseURL, httpClient, s.logger),
		metrics:  s.dashboardMetrics,
		logger:   s.logger,
		lastUsed: atomic.NewInt64(s.now().UnixNano()),
	}
	s.workspaces[chatID] = w
	return w
}

// Workspace binds one chat to its session store and API client.
type Workspace struct {
	ChatID   int64
	Sessions *session.Store
	API      *client.Client

	metrics  *dashboard.Metrics
	logger   *logrus.Logger
	lastUsed *atomic.Int64

	mu   sync.Mutex
	view *dashboard.Aggregator
}

// Session returns the chat's current session, or nil when logged out.
func (w *Workspace) Session(ctx context.Context) (*models.Session, error) {
	return w.Sessions.Get(ctx)
}

// Login authenticates and stores the resulting session. A dashboard still
// loading under the previous session is detached.
func (w *Workspace) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	res, err := w.API.Auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	w.closeView()
	if err := w.Sessions.Set(ctx, res.Session()); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"chat_id": w.ChatID,
		"user_id": res.User.ID,
	}).Info("Logged in")
	return res, nil
}

// Logout clears the chat's session.
func (w *Workspace) Logout(ctx context.Context) error {
	w.closeView()
	if err := w.Sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Call runs an API operation. If the server rejects the credential, the
// session the call started under is cleared (unless a newer login replaced
// it meanwhile) and the error is wrapped in ErrSessionExpired.
func (w *Workspace) Call(ctx context.Context, op func(ctx context.Context) error) error {
	gen := w.Sessions.Generation()
	err := op(ctx)
	if !client.IsUnauthorized(err) {
		return err
	}
	cleared, cerr := w.Sessions.ClearIfGeneration(context.WithoutCancel(ctx), gen)
	if cerr != nil {
		w.logger.WithFields(logrus.Fields{
			"chat_id": w.ChatID,
			"error":   cerr,
		}).Error("Failed to clear expired session")
	}
	w.logger.WithFields(logrus.Fields{
		"chat_id": w.ChatID,
		"cleared": cleared,
	}).Info("Session rejected by API")
	return fmt.Errorf("%w: %w", ErrSessionExpired, err)
}

// Dashboard loads the landing view. Starting a new load detaches the
// previous one, whose results are then discarded.
func (w *Workspace) Dashboard(ctx context.Context, redirect dashboard.RedirectFunc) (*dashboard.Dashboard, error) {
	view := dashboard.New(dashboard.Sources{
		Products:    w.API.Products,
		Invitations: w.API.Invitations,
		Children:    w.API.Children,
	}, w.Sessions, redirect, w.metrics, w.logger)

	w.mu.Lock()
	if w.view != nil {
		w.view.Close()
	}
	w.view = view
	w.mu.Unlock()

	return view.Load(ctx)
}

func (w *Workspace) closeView() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != nil {
		w.view.Close()
		w.view = nil
	}
}
