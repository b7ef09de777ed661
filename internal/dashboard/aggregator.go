// Package dashboard loads the landing view: the independent resource
// collections of the logged-in representative, fetched concurrently.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/models"
)

// State of an aggregator run.
type State int

const (
	Loading State = iota
	Ready
	Redirecting
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Redirecting:
		return "redirecting"
	default:
		return "loading"
	}
}

var (
	// ErrRedirected is returned when there is no usable session. The session
	// has been cleared and the redirect callback invoked.
	ErrRedirected = errors.New("session invalid, login required")
	// ErrClosed is returned when the aggregator was closed while loading.
	ErrClosed = errors.New("dashboard closed")
	// ErrStale is returned when the session changed while loading.
	ErrStale = errors.New("session changed while loading")
)

// Section is one independently fetched collection. A failed section has
// no items and a non-nil Err.
type Section[T any] struct {
	Items []T
	Err   error
}

func (s Section[T]) Failed() bool {
	return s.Err != nil
}

// Dashboard is the result of a successful (Ready) load.
type Dashboard struct {
	UserID      int64
	Products    Section[models.Product]
	Invitations Section[models.Invitation]
	Children    Section[models.Child]
}

// Err joins the errors of all failed sections, or returns nil.
func (d *Dashboard) Err() error {
	var result *multierror.Error
	if d.Products.Err != nil {
		result = multierror.Append(result, fmt.Errorf("products: %w", d.Products.Err))
	}
	if d.Invitations.Err != nil {
		result = multierror.Append(result, fmt.Errorf("invitations: %w", d.Invitations.Err))
	}
	if d.Children.Err != nil {
		result = multierror.Append(result, fmt.Errorf("children: %w", d.Children.Err))
	}
	return result.ErrorOrNil()
}

type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

type InvitationLister interface {
	List(ctx context.Context) ([]models.Invitation, error)
}

type ChildLister interface {
	List(ctx context.Context) ([]models.Child, error)
}

// Sources are the resource clients the dashboard reads from.
type Sources struct {
	Products    ProductLister
	Invitations InvitationLister
	Children    ChildLister
}

// SessionGuard is the part of session.Store the aggregator needs.
type SessionGuard interface {
	Get(ctx context.Context) (*models.Session, error)
	Generation() uint64
	ClearIfGeneration(ctx context.Context, gen uint64) (bool, error)
}

// RedirectFunc is told to send the user to the login surface.
type RedirectFunc func()

// Aggregator runs dashboard loads for one view. After Close, in-flight
// results are discarded and an uncommitted session clear is abandoned.
type Aggregator struct {
	sources  Sources
	sessions SessionGuard
	redirect RedirectFunc
	metrics  *Metrics
	logger   *logrus.Logger

	// view is cancelled by Close. Session clears run under it, so a clear
	// that has not committed when the view closes is abandoned.
	view   context.Context
	detach context.CancelFunc

	mu     sync.Mutex
	state  State
	closed bool
}

// New creates an aggregator. redirect and metrics may be nil.
func New(sources Sources, sessions SessionGuard, redirect RedirectFunc, metrics *Metrics, logger *logrus.Logger) *Aggregator {
	view, detach := context.WithCancel(context.Background())
	return &Aggregator{
		sources:  sources,
		sessions: sessions,
		redirect: redirect,
		metrics:  metrics,
		logger:   logger,
		view:     view,
		detach:   detach,
	}
}

// State returns the state of the latest load.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Close detaches the aggregator from its view. It does not wait for a
// running load.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.detach()
}

func (a *Aggregator) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Load fetches all sections and waits for every fetch to settle. A failed
// section does not cancel the others. If any fetch was rejected as
// unauthorized the session is cleared, the user redirected and no data is
// returned.
func (a *Aggregator) Load(ctx context.Context) (*Dashboard, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	a.state = Loading
	a.mu.Unlock()

	gen := a.sessions.Generation()
	session, err := a.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil {
		return nil, a.finishRedirect(gen, "no session")
	}

	d := &Dashboard{UserID: session.UserID}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		d.Products = fetch(ctx, a.sources.Products.List)
	}()
	go func() {
		defer wg.Done()
		d.Invitations = fetch(ctx, a.sources.Invitations.List)
	}()
	go func() {
		defer wg.Done()
		d.Children = fetch(ctx, a.sources.Children.List)
	}()
	wg.Wait()

	if a.isClosed() {
		a.metrics.observe("closed")
		return nil, ErrClosed
	}

	if unauthorized(d) {
		return nil, a.finishRedirect(gen, "unauthorized")
	}

	if a.sessions.Generation() != gen {
		a.metrics.observe("stale")
		return nil, ErrStale
	}

	a.mu.Lock()
	a.state = Ready
	a.mu.Unlock()
	a.metrics.observe(Ready.String())

	if err := d.Err(); err != nil {
		a.logger.WithFields(logrus.Fields{
			"user_id": d.UserID,
			"error":   err,
		}).Warn("Dashboard loaded with failed sections")
	}
	return d, nil
}

// finishRedirect clears the session it was started under and redirects. If
// a newer session was established meanwhile nothing is cleared. If the view
// closes before the clear commits, nothing is cleared either. The redirect
// callback runs without holding the aggregator lock.
func (a *Aggregator) finishRedirect(gen uint64, reason string) error {
	cleared, err := a.sessions.ClearIfGeneration(a.view, gen)
	if err != nil {
		if a.view.Err() != nil {
			a.metrics.observe("closed")
			return ErrClosed
		}
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if !cleared {
		a.metrics.observe("stale")
		return ErrStale
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.metrics.observe("closed")
		return ErrClosed
	}
	a.state = Redirecting
	a.mu.Unlock()

	a.metrics.observe(Redirecting.String())
	a.logger.WithField("reason", reason).Info("Dashboard redirecting to login")
	if a.redirect != nil {
		a.redirect()
	}
	return ErrRedirected
}

func fetch[T any](ctx context.Context, list func(context.Context) ([]T, error)) Section[T] {
	items, err := list(ctx)
	if err != nil {
		return Section[T]{Items: []T{}, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return Section[T]{Items: items}
}

func unauthorized(d *Dashboard) bool {
	return client.IsUnauthorized(d.Products.Err) ||
		client.IsUnauthorized(d.Invitations.Err) ||
		client.IsUnauthorized(d.Children.Err)
}
