// Package transport attaches the stored credential to outgoing API requests.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// SessionReader is the read side of a session store.
type SessionReader interface {
	Get(ctx context.Context) (*models.Session, error)
}

// AuthorizedTransport is an http.RoundTripper that reads the session before
// every request and, when one exists, sets "Authorization: Bearer <token>".
// Requests without a session pass through untouched. It never writes the
// session.
type AuthorizedTransport struct {
	base     http.RoundTripper
	sessions SessionReader
	metrics  *Metrics
	logger   *logrus.Logger
}

// New wraps base (http.DefaultTransport when nil). metrics may be nil.
func New(sessions SessionReader, base http.RoundTripper, metrics *Metrics, logger *logrus.Logger) *AuthorizedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthorizedTransport{
		base:     base,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *AuthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	session, err := t.sessions.Get(req.Context())
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	out := req
	if session.Valid() {
		// RoundTrippers must not modify the caller's request.
		out = req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+session.Token)
	}

	route := RouteLabel(req.URL.Path)
	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	elapsed := time.Since(start)

	fields := logrus.Fields{
		"method":        req.Method,
		"route":         route,
		"authenticated": session.Valid(),
		"duration":      elapsed,
	}
	if err != nil {
		t.metrics.observe(req.Method, route, OutcomeNetworkError, elapsed)
		t.logger.WithFields(fields).WithError(err).Warn("API request failed")
		return nil, err
	}

	t.metrics.observe(req.Method, route, Outcome(resp.StatusCode), elapsed)
	fields["status"] = resp.StatusCode
	t.logger.WithFields(fields).Debug("API request")
	return resp, nil
}
