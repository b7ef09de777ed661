// Package devserver is an in-memory implementation of the representatives
// API. It backs local development and the integration tests of the client.
package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/forms"
	"github.com/Kerhoff/RepBoT/internal/models"
)

// Options configure a Server.
type Options struct {
	Secret   string        // HMAC key for access tokens
	TokenTTL time.Duration // defaults to 30 minutes
	Now      func() time.Time
}

type account struct {
	rep          models.Representative
	passwordHash []byte
	tokenVersion int
}

// Server provides the HTTP API.
type Server struct {
	opts   Options
	logger *logrus.Logger
	mux    *http.ServeMux

	mu          sync.RWMutex
	nextID      int64
	accounts    map[int64]*account
	byEmail     map[string]int64
	children    map[int64]models.Child
	products    map[int64]models.Product
	invitations map[int64]models.Invitation
}

// NewServer creates a Server and registers all routes.
func NewServer(opts Options, logger *logrus.Logger) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		opts:        opts,
		logger:      logger,
		mux:         http.NewServeMux(),
		accounts:    make(map[int64]*account),
		byEmail:     make(map[string]int64),
		children:    make(map[int64]models.Child),
		products:    make(map[int64]models.Product),
		invitations: make(map[int64]models.Invitation),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Representatives
	s.mux.HandleFunc("POST /api/representatives/token", s.handleLogin)
	s.mux.HandleFunc("POST /api/representatives/{$}", s.handleRegister)
	s.mux.HandleFunc("GET /api/representatives/me", s.authenticated(s.handleGetMe))
	s.mux.HandleFunc("PUT /api/representatives/me", s.authenticated(s.handleUpdateMe))

	// Children
	s.mux.HandleFunc("GET /api/children/{$}", s.authenticated(s.handleListChildren))
	s.mux.HandleFunc("POST /api/children/{$}", s.authenticated(s.handleCreateChild))
	s.mux.HandleFunc("PUT /api/children/{id}", s.authenticated(s.handleUpdateChild))
	s.mux.HandleFunc("DELETE /api/children/{id}", s.authenticated(s.handleDeleteChild))

	// Products
	s.mux.HandleFunc("GET /api/products/{$}", s.authenticated(s.handleListProducts))
	s.mux.HandleFunc("POST /api/products/{$}", s.authenticated(s.handleCreateProduct))
	s.mux.HandleFunc("GET /api/products/{id}", s.authenticated(s.handleGetProduct))
	s.mux.HandleFunc("PUT /api/products/{id}", s.authenticated(s.handleUpdateProduct))
	s.mux.HandleFunc("DELETE /api/products/{id}", s.authenticated(s.handleDeleteProduct))

	// Invitations
	s.mux.HandleFunc("GET /api/invites/{$}", s.authenticated(s.handleListInvitations))
	s.mux.HandleFunc("POST /api/invites/{$}", s.authenticated(s.handleCreateInvitation))
	s.mux.HandleFunc("POST /api/invites/validate/{code}", s.handleValidateInvitation)
	s.mux.HandleFunc("POST /api/invites/use/{code}", s.authenticated(s.handleUseInvitation))
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, map[string]string{"detail": detail})
}

type fieldProblem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// decodeForm reads the request body into dst and validates it. On failure it
// writes a 422 response listing the rejected fields and returns false.
func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldProblem{{Loc: []string{"body"}, Msg: fmt.Sprintf("invalid JSON: %v", err), Type: "json_invalid"}},
		})
		return false
	}
	err := forms.Validate(dst)
	if err == nil {
		return true
	}
	var fe forms.Errors
	if !errors.As(err, &fe) {
		s.logger.WithError(err).Error("failed to validate request")
		s.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return false
	}
	problems := make([]fieldProblem, len(fe))
	for i, e := range fe {
		problems[i] = fieldProblem{Loc: []string{"body", e.Field}, Msg: e.Message, Type: "value_error"}
	}
	s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
	return false
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// requireID writes a 422 and returns false when the {id} path value is not
// an integer.
func (s *Server) requireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r)
	if err != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldProblem{{Loc: []string{"path", "id"}, Msg: "must be an integer", Type: "int_parsing"}},
		})
		return 0, false
	}
	return id, true
}

// newID must be called with mu held.
func (s *Server) newID() int64 {
	s.nextID++
	return s.nextID
}
