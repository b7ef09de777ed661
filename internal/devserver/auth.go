package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kerhoff/RepBoT/internal/models"
)

const bcryptCost = bcrypt.DefaultCost

type claims struct {
	Version int `json:"ver"`
	jwt.RegisteredClaims
}

type ownerKey struct{}

func ownerFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ownerKey{}).(int64)
	return id
}

func (s *Server) issueToken(userID int64, version int) (string, error) {
	now := s.opts.Now()
	c := &claims{
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(s.opts.Secret))
}

func (s *Server) parseToken(raw string) (int64, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return []byte(s.opts.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.opts.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %w", err)
	}

	s.mu.RLock()
	acc, ok := s.accounts[userID]
	s.mu.RUnlock()
	if !ok || !acc.rep.IsActive {
		return 0, errors.New("unknown or inactive representative")
	}
	if acc.tokenVersion != c.Version {
		return 0, errors.New("token revoked")
	}
	return userID, nil
}

// authenticated rejects requests without a valid bearer token and passes
// the owner id on in the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			s.respondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := s.parseToken(raw)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"path":  r.URL.Path,
				"error": err,
			}).Debug("Rejected token")
			w.Header().Set("WWW-Authenticate", "Bearer")
			s.respondError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, userID)))
	}
}

// Revoke invalidates every token issued so far to the representative.
func (s *Server) Revoke(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[userID]; ok {
		acc.tokenVersion++
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(r.PostForm.Get("username")))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	s.mu.RLock()
	var (
		user    models.UserSummary
		hash    []byte
		version int
		found   bool
	)
	if id, ok := s.byEmail[email]; ok {
		acc := s.accounts[id]
		user = models.UserSummary{ID: acc.rep.ID, Email: acc.rep.Email}
		hash, version, found = acc.passwordHash, acc.tokenVersion, true
	}
	s.mu.RUnlock()

	if !found || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		s.respondError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token, err := s.issueToken(user.ID, version)
	if err != nil {
		s.logger.WithError(err).Error("failed to sign token")
		s.respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.logger.WithField("user_id", user.ID).Info("Representative logged in")
	s.respondJSON(w, http.StatusOK, models.LoginResult{AccessToken: token, TokenType: "bearer", User: user})
}

func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
