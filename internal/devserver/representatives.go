package devserver

import (
	"net/http"
	"strings"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterData
	if !s.decodeForm(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("failed to register representative")
		s.respondError(w, http.StatusInternalServerError, "failed to register representative")
		return
	}

	s.mu.Lock()
	if _, taken := s.byEmail[email]; taken {
		s.mu.Unlock()
		s.respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	rep := models.Representative{
		ID:        s.newID(),
		FullName:  strings.TrimSpace(req.FullName),
		BirthDate: req.BirthDate,
		Country:   strings.TrimSpace(req.Country),
		Email:     email,
		Phone:     req.Phone,
		IsActive:  true,
	}
	s.accounts[rep.ID] = &account{rep: rep, passwordHash: hash}
	s.byEmail[email] = rep.ID
	s.mu.Unlock()

	s.logger.WithField("user_id", rep.ID).Info("Representative registered")
	s.respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[owner]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Representative not found")
		return
	}
	profile := models.Profile{
		Representative: acc.rep,
		Children:       ownedChildren(s.children, owner),
		Products:       ownedProducts(s.products, owner),
		Invitations:    sentInvitations(s.invitations, owner),
	}
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	var req models.RepresentativeInput
	if !s.decodeForm(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[owner]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Representative not found")
		return
	}
	if id, taken := s.byEmail[email]; taken && id != owner {
		s.respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	delete(s.byEmail, acc.rep.Email)
	s.byEmail[email] = owner

	acc.rep.FullName = strings.TrimSpace(req.FullName)
	acc.rep.BirthDate = req.BirthDate
	acc.rep.Country = strings.TrimSpace(req.Country)
	acc.rep.Email = email
	acc.rep.Phone = req.Phone

	s.respondJSON(w, http.StatusOK, acc.rep)
}
