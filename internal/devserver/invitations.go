package devserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/models"
)

const errInvitationUnavailable = "Invitation not found or already used"

func sentInvitations(all map[int64]models.Invitation, sender int64) []models.Invitation {
	out := make([]models.Invitation, 0)
	for _, inv := range all {
		if inv.SenderID == sender {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// findUnused must be called with mu held.
func (s *Server) findUnused(code string) (models.Invitation, bool) {
	for _, inv := range s.invitations {
		if inv.Code == code && !inv.IsUsed {
			return inv, true
		}
	}
	return models.Invitation{}, false
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	s.mu.RLock()
	invitations := sentInvitations(s.invitations, owner)
	s.mu.RUnlock()

	s.respondJSON(w, http.StatusOK, invitations)
}

func (s *Server) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	inv := models.Invitation{
		ID:        s.newID(),
		Code:      strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		CreatedAt: models.Timestamp{Time: s.opts.Now().UTC()},
		SenderID:  ownerFrom(r.Context()),
	}
	s.invitations[inv.ID] = inv
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, inv)
}

func (s *Server) handleValidateInvitation(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	s.mu.RLock()
	inv, ok := s.findUnused(code)
	s.mu.RUnlock()

	if !ok {
		s.respondError(w, http.StatusNotFound, errInvitationUnavailable)
		return
	}
	s.respondJSON(w, http.StatusOK, inv)
}

func (s *Server) handleUseInvitation(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.findUnused(code)
	if !ok {
		s.respondError(w, http.StatusNotFound, errInvitationUnavailable)
		return
	}
	inv.IsUsed = true
	inv.UsedAt = &models.Timestamp{Time: s.opts.Now().UTC()}
	s.invitations[inv.ID] = inv

	s.logger.WithFields(logrus.Fields{
		"invitation_id": inv.ID,
		"used_by":       ownerFrom(r.Context()),
	}).Info("Invitation used")
	s.respondJSON(w, http.StatusOK, inv)
}
