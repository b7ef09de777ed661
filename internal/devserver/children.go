package devserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func ownedChildren(all map[int64]models.Child, owner int64) []models.Child {
	out := make([]models.Child, 0)
	for _, c := range all {
		if c.RepresentativeID == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) handleListChildren(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	s.mu.RLock()
	children := ownedChildren(s.children, owner)
	s.mu.RUnlock()

	s.respondJSON(w, http.StatusOK, children)
}

func (s *Server) handleCreateChild(w http.ResponseWriter, r *http.Request) {
	var req models.ChildInput
	if !s.decodeForm(w, r, &req) {
		return
	}

	s.mu.Lock()
	child := models.Child{
		ID:               s.newID(),
		FullName:         strings.TrimSpace(req.FullName),
		BirthDate:        req.BirthDate,
		Country:          strings.TrimSpace(req.Country),
		RepresentativeID: ownerFrom(r.Context()),
	}
	s.children[child.ID] = child
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, child)
}

func (s *Server) handleUpdateChild(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r)
	if !ok {
		return
	}
	var req models.ChildInput
	if !s.decodeForm(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	child, ok := s.children[id]
	if !ok || child.RepresentativeID != ownerFrom(r.Context()) {
		s.respondError(w, http.StatusNotFound, "Child not found")
		return
	}
	child.FullName = strings.TrimSpace(req.FullName)
	child.BirthDate = req.BirthDate
	child.Country = strings.TrimSpace(req.Country)
	s.children[id] = child

	s.respondJSON(w, http.StatusOK, child)
}

func (s *Server) handleDeleteChild(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	child, ok := s.children[id]
	if !ok || child.RepresentativeID != ownerFrom(r.Context()) {
		s.respondError(w, http.StatusNotFound, "Child not found")
		return
	}
	delete(s.children, id)

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Child deleted successfully"})
}
