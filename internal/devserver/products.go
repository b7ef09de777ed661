package devserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func ownedProducts(all map[int64]models.Product, owner int64) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range all {
		if p.RepresentativeID == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// lookupProduct must be called with mu held.
func (s *Server) lookupProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	id, ok := s.requireID(w, r)
	if !ok {
		return models.Product{}, false
	}
	p, ok := s.products[id]
	if !ok || p.RepresentativeID != ownerFrom(r.Context()) {
		s.respondError(w, http.StatusNotFound, "Product not found")
		return models.Product{}, false
	}
	return p, true
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	s.mu.RLock()
	products := ownedProducts(s.products, owner)
	s.mu.RUnlock()

	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.lookupProduct(w, r); ok {
		s.respondJSON(w, http.StatusOK, p)
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if !s.decodeForm(w, r, &req) {
		return
	}

	s.mu.Lock()
	p := models.Product{
		ID:               s.newID(),
		Name:             strings.TrimSpace(req.Name),
		Description:      strings.TrimSpace(req.Description),
		Price:            req.Price,
		Stock:            req.Stock,
		IsActive:         true,
		RepresentativeID: ownerFrom(r.Context()),
	}
	s.products[p.ID] = p
	s.mu.Unlock()

	s.respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if _, ok := s.requireID(w, r); !ok {
		return
	}
	if !s.decodeForm(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookupProduct(w, r)
	if !ok {
		return
	}
	p.Name = strings.TrimSpace(req.Name)
	p.Description = strings.TrimSpace(req.Description)
	p.Price = req.Price
	p.Stock = req.Stock
	s.products[p.ID] = p

	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookupProduct(w, r)
	if !ok {
		return
	}
	delete(s.products, p.ID)

	s.respondJSON(w, http.StatusNoContent, nil)
}
