package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// LandlordRoutes returns landlord directory routes
func (h *Handler) LandlordRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.ListLandlords)
	r.Get("/{id}", h.GetLandlord)
	r.Get("/{id}/properties", h.LandlordProperties)

	return r
}

// ContractorRoutes returns contractor directory routes
func (h *Handler) ContractorRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.ListContractors)
	r.Get("/{id}", h.GetContractor)

	return r
}
