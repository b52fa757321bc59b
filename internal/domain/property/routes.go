package property

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns property routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Patch("/availability", h.SetAvailability)
	})

	return r
}
