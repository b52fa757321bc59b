package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetRequest)
		r.Patch("/status", h.UpdateStatus)
	})

	return r
}
