package assignment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns assignment routes. The live websocket is mounted
// separately so it can skip response compression.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Submit)
	r.Post("/form", h.BuildForm)
	r.Get("/lookup/{id}", h.Lookup)

	return r
}
