package property

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workstays/workstays-api/internal/pkg/filter"
	"github.com/workstays/workstays-api/internal/pkg/response"
	"github.com/workstays/workstays-api/internal/pkg/validator"
)

// SnapshotSource supplies the current property collection with its
// revision, and lets write paths trigger a refresh so the directory does
// not wait for the next scheduled cycle.
type SnapshotSource interface {
	Properties() (uint64, []Property)
	Refresh(ctx context.Context) error
}

// Handler handles property HTTP requests
type Handler struct {
	repo      Repository
	snapshots SnapshotSource
	engine    *filter.Engine[Property]
}

// NewHandler creates property handler
func NewHandler(repo Repository, snapshots SnapshotSource) *Handler {
	return &Handler{
		repo:      repo,
		snapshots: snapshots,
		engine:    filter.NewEngine[Property](),
	}
}

// List handles GET /properties
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rev, properties := h.snapshots.Properties()

	filtered := h.engine.Apply(rev, properties, FiltersFromQuery(r.URL.Query()))

	items := make([]*PropertyResponse, len(filtered))
	for i := range filtered {
		items[i] = ToResponse(&filtered[i])
	}

	w.Header().Set("X-Snapshot-Rev", strconv.FormatUint(rev, 10))
	response.OK(w, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

// GetByID handles GET /properties/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	if p == nil {
		response.NotFound(w, "Property not found")
		return
	}

	response.OK(w, ToResponse(p))
}

// SetAvailability handles PATCH /properties/{id}/availability
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return
	}

	var req UpdateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.repo.SetAvailability(r.Context(), id, *req.Available); err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(w, "Property not found")
			return
		}
		response.InternalError(w)
		return
	}

	if err := h.snapshots.Refresh(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Snapshot refresh after availability change failed")
	}

	response.OK(w, map[string]interface{}{
		"id":        id,
		"available": *req.Available,
	})
}
