package booking

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

// SnapshotSource supplies the current expanded booking collection with its
// revision, and lets triage writes trigger a refresh.
type SnapshotSource interface {
	Bookings() (uint64, []ExpandedBooking)
	Refresh(ctx context.Context) error
}

// Handler handles booking HTTP requests
type Handler struct {
	repo      Repository
	snapshots SnapshotSource
	engine    *filter.Engine[ExpandedBooking]
}

// NewHandler creates booking handler
func NewHandler(repo Repository, snapshots SnapshotSource) *Handler {
	return &Handler{
		repo:      repo,
		snapshots: snapshots,
		engine:    filter.NewEngine[ExpandedBooking](),
	}
}

// List handles GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rev, bookings := h.snapshots.Bookings()

	filtered := h.engine.Apply(rev, bookings, FiltersFromQuery(r.URL.Query()))

	w.Header().Set("X-Snapshot-Rev", strconv.FormatUint(rev, 10))
	response.OK(w, map[string]interface{}{
		"items": filtered,
		"total": len(filtered),
	})
}

// GetRequest handles GET /bookings/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking request ID")
		return
	}

	req, err := h.repo.RequestByID(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	if req == nil {
		response.NotFound(w, "Booking request not found")
		return
	}

	dates, err := h.repo.DatesByRequest(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, toRequestDetail(req, dates))
}

// UpdateStatus handles PATCH /bookings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking request ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.repo.UpdateRequestStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.NotFound(w, "Booking request not found")
			return
		}
		response.InternalError(w)
		return
	}

	if err := h.snapshots.Refresh(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Snapshot refresh after status change failed")
	}

	response.OK(w, map[string]interface{}{
		"id":     id,
		"status": req.Status,
	})
}
