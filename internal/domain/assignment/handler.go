package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/workstays/workstays-api/internal/domain/booking"
	"github.com/workstays/workstays-api/internal/domain/property"
	"github.com/workstays/workstays-api/internal/middleware"
	"github.com/workstays/workstays-api/internal/pkg/platform"
	"github.com/workstays/workstays-api/internal/pkg/response"
	"github.com/workstays/workstays-api/internal/pkg/validator"
)

// PropertyStore resolves the property a form is being built for
type PropertyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// Handler handles assignment HTTP requests and live sessions
type Handler struct {
	service    *Service
	properties PropertyStore
	upgrader   websocket.Upgrader
}

// NewHandler creates assignment handler
func NewHandler(service *Service, properties PropertyStore, allowedOrigins []string) *Handler {
	return &Handler{
		service:    service,
		properties: properties,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Allow all in development
				if len(allowedOrigins) == 0 {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// Submit handles POST /assignments
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form FormModel
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	conf, err := h.service.Submit(r.Context(), form)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	response.Created(w, SubmitResponse{Message: conf.Message})
}

func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingBookingDate):
		response.ValidationError(w, map[string]string{"booking_date_id": ErrMissingBookingDate.Error()})
	case errors.Is(err, ErrMissingProperty):
		response.ValidationError(w, map[string]string{"property_id": ErrMissingProperty.Error()})
	case errors.Is(err, ErrMissingStartDate):
		response.ValidationError(w, map[string]string{"start_date": ErrMissingStartDate.Error()})
	case errors.Is(err, ErrMissingEndDate):
		response.ValidationError(w, map[string]string{"end_date": ErrMissingEndDate.Error()})
	case errors.Is(err, ErrAlreadyActive):
		response.Conflict(w, platform.CodeBookingAlreadyExists, platformMessage(err, ErrAlreadyActive.Error()))
	case errors.Is(err, ErrDateConflict):
		response.Conflict(w, platform.CodeDateConflict, platformMessage(err, ErrDateConflict.Error()))
	default:
		log.Error().Err(err).Msg("Assignment submission failed")
		response.BadGateway(w, platformMessage(err, "Assignment submission failed"))
	}
}

// BuildForm handles POST /assignments/form
func (h *Handler) BuildForm(w http.ResponseWriter, r *http.Request) {
	var req BuildFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	// A failed property read degrades the form instead of failing it,
	// like every other lookup on this path
	var prop *property.Property
	if id, err := uuid.Parse(req.PropertyID); err == nil {
		prop, err = h.properties.GetByID(r.Context(), id)
		if err != nil {
			log.Warn().Err(err).Str("property_id", req.PropertyID).Msg("Property lookup failed")
			prop = nil
		}
	}

	var candidate booking.ExpandedBooking
	if req.Booking != nil {
		candidate = *req.Booking
	}

	form := h.service.BuildForm(r.Context(), candidate, prop, req.IsNew)
	response.OK(w, form)
}

// Lookup handles GET /assignments/lookup/{id}
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking date ID")
		return
	}

	fill, err := h.service.LookupBooking(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrDateUnknown):
			response.NotFound(w, "Booking date not found")
		case errors.Is(err, ErrRequestMissing):
			response.NotFound(w, "Booking request missing for this date")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, fill)
}

// Live handles WS /ws/assignments
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Assignment session upgrade failed")
		return
	}

	newLiveSession(conn, h.service, 0).run()
}
