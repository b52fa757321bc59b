package profile

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/workstays/workstays-api/internal/domain/property"
	"github.com/workstays/workstays-api/internal/pkg/response"
)

// PropertyStore lists the listings owned by one landlord
type PropertyStore interface {
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]property.Property, error)
}

// Handler handles profile HTTP requests
type Handler struct {
	landlords   LandlordRepository
	contractors ContractorRepository
	properties  PropertyStore
}

// NewHandler creates profile handler
func NewHandler(landlords LandlordRepository, contractors ContractorRepository, properties PropertyStore) *Handler {
	return &Handler{landlords: landlords, contractors: contractors, properties: properties}
}

func listParams(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// ListLandlords handles GET /landlords
func (h *Handler) ListLandlords(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)

	landlords, total, err := h.landlords.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*LandlordResponse, len(landlords))
	for i, l := range landlords {
		items[i] = ToLandlordResponse(l)
	}

	response.OK(w, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

// GetLandlord handles GET /landlords/{id}
func (h *Handler) GetLandlord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid landlord ID")
		return
	}

	l, err := h.landlords.GetByID(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	if l == nil {
		response.NotFound(w, "Landlord not found")
		return
	}

	response.OK(w, ToLandlordResponse(l))
}

// LandlordProperties handles GET /landlords/{id}/properties
func (h *Handler) LandlordProperties(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid landlord ID")
		return
	}

	l, err := h.landlords.GetByID(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	if l == nil {
		response.NotFound(w, "Landlord not found")
		return
	}

	owned, err := h.properties.ListByLandlord(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*property.PropertyResponse, len(owned))
	for i := range owned {
		items[i] = property.ToResponse(&owned[i])
	}

	response.OK(w, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

// ListContractors handles GET /contractors
func (h *Handler) ListContractors(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)

	contractors, total, err := h.contractors.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*ContractorResponse, len(contractors))
	for i, c := range contractors {
		items[i] = ToContractorResponse(c)
	}

	response.OK(w, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

// GetContractor handles GET /contractors/{id}
func (h *Handler) GetContractor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid contractor ID")
		return
	}

	c, err := h.contractors.GetByID(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	if c == nil {
		response.NotFound(w, "Contractor not found")
		return
	}

	response.OK(w, ToContractorResponse(c))
}
