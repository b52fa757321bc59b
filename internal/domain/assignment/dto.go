package assignment

import (
	"github.com/workstays/workstays-api/internal/domain/booking"
)

// BuildFormRequest asks for a shaped assignment form. Booking carries the
// directory row the admin clicked and is absent for a brand-new booking;
// PropertyID names the property being assigned.
type BuildFormRequest struct {
	Booking    *booking.ExpandedBooking `json:"booking"`
	PropertyID string                   `json:"property_id" validate:"omitempty,uuid"`
	IsNew      bool                     `json:"is_new"`
}

// SubmitResponse confirms an accepted assignment
type SubmitResponse struct {
	Message string `json:"message"`
}
