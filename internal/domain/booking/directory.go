package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Directory produces the flat admin booking list from whichever schema the
// store currently has.
type Directory struct {
	source Source
}

// NewDirectory creates the booking directory
func NewDirectory(source Source) *Directory {
	return &Directory{source: source}
}

// List returns every booking expanded to one row per date range.
//
// It never returns an error: a fetch failure is logged and an empty list
// returned, so the consuming directory view always renders.
func (d *Directory) List(ctx context.Context) []ExpandedBooking {
	batch, err := d.source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Booking fetch failed")
		return []ExpandedBooking{}
	}

	if batch.Shape == ShapeLegacy {
		return expandLegacy(batch.Legacy)
	}
	return expandRequests(batch.Requests)
}

func expandRequests(requests []BookingRequest) []ExpandedBooking {
	out := make([]ExpandedBooking, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		if len(req.Dates) == 0 {
			out = append(out, expandOne(req, nil))
			continue
		}
		for j := range req.Dates {
			out = append(out, expandOne(req, &req.Dates[j]))
		}
	}
	return out
}

func expandOne(req *BookingRequest, date *BookingDate) ExpandedBooking {
	eb := ExpandedBooking{
		Ref:           Ref{RequestID: req.ID},
		CompanyName:   req.CompanyName,
		Postcode:      req.Postcode,
		City:          req.City,
		TeamSize:      req.TeamSize,
		BudgetBand:    req.BudgetBand,
		RequestStatus: req.Status,
		Dates:         []BookingDate{},
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}

	// Requester identity: joined contractor profile wins field by field
	// over the request's own contact columns, with sentinels last so the
	// row always renders.
	var joinedName, joinedEmail, joinedPhone string
	if req.Contractor != nil {
		joinedName = req.Contractor.Name
		joinedEmail = req.Contractor.Email
		joinedPhone = req.Contractor.Phone
	}
	eb.ContractorName = firstNonEmpty(joinedName, req.ContractorName, "Unknown")
	eb.ContractorEmail = firstNonEmpty(joinedEmail, req.ContractorEmail)
	eb.ContractorPhone = firstNonEmpty(joinedPhone, req.ContractorPhone)

	if date == nil {
		eb.Status = displayStatus("", req.Status)
		return eb
	}

	eb.Ref.DateID = date.ID
	eb.Dates = []BookingDate{*date}
	eb.StartDate = date.StartDate.Format(DateLayout)
	eb.EndDate = date.EndDate.Format(DateLayout)
	eb.Status = displayStatus(date.Status, req.Status)

	// Property resolution: the joined booked-property record first, then
	// the legacy assigned id as a placeholder, else none.
	switch {
	case date.Property != nil:
		eb.Property = date.Property
	case date.AssignedPropertyID.Valid:
		eb.Property = placeholderProperty(date.AssignedPropertyID.UUID)
	}

	return eb
}

func expandLegacy(bookings []LegacyBooking) []ExpandedBooking {
	out := make([]ExpandedBooking, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		eb := ExpandedBooking{
			Ref:             Ref{RequestID: b.ID},
			ContractorName:  firstNonEmpty(b.ContractorName, "Unknown"),
			ContractorEmail: b.ContractorEmail,
			ContractorPhone: b.ContractorPhone,
			CompanyName:     b.CompanyName,
			Postcode:        b.Postcode,
			City:            b.City,
			TeamSize:        b.TeamSize,
			BudgetBand:      b.BudgetBand,
			Status:          displayStatus("", b.Status),
			RequestStatus:   b.Status,
			Dates:           []BookingDate{},
			CreatedAt:       b.CreatedAt,
			UpdatedAt:       b.UpdatedAt,
		}
		if b.StartDate.Valid {
			eb.StartDate = b.StartDate.Time.Format(DateLayout)
		}
		if b.EndDate.Valid {
			eb.EndDate = b.EndDate.Time.Format(DateLayout)
		}
		if b.AssignedPropertyID.Valid {
			eb.Property = placeholderProperty(b.AssignedPropertyID.UUID)
		}
		out = append(out, eb)
	}
	return out
}

func placeholderProperty(id uuid.UUID) *PropertyRef {
	return &PropertyRef{ID: id, Name: "Assigned property", Placeholder: true}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
