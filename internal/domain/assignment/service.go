package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workstays/workstays-api/internal/domain/booking"
	"github.com/workstays/workstays-api/internal/domain/profile"
	"github.com/workstays/workstays-api/internal/domain/property"
	"github.com/workstays/workstays-api/internal/pkg/platform"
	"github.com/workstays/workstays-api/internal/pkg/queue"
)

// unknownName fills contractor and landlord name fields when no source
// resolved one. The same sentinel the booking directory uses.
const unknownName = "Unknown"

// BookingStore is the subset of booking reads the assignment flow needs
type BookingStore interface {
	RequestByID(ctx context.Context, id uuid.UUID) (*booking.BookingRequest, error)
	DateByID(ctx context.Context, id uuid.UUID) (*booking.BookingDate, error)
	FirstDateByRequest(ctx context.Context, requestID uuid.UUID) (*booking.BookingDate, error)
}

// LandlordStore resolves landlord profiles
type LandlordStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Landlord, error)
}

// ContractorStore resolves contractor profiles
type ContractorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Contractor, error)
}

// Submitter posts assignments to the platform
type Submitter interface {
	SubmitAssignment(ctx context.Context, payload platform.AssignmentPayload) (*platform.Confirmation, error)
}

// EventPublisher emits confirmed-assignment events
type EventPublisher interface {
	PublishAssignmentConfirmed(ctx context.Context, event queue.AssignmentConfirmedEvent) error
}

// SnapshotUpdater applies the optimistic row update after a confirmed
// assignment, so the directory reflects it before the next full refresh.
type SnapshotUpdater interface {
	MarkAssigned(dateID uuid.UUID, prop booking.PropertyRef)
}

// Service drives the assignment workflow: resolving which booking date an
// admin is assigning, shaping the form, and submitting to the platform.
type Service struct {
	bookings    BookingStore
	landlords   LandlordStore
	contractors ContractorStore
	platform    Submitter
	events      EventPublisher
	snapshots   SnapshotUpdater
}

// NewService creates assignment service. events and snapshots may be nil.
func NewService(bookings BookingStore, landlords LandlordStore, contractors ContractorStore, platformClient Submitter, events EventPublisher, snapshots SnapshotUpdater) *Service {
	return &Service{
		bookings:    bookings,
		landlords:   landlords,
		contractors: contractors,
		platform:    platformClient,
		events:      events,
		snapshots:   snapshots,
	}
}

// ResolveBookingDateID picks the date id to assign against, in priority
// order: the row's own expanded date, then the request's first stored
// date, then the date half of the row's ref. Returns uuid.Nil when no
// source yields one; submission will reject that case.
func (s *Service) ResolveBookingDateID(ctx context.Context, c booking.ExpandedBooking) uuid.UUID {
	if len(c.Dates) > 0 && c.Dates[0].ID != uuid.Nil {
		return c.Dates[0].ID
	}

	if c.Ref.RequestID != uuid.Nil {
		date, err := s.bookings.FirstDateByRequest(ctx, c.Ref.RequestID)
		if err != nil {
			log.Warn().Err(err).Str("request_id", c.Ref.RequestID.String()).Msg("First booking date lookup failed")
		} else if date != nil {
			return date.ID
		}
	}

	return c.Ref.DateID
}

// BuildForm shapes the assignment form for one booking row and the
// property being assigned. For a brand-new booking the form starts empty
// apart from the property's own fields; for an existing row the locally
// known data goes in first and landlord, request and contractor records
// are looked up to refresh it. Each lookup tolerates failure on its own:
// a dead landlord read still leaves contractor fields fully resolved.
func (s *Service) BuildForm(ctx context.Context, c booking.ExpandedBooking, prop *property.Property, isNew bool) FormModel {
	var form FormModel

	if prop != nil {
		form.PropertyID = prop.ID.String()
		form.PropertyName = prop.Name
		form.Postcode = strings.TrimSpace(prop.Postcode)
		if prop.LandlordID != uuid.Nil {
			form.LandlordID = prop.LandlordID.String()
		}
	}

	if isNew {
		return form
	}

	if c.Ref.RequestID != uuid.Nil {
		form.RequestID = c.Ref.RequestID.String()
	}
	if id := s.ResolveBookingDateID(ctx, c); id != uuid.Nil {
		form.BookingDateID = id.String()
	}

	form.ContractorName = c.ContractorName
	form.ContractorEmail = c.ContractorEmail
	form.ContractorPhone = c.ContractorPhone
	form.CompanyName = c.CompanyName
	form.TeamSize = c.TeamSize
	form.StartDate = c.StartDate
	form.EndDate = c.EndDate
	if p := strings.TrimSpace(c.Postcode); p != "" {
		form.Postcode = p
	}

	if prop != nil && prop.LandlordID != uuid.Nil {
		landlord, err := s.landlords.GetByID(ctx, prop.LandlordID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("landlord_id", prop.LandlordID.String()).Msg("Landlord lookup failed")
		case landlord != nil:
			form.LandlordName = landlord.Name
		}
	}

	var req *booking.BookingRequest
	if c.Ref.RequestID != uuid.Nil {
		var err error
		req, err = s.bookings.RequestByID(ctx, c.Ref.RequestID)
		if err != nil {
			log.Warn().Err(err).Str("request_id", c.Ref.RequestID.String()).Msg("Booking request lookup failed")
			req = nil
		}
	}
	if req != nil {
		form.ContractorName = firstNonEmpty(req.ContractorName, form.ContractorName)
		form.ContractorEmail = firstNonEmpty(req.ContractorEmail, form.ContractorEmail)
		form.ContractorPhone = firstNonEmpty(req.ContractorPhone, form.ContractorPhone)
		form.CompanyName = firstNonEmpty(req.CompanyName, form.CompanyName)
		if req.TeamSize > 0 {
			form.TeamSize = req.TeamSize
		}
		if req.ContractorID.Valid {
			form.ContractorID = req.ContractorID.UUID.String()

			contractor, err := s.contractors.GetByID(ctx, req.ContractorID.UUID)
			switch {
			case err != nil:
				log.Warn().Err(err).Str("contractor_id", req.ContractorID.UUID.String()).Msg("Contractor lookup failed")
			case contractor != nil:
				form.ContractorName = firstNonEmpty(contractor.Name, form.ContractorName)
				form.ContractorEmail = firstNonEmpty(contractor.Email, form.ContractorEmail)
				form.ContractorPhone = firstNonEmpty(contractor.Phone.String, form.ContractorPhone)
				form.CompanyName = firstNonEmpty(contractor.CompanyName.String, form.CompanyName)
			}
		}
	}

	if strings.TrimSpace(form.ContractorName) == "" {
		form.ContractorName = unknownName
	}
	if strings.TrimSpace(form.LandlordName) == "" {
		form.LandlordName = unknownName
	}

	return form
}

// LookupBooking resolves a booking date id typed into the form. The two
// failure modes stay distinct: ErrDateUnknown when the date id matches
// nothing, ErrRequestMissing when the date exists but its parent request
// is gone.
func (s *Service) LookupBooking(ctx context.Context, dateID uuid.UUID) (*LookupFill, error) {
	date, err := s.bookings.DateByID(ctx, dateID)
	if err != nil {
		return nil, fmt.Errorf("booking lookup: %w", err)
	}
	if date == nil {
		return nil, ErrDateUnknown
	}

	req, err := s.bookings.RequestByID(ctx, date.RequestID)
	if err != nil {
		return nil, fmt.Errorf("booking lookup: %w", err)
	}
	if req == nil {
		return nil, ErrRequestMissing
	}

	fill := &LookupFill{
		RequestID:       req.ID.String(),
		BookingDateID:   date.ID.String(),
		ContractorName:  firstNonEmpty(req.ContractorName, unknownName),
		ContractorEmail: req.ContractorEmail,
		ContractorPhone: req.ContractorPhone,
		CompanyName:     req.CompanyName,
		TeamSize:        req.TeamSize,
		StartDate:       formatDate(date.StartDate),
		EndDate:         formatDate(date.EndDate),
	}

	if req.ContractorID.Valid {
		fill.ContractorID = req.ContractorID.UUID.String()

		contractor, err := s.contractors.GetByID(ctx, req.ContractorID.UUID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("contractor_id", req.ContractorID.UUID.String()).Msg("Contractor lookup failed")
		case contractor != nil:
			fill.ContractorName = firstNonEmpty(contractor.Name, fill.ContractorName)
			fill.ContractorEmail = firstNonEmpty(contractor.Email, fill.ContractorEmail)
			fill.ContractorPhone = firstNonEmpty(contractor.Phone.String, fill.ContractorPhone)
			fill.CompanyName = firstNonEmpty(contractor.CompanyName.String, fill.CompanyName)
		}
	}

	return fill, nil
}

// Submit validates the form locally and posts it to the platform. The
// four required-field checks each return their own error and run before
// any network call. Platform rejections with a known code come back
// joined with the matching sentinel so callers can switch on errors.Is
// and still unwrap the platform message.
func (s *Service) Submit(ctx context.Context, form FormModel) (*platform.Confirmation, error) {
	switch {
	case strings.TrimSpace(form.BookingDateID) == "":
		return nil, ErrMissingBookingDate
	case strings.TrimSpace(form.PropertyID) == "":
		return nil, ErrMissingProperty
	case strings.TrimSpace(form.StartDate) == "":
		return nil, ErrMissingStartDate
	case strings.TrimSpace(form.EndDate) == "":
		return nil, ErrMissingEndDate
	}

	conf, err := s.platform.SubmitAssignment(ctx, form.payload())
	if err != nil {
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case platform.CodeBookingAlreadyExists:
				return nil, errors.Join(ErrAlreadyActive, err)
			case platform.CodeDateConflict:
				return nil, errors.Join(ErrDateConflict, err)
			}
		}
		return nil, err
	}

	s.confirmed(ctx, form)
	return conf, nil
}

// confirmed fans out the side effects of an accepted assignment. The
// snapshot update and event publish run after the platform already said
// yes, so neither can fail the submission.
func (s *Service) confirmed(ctx context.Context, form FormModel) {
	if dateID := form.dateID(); s.snapshots != nil && dateID != uuid.Nil {
		propID, _ := uuid.Parse(form.PropertyID)
		s.snapshots.MarkAssigned(dateID, booking.PropertyRef{
			ID:       propID,
			Name:     form.PropertyName,
			Postcode: form.Postcode,
		})
	}

	if s.events != nil {
		_ = s.events.PublishAssignmentConfirmed(ctx, queue.AssignmentConfirmedEvent{
			RequestID:    form.RequestID,
			DateID:       form.BookingDateID,
			PropertyID:   form.PropertyID,
			PropertyName: form.PropertyName,
			Postcode:     form.Postcode,
			StartDate:    form.StartDate,
			EndDate:      form.EndDate,
			CompanyName:  form.CompanyName,
			TeamSize:     form.TeamSize,
			ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(booking.DateLayout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
