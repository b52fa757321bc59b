package booking

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request statuses. Per-date statuses use the same vocabulary and can
// diverge from the parent request.
const (
	StatusPending          = "pending"
	StatusReviewing        = "reviewing"
	StatusPropertyAssigned = "property_assigned"
	StatusConfirmed        = "confirmed"
	StatusCancelled        = "cancelled"

	// StatusActive is the directory's display alias for a confirmed stay
	StatusActive = "active"
)

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// Ref identifies one expanded booking row: the request plus the date range
// it was expanded from. DateID is uuid.Nil for a request with no dates.
// The string form exists for display; internally both ids travel together.
type Ref struct {
	RequestID uuid.UUID
	DateID    uuid.UUID
}

// String renders the display id. A ref without a date renders the bare
// request id, so zero-date requests keep their original identifier.
func (r Ref) String() string {
	if r.DateID == uuid.Nil {
		return r.RequestID.String()
	}
	return r.RequestID.String() + "-" + r.DateID.String()
}

// MarshalJSON emits the display id
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts either id form. Unparseable ids decode to the
// zero Ref rather than failing the enclosing document.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ref, ok := ParseRef(s)
	if !ok {
		*r = Ref{}
		return nil
	}
	*r = ref
	return nil
}

// ParseRef recovers a Ref from a display id. Composite ids are two uuids
// joined by a dash; uuids contain dashes themselves, so the split is
// positional rather than a substring search.
func ParseRef(s string) (Ref, bool) {
	const idLen = 36
	switch len(s) {
	case idLen:
		id, err := uuid.Parse(s)
		if err != nil {
			return Ref{}, false
		}
		return Ref{RequestID: id}, true
	case idLen*2 + 1:
		if s[idLen] != '-' {
			return Ref{}, false
		}
		requestID, err := uuid.Parse(s[:idLen])
		if err != nil {
			return Ref{}, false
		}
		dateID, err := uuid.Parse(s[idLen+1:])
		if err != nil {
			return Ref{}, false
		}
		return Ref{RequestID: requestID, DateID: dateID}, true
	}
	return Ref{}, false
}

// Contact is a requester identity joined from the contractor profile.
// Present only when the profile lookup succeeded.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// BookingRequest represents one contractor submission (matches
// booking_requests table). Status at this level is advisory; the dates
// carry their own.
type BookingRequest struct {
	ID              uuid.UUID     `db:"id"`
	ContractorID    uuid.NullUUID `db:"contractor_id"`
	ContractorName  string        `db:"contractor_name"`
	ContractorEmail string        `db:"contractor_email"`
	ContractorPhone string        `db:"contractor_phone"`
	CompanyName     string        `db:"company_name"`
	Postcode        string        `db:"postcode"`
	City            string        `db:"city"`
	TeamSize        int           `db:"team_size"`
	BudgetBand      string        `db:"budget_band"`
	Status          string        `db:"status"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`

	// Populated by the source, not scanned directly
	Contractor *Contact      `db:"-"`
	Dates      []BookingDate `db:"-"`
}

// BookingDate is one contiguous stay window within a request (matches
// booking_dates table). Rows are never deleted, only status-transitioned.
type BookingDate struct {
	ID                 uuid.UUID     `db:"id" json:"id"`
	RequestID          uuid.UUID     `db:"request_id" json:"request_id"`
	StartDate          time.Time     `db:"start_date" json:"start_date"`
	EndDate            time.Time     `db:"end_date" json:"end_date"`
	Status             string        `db:"status" json:"status"`
	BookedPropertyID   uuid.NullUUID `db:"booked_property_id" json:"-"`
	AssignedPropertyID uuid.NullUUID `db:"assigned_property_id" json:"-"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`

	// Property is the joined booked-property projection when present
	Property *PropertyRef `db:"-" json:"-"`
}

// PropertyRef is the property projection carried by an expanded booking:
// either a joined record or a placeholder built from a bare legacy id.
type PropertyRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Postcode    string    `json:"postcode,omitempty"`
	City        string    `json:"city,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
}

// LegacyBooking is one row of the old flat bookings table: contact fields
// and the stay window live on the same record, with at most one property
// reference and no separate date rows.
type LegacyBooking struct {
	ID                 uuid.UUID     `db:"id"`
	ContractorName     string        `db:"contractor_name"`
	ContractorEmail    string        `db:"contractor_email"`
	ContractorPhone    string        `db:"contractor_phone"`
	CompanyName        string        `db:"company_name"`
	Postcode           string        `db:"postcode"`
	City               string        `db:"city"`
	TeamSize           int           `db:"team_size"`
	BudgetBand         string        `db:"budget_band"`
	Status             string        `db:"status"`
	StartDate          sql.NullTime  `db:"start_date"`
	EndDate            sql.NullTime  `db:"end_date"`
	AssignedPropertyID uuid.NullUUID `db:"assigned_property_id"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

// ExpandedBooking is the one-row-per-date read model the admin directory
// serves. It is recomputed on every fetch and never persisted.
type ExpandedBooking struct {
	Ref Ref `json:"id"`

	ContractorName  string `json:"contractor_name"`
	ContractorEmail string `json:"contractor_email"`
	ContractorPhone string `json:"contractor_phone"`
	CompanyName     string `json:"company_name"`
	Postcode        string `json:"postcode"`
	City            string `json:"city"`
	TeamSize        int    `json:"team_size"`
	BudgetBand      string `json:"budget_band"`

	// Status is the display status for this row; RequestStatus keeps the
	// parent's advisory status alongside it.
	Status        string `json:"status"`
	RequestStatus string `json:"request_status"`

	// StartDate/EndDate are the row's stay window, empty when unknown.
	// For a zero-date request they fall back to request-level fields
	// where the legacy schema has them.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// Dates carries the single expanded date, or nothing for a
	// zero-date request.
	Dates []BookingDate `json:"dates"`

	// Property is nil until an assignment is resolved
	Property *PropertyRef `json:"property"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// displayStatus derives the per-row status: the date's own status wins,
// the parent request's fills in when the date has none, and a confirmed
// stay is surfaced as active.
func displayStatus(dateStatus, requestStatus string) string {
	s := dateStatus
	if s == "" {
		s = requestStatus
	}
	if s == StatusConfirmed {
		return StatusActive
	}
	return s
}
