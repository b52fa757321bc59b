package assignment

import (
	"github.com/google/uuid"

	"github.com/workstays/workstays-api/internal/pkg/platform"
)

// FormModel is the fully shaped assignment form. Every field always holds
// a value: fields with no resolved source keep their literal fallback
// ("", 0 or "Unknown") instead of going null, so clients can render the
// form without nil checks.
type FormModel struct {
	RequestID     string `json:"request_id"`
	BookingDateID string `json:"booking_date_id"`
	PropertyID    string `json:"property_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Postcode      string `json:"postcode"`

	ContractorID    string `json:"contractor_id"`
	ContractorName  string `json:"contractor_name"`
	ContractorEmail string `json:"contractor_email"`
	ContractorPhone string `json:"contractor_phone"`
	CompanyName     string `json:"company_name"`
	TeamSize        int    `json:"team_size"`

	PropertyName string `json:"property_name"`
	LandlordID   string `json:"landlord_id"`
	LandlordName string `json:"landlord_name"`
}

// payload converts the form to the platform wire shape. RequestID and
// ContractorID stay local: the platform keys assignments by date id.
func (f FormModel) payload() platform.AssignmentPayload {
	return platform.AssignmentPayload{
		BookingDateID:   f.BookingDateID,
		PropertyID:      f.PropertyID,
		StartDate:       f.StartDate,
		EndDate:         f.EndDate,
		Postcode:        f.Postcode,
		ContractorName:  f.ContractorName,
		ContractorEmail: f.ContractorEmail,
		ContractorPhone: f.ContractorPhone,
		CompanyName:     f.CompanyName,
		TeamSize:        f.TeamSize,
		PropertyName:    f.PropertyName,
		LandlordID:      f.LandlordID,
		LandlordName:    f.LandlordName,
	}
}

func (f FormModel) dateID() uuid.UUID {
	id, err := uuid.Parse(f.BookingDateID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// LookupFill is the slice of the form a booking-id lookup refreshes:
// contractor identity, stay window and team size. Property and landlord
// fields are absent so a lookup never clobbers the admin's property
// selection.
type LookupFill struct {
	RequestID     string `json:"request_id"`
	BookingDateID string `json:"booking_date_id"`

	ContractorID    string `json:"contractor_id"`
	ContractorName  string `json:"contractor_name"`
	ContractorEmail string `json:"contractor_email"`
	ContractorPhone string `json:"contractor_phone"`
	CompanyName     string `json:"company_name"`
	TeamSize        int    `json:"team_size"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Apply copies the fill onto the form
func (f *FormModel) Apply(fill *LookupFill) {
	if fill == nil {
		return
	}
	f.RequestID = fill.RequestID
	f.BookingDateID = fill.BookingDateID
	f.ContractorID = fill.ContractorID
	f.ContractorName = fill.ContractorName
	f.ContractorEmail = fill.ContractorEmail
	f.ContractorPhone = fill.ContractorPhone
	f.CompanyName = fill.CompanyName
	f.TeamSize = fill.TeamSize
	f.StartDate = fill.StartDate
	f.EndDate = fill.EndDate
}

// ClearLookupFields resets exactly the fields a lookup fills
func (f *FormModel) ClearLookupFields() {
	f.RequestID = ""
	f.BookingDateID = ""
	f.ContractorID = ""
	f.ContractorName = ""
	f.ContractorEmail = ""
	f.ContractorPhone = ""
	f.CompanyName = ""
	f.TeamSize = 0
	f.StartDate = ""
	f.EndDate = ""
}
