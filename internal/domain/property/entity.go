package property

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Property represents a bookable unit (matches properties table).
// Writes happen exclusively through the landlord-facing property service;
// this API reads them for the admin directory and assignment workflow.
type Property struct {
	ID         uuid.UUID `db:"id"`
	LandlordID uuid.UUID `db:"landlord_id"`
	Name       string    `db:"name"`

	// Structured address, with the legacy flattened column kept as fallback
	HouseAddress string `db:"house_address"`
	Locality     string `db:"locality"`
	City         string `db:"city"`
	County       string `db:"county"`
	Postcode     string `db:"postcode"`
	Country      string `db:"country"`
	FullAddress  string `db:"full_address"`

	PropertyType string `db:"property_type"`
	ParkingType  string `db:"parking_type"`

	// Capacity
	Bedrooms     int `db:"bedrooms"`
	Beds         int `db:"beds"`
	Bathrooms    int `db:"bathrooms"`
	MaxOccupancy int `db:"max_occupancy"`

	// Amenities
	Wifi           bool `db:"wifi"`
	WashingMachine bool `db:"washing_machine"`
	Dryer          bool `db:"dryer"`
	Dishwasher     bool `db:"dishwasher"`
	Microwave      bool `db:"microwave"`
	SmartTV        bool `db:"smart_tv"`
	Garden         bool `db:"garden"`
	DeskSpace      bool `db:"desk_space"`

	// Safety and compliance
	SmokeAlarms          bool `db:"smoke_alarms"`
	CarbonMonoxideAlarm  bool `db:"carbon_monoxide_alarm"`
	FireExtinguisher     bool `db:"fire_extinguisher"`
	FirstAidKit          bool `db:"first_aid_kit"`
	GasSafetyCert        bool `db:"gas_safety_cert"`
	ElectricalSafetyCert bool `db:"electrical_safety_cert"`

	// Pricing
	WeeklyRate    float64 `db:"weekly_rate"`
	MonthlyRate   float64 `db:"monthly_rate"`
	BillsIncluded bool    `db:"bills_included"`

	Available      bool           `db:"available"`
	Photos         pq.StringArray `db:"photos"`
	AdditionalInfo sql.NullString `db:"additional_info"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ComposedAddress joins the structured segments in fixed order, skipping
// empties. The legacy flattened column is used only when every structured
// segment is blank.
func (p *Property) ComposedAddress() string {
	segments := []string{p.HouseAddress, p.Locality, p.City, p.County, p.Postcode, p.Country}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(p.FullAddress)
	}
	return strings.Join(parts, ", ")
}
