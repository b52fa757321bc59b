package property

import (
	"time"

	"github.com/google/uuid"
)

// PropertyResponse is the admin directory projection of a property
type PropertyResponse struct {
	ID         uuid.UUID `json:"id"`
	LandlordID uuid.UUID `json:"landlord_id"`
	Name       string    `json:"name"`

	HouseAddress    string `json:"house_address,omitempty"`
	Locality        string `json:"locality,omitempty"`
	City            string `json:"city,omitempty"`
	County          string `json:"county,omitempty"`
	Postcode        string `json:"postcode,omitempty"`
	Country         string `json:"country,omitempty"`
	ComposedAddress string `json:"composed_address"`

	PropertyType string `json:"property_type"`
	ParkingType  string `json:"parking_type"`

	Bedrooms     int `json:"bedrooms"`
	Beds         int `json:"beds"`
	Bathrooms    int `json:"bathrooms"`
	MaxOccupancy int `json:"max_occupancy"`

	Amenities map[string]bool `json:"amenities"`
	Safety    map[string]bool `json:"safety"`

	WeeklyRate    float64 `json:"weekly_rate"`
	MonthlyRate   float64 `json:"monthly_rate"`
	BillsIncluded bool    `json:"bills_included"`

	Available      bool     `json:"available"`
	Photos         []string `json:"photos"`
	AdditionalInfo string   `json:"additional_info,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateAvailabilityRequest toggles a property's availability flag
type UpdateAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// ToResponse converts a property entity to its response shape
func ToResponse(p *Property) *PropertyResponse {
	resp := &PropertyResponse{
		ID:              p.ID,
		LandlordID:      p.LandlordID,
		Name:            p.Name,
		HouseAddress:    p.HouseAddress,
		Locality:        p.Locality,
		City:            p.City,
		County:          p.County,
		Postcode:        p.Postcode,
		Country:         p.Country,
		ComposedAddress: p.ComposedAddress(),
		PropertyType:    p.PropertyType,
		ParkingType:     p.ParkingType,
		Bedrooms:        p.Bedrooms,
		Beds:            p.Beds,
		Bathrooms:       p.Bathrooms,
		MaxOccupancy:    p.MaxOccupancy,
		Amenities: map[string]bool{
			"wifi":            p.Wifi,
			"washing_machine": p.WashingMachine,
			"dryer":           p.Dryer,
			"dishwasher":      p.Dishwasher,
			"microwave":       p.Microwave,
			"smart_tv":        p.SmartTV,
			"garden":          p.Garden,
			"desk_space":      p.DeskSpace,
		},
		Safety: map[string]bool{
			"smoke_alarms":           p.SmokeAlarms,
			"carbon_monoxide_alarm":  p.CarbonMonoxideAlarm,
			"fire_extinguisher":      p.FireExtinguisher,
			"first_aid_kit":          p.FirstAidKit,
			"gas_safety_cert":        p.GasSafetyCert,
			"electrical_safety_cert": p.ElectricalSafetyCert,
		},
		WeeklyRate:    p.WeeklyRate,
		MonthlyRate:   p.MonthlyRate,
		BillsIncluded: p.BillsIncluded,
		Available:     p.Available,
		Photos:        []string(p.Photos),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	if p.AdditionalInfo.Valid {
		resp.AdditionalInfo = p.AdditionalInfo.String
	}
	return resp
}
