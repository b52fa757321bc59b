package profile

import (
	"time"

	"github.com/google/uuid"
)

// LandlordResponse is the staff-facing landlord projection
type LandlordResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	City        string    `json:"city,omitempty"`
	Postcode    string    `json:"postcode,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContractorResponse is the staff-facing contractor projection
type ContractorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	City        string    `json:"city,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToLandlordResponse converts a landlord entity to its response shape
func ToLandlordResponse(l *Landlord) *LandlordResponse {
	return &LandlordResponse{
		ID:          l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone.String,
		CompanyName: l.CompanyName.String,
		City:        l.City.String,
		Postcode:    l.Postcode.String,
		CreatedAt:   l.CreatedAt,
	}
}

// ToContractorResponse converts a contractor entity to its response shape
func ToContractorResponse(c *Contractor) *ContractorResponse {
	return &ContractorResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone.String,
		CompanyName: c.CompanyName.String,
		City:        c.City.String,
		CreatedAt:   c.CreatedAt,
	}
}
