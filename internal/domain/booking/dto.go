package booking

import (
	"time"

	"github.com/google/uuid"
)

// UpdateStatusRequest for triaging a booking request
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// RequestDetailResponse returns one booking request with all its dates
type RequestDetailResponse struct {
	ID              uuid.UUID     `json:"id"`
	ContractorName  string        `json:"contractor_name"`
	ContractorEmail string        `json:"contractor_email"`
	ContractorPhone string        `json:"contractor_phone"`
	CompanyName     string        `json:"company_name"`
	Postcode        string        `json:"postcode"`
	City            string        `json:"city"`
	TeamSize        int           `json:"team_size"`
	BudgetBand      string        `json:"budget_band"`
	Status          string        `json:"status"`
	Dates           []BookingDate `json:"dates"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func toRequestDetail(req *BookingRequest, dates []BookingDate) *RequestDetailResponse {
	if dates == nil {
		dates = []BookingDate{}
	}
	return &RequestDetailResponse{
		ID:              req.ID,
		ContractorName:  req.ContractorName,
		ContractorEmail: req.ContractorEmail,
		ContractorPhone: req.ContractorPhone,
		CompanyName:     req.CompanyName,
		Postcode:        req.Postcode,
		City:            req.City,
		TeamSize:        req.TeamSize,
		BudgetBand:      req.BudgetBand,
		Status:          req.Status,
		Dates:           dates,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
}
