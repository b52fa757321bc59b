// Package queue publishes domain events to the message broker.
package queue

// AssignmentConfirmedEvent is published when the platform accepts a
// property assignment. It carries enough for downstream consumers
// (notifications, analytics) without querying the booking store.
type AssignmentConfirmedEvent struct {
	RequestID    string `json:"request_id"`
	DateID       string `json:"date_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	Postcode     string `json:"postcode"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CompanyName  string `json:"company_name"`
	TeamSize     int    `json:"team_size"`
	ConfirmedAt  string `json:"confirmed_at"`
}
