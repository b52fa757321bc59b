package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const sqlStateUndefinedTable = "42P01"

// Shape tags which upstream schema produced a batch
type Shape int

const (
	// ShapeRequests is the current booking_requests + booking_dates schema
	ShapeRequests Shape = iota
	// ShapeLegacy is the old flat bookings table
	ShapeLegacy
)

// RawBatch is the result of one directory fetch. Exactly one of Requests
// or Legacy is populated, according to Shape.
type RawBatch struct {
	Shape    Shape
	Requests []BookingRequest
	Legacy   []LegacyBooking
}

// Source pulls raw booking rows from whichever schema the store has
type Source interface {
	Fetch(ctx context.Context) (*RawBatch, error)
}

// ---- Current schema ----

type requestSource struct{ db *sqlx.DB }

// NewRequestSource reads the booking_requests + booking_dates schema
func NewRequestSource(db *sqlx.DB) Source { return &requestSource{db: db} }

type requestRow struct {
	BookingRequest
	JoinedName  sql.NullString `db:"joined_name"`
	JoinedEmail sql.NullString `db:"joined_email"`
	JoinedPhone sql.NullString `db:"joined_phone"`
}

type dateRow struct {
	BookingDate
	PropertyID       uuid.NullUUID  `db:"property_id"`
	PropertyName     sql.NullString `db:"property_name"`
	PropertyPostcode sql.NullString `db:"property_postcode"`
	PropertyCity     sql.NullString `db:"property_city"`
}

func (s *requestSource) Fetch(ctx context.Context) (*RawBatch, error) {
	q := `SELECT r.id, r.contractor_id, r.contractor_name, r.contractor_email, r.contractor_phone,
		r.company_name, r.postcode, r.city, r.team_size, r.budget_band, r.status,
		r.created_at, r.updated_at,
		c.name AS joined_name, c.email AS joined_email, c.phone AS joined_phone
	FROM booking_requests r
	LEFT JOIN contractors c ON c.id = r.contractor_id
	ORDER BY r.created_at DESC`

	rows := []requestRow{}
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("fetch booking requests: %w", err)
	}

	requests := make([]BookingRequest, 0, len(rows))
	byID := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		req := row.BookingRequest
		if row.JoinedName.Valid {
			req.Contractor = &Contact{
				Name:  row.JoinedName.String,
				Email: row.JoinedEmail.String,
				Phone: row.JoinedPhone.String,
			}
		}
		byID[req.ID] = len(requests)
		requests = append(requests, req)
	}

	dq := `SELECT d.id, d.request_id, d.start_date, d.end_date, d.status,
		d.booked_property_id, d.assigned_property_id, d.created_at,
		p.id AS property_id, p.name AS property_name,
		p.postcode AS property_postcode, p.city AS property_city
	FROM booking_dates d
	LEFT JOIN properties p ON p.id = d.booked_property_id
	ORDER BY d.created_at ASC`

	dateRows := []dateRow{}
	if err := s.db.SelectContext(ctx, &dateRows, dq); err != nil {
		return nil, fmt.Errorf("fetch booking dates: %w", err)
	}

	for _, row := range dateRows {
		idx, ok := byID[row.RequestID]
		if !ok {
			continue
		}
		date := row.BookingDate
		if row.PropertyID.Valid {
			date.Property = &PropertyRef{
				ID:       row.PropertyID.UUID,
				Name:     row.PropertyName.String,
				Postcode: row.PropertyPostcode.String,
				City:     row.PropertyCity.String,
			}
		}
		requests[idx].Dates = append(requests[idx].Dates, date)
	}

	return &RawBatch{Shape: ShapeRequests, Requests: requests}, nil
}

// ---- Legacy schema ----

type legacySource struct{ db *sqlx.DB }

// NewLegacySource reads the old flat bookings table
func NewLegacySource(db *sqlx.DB) Source { return &legacySource{db: db} }

func (s *legacySource) Fetch(ctx context.Context) (*RawBatch, error) {
	q := `SELECT id, contractor_name, contractor_email, contractor_phone, company_name,
		postcode, city, team_size, budget_band, status, start_date, end_date,
		assigned_property_id, created_at, updated_at
	FROM bookings
	ORDER BY created_at DESC`

	rows := []LegacyBooking{}
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("fetch legacy bookings: %w", err)
	}

	return &RawBatch{Shape: ShapeLegacy, Legacy: rows}, nil
}

// ---- Capability probing ----

type probingSource struct {
	requests Source
	legacy   Source

	mu        sync.Mutex
	useLegacy bool
}

// NewProbingSource tries the current schema first and latches onto the
// legacy table once the store reports the relation missing. Transient
// errors fall back for the current fetch only, without latching.
func NewProbingSource(requests, legacy Source) Source {
	return &probingSource{requests: requests, legacy: legacy}
}

func (s *probingSource) Fetch(ctx context.Context) (*RawBatch, error) {
	s.mu.Lock()
	useLegacy := s.useLegacy
	s.mu.Unlock()

	if !useLegacy {
		batch, err := s.requests.Fetch(ctx)
		if err == nil {
			return batch, nil
		}
		if isUndefinedTable(err) {
			s.mu.Lock()
			s.useLegacy = true
			s.mu.Unlock()
			log.Info().Msg("Booking request schema missing, switching to legacy bookings table")
		} else {
			log.Warn().Err(err).Msg("Booking request query failed, trying legacy bookings table")
		}
	}

	return s.legacy.Fetch(ctx)
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == sqlStateUndefinedTable
}
