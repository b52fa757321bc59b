package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines lookups against the current booking schema. The
// directory itself reads through a Source; these point reads serve the
// assignment workflow and request triage.
type Repository interface {
	RequestByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error)
	DateByID(ctx context.Context, id uuid.UUID) (*BookingDate, error)
	DatesByRequest(ctx context.Context, requestID uuid.UUID) ([]BookingDate, error)
	FirstDateByRequest(ctx context.Context, requestID uuid.UUID) (*BookingDate, error)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error
}

type repository struct{ db *sqlx.DB }

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository { return &repository{db: db} }

const requestColumns = `id, contractor_id, contractor_name, contractor_email, contractor_phone,
	company_name, postcode, city, team_size, budget_band, status, created_at, updated_at`

const dateColumns = `id, request_id, start_date, end_date, status,
	booked_property_id, assigned_property_id, created_at`

func (r *repository) RequestByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM booking_requests WHERE id = $1`
	var req BookingRequest
	err := r.db.GetContext(ctx, &req, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking request: %w", err)
	}
	return &req, nil
}

func (r *repository) DateByID(ctx context.Context, id uuid.UUID) (*BookingDate, error) {
	q := `SELECT ` + dateColumns + ` FROM booking_dates WHERE id = $1`
	var d BookingDate
	err := r.db.GetContext(ctx, &d, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking date: %w", err)
	}
	return &d, nil
}

func (r *repository) DatesByRequest(ctx context.Context, requestID uuid.UUID) ([]BookingDate, error) {
	q := `SELECT ` + dateColumns + ` FROM booking_dates WHERE request_id = $1 ORDER BY created_at ASC`
	dates := []BookingDate{}
	if err := r.db.SelectContext(ctx, &dates, q, requestID); err != nil {
		return nil, fmt.Errorf("list booking dates: %w", err)
	}
	return dates, nil
}

func (r *repository) FirstDateByRequest(ctx context.Context, requestID uuid.UUID) (*BookingDate, error) {
	q := `SELECT ` + dateColumns + ` FROM booking_dates WHERE request_id = $1 ORDER BY created_at ASC LIMIT 1`
	var d BookingDate
	err := r.db.GetContext(ctx, &d, q, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get first booking date: %w", err)
	}
	return &d, nil
}

func (r *repository) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	q := `UPDATE booking_requests SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRequestNotFound
	}
	return nil
}
