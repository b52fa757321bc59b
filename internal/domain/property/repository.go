package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines property data access interface
type Repository interface {
	List(ctx context.Context) ([]Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]Property, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type repository struct{ db *sqlx.DB }

// NewRepository creates property repository
func NewRepository(db *sqlx.DB) Repository { return &repository{db: db} }

const propertyColumns = `id, landlord_id, name,
	house_address, locality, city, county, postcode, country, full_address,
	property_type, parking_type,
	bedrooms, beds, bathrooms, max_occupancy,
	wifi, washing_machine, dryer, dishwasher, microwave, smart_tv, garden, desk_space,
	smoke_alarms, carbon_monoxide_alarm, fire_extinguisher, first_aid_kit, gas_safety_cert, electrical_safety_cert,
	weekly_rate, monthly_rate, bills_included,
	available, photos, additional_info,
	created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC`
	properties := []Property{}
	if err := r.db.SelectContext(ctx, &properties, q); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return properties, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	var p Property
	err := r.db.GetContext(ctx, &p, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}

func (r *repository) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE landlord_id = $1 ORDER BY created_at DESC`
	properties := []Property{}
	if err := r.db.SelectContext(ctx, &properties, q, landlordID); err != nil {
		return nil, fmt.Errorf("list landlord properties: %w", err)
	}
	return properties, nil
}

func (r *repository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	q := `UPDATE properties SET available = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, available, id)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
