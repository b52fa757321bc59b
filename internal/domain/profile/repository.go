package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LandlordRepository defines landlord profile data access interface
type LandlordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Landlord, error)
	List(ctx context.Context, limit, offset int) ([]*Landlord, int, error)
}

// ContractorRepository defines contractor profile data access interface
type ContractorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Contractor, error)
	List(ctx context.Context, limit, offset int) ([]*Contractor, int, error)
}

// ---- LANDLORD REPOSITORY ----

type landlordRepository struct{ db *sqlx.DB }

// NewLandlordRepository creates landlord repository
func NewLandlordRepository(db *sqlx.DB) LandlordRepository { return &landlordRepository{db: db} }

const landlordColumns = `id, name, email, phone, company_name, city, postcode, created_at, updated_at`

func (r *landlordRepository) GetByID(ctx context.Context, id uuid.UUID) (*Landlord, error) {
	q := `SELECT ` + landlordColumns + ` FROM landlords WHERE id = $1`
	var l Landlord
	err := r.db.GetContext(ctx, &l, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get landlord: %w", err)
	}
	return &l, nil
}

func (r *landlordRepository) List(ctx context.Context, limit, offset int) ([]*Landlord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM landlords`); err != nil {
		return nil, 0, fmt.Errorf("count landlords: %w", err)
	}

	q := `SELECT ` + landlordColumns + ` FROM landlords ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	landlords := []*Landlord{}
	if err := r.db.SelectContext(ctx, &landlords, q, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list landlords: %w", err)
	}
	return landlords, total, nil
}

// ---- CONTRACTOR REPOSITORY ----

type contractorRepository struct{ db *sqlx.DB }

// NewContractorRepository creates contractor repository
func NewContractorRepository(db *sqlx.DB) ContractorRepository { return &contractorRepository{db: db} }

const contractorColumns = `id, name, email, phone, company_name, city, created_at, updated_at`

func (r *contractorRepository) GetByID(ctx context.Context, id uuid.UUID) (*Contractor, error) {
	q := `SELECT ` + contractorColumns + ` FROM contractors WHERE id = $1`
	var c Contractor
	err := r.db.GetContext(ctx, &c, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contractor: %w", err)
	}
	return &c, nil
}

func (r *contractorRepository) List(ctx context.Context, limit, offset int) ([]*Contractor, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contractors`); err != nil {
		return nil, 0, fmt.Errorf("count contractors: %w", err)
	}

	q := `SELECT ` + contractorColumns + ` FROM contractors ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	contractors := []*Contractor{}
	if err := r.db.SelectContext(ctx, &contractors, q, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list contractors: %w", err)
	}
	return contractors, total, nil
}
