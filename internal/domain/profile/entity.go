package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Landlord represents a property owner, "partner" in the staff UI
// (matches landlords table).
type Landlord struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Email       string         `db:"email"`
	Phone       sql.NullString `db:"phone"`
	CompanyName sql.NullString `db:"company_name"`
	City        sql.NullString `db:"city"`
	Postcode    sql.NullString `db:"postcode"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Contractor represents an accommodation requester, "client" in the staff
// UI (matches contractors table).
type Contractor struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Email       string         `db:"email"`
	Phone       sql.NullString `db:"phone"`
	CompanyName sql.NullString `db:"company_name"`
	City        sql.NullString `db:"city"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
