package models

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeSequence is the per-(tenant, year) counter behind employee
// identifier suffixes. Rows are created lazily and only ever incremented.
type EmployeeSequence struct {
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Year         int       `json:"year" db:"year"`
	CurrentValue int       `json:"current_value" db:"current_value"`
}

const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"
)

type EmployeeProfile struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	TenantID          uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FirstName         string    `json:"first_name" db:"first_name"`
	LastName          string    `json:"last_name" db:"last_name"`
	Phone             *string   `json:"phone" db:"phone"`
	Address           *string   `json:"address" db:"address"`
	City              *string   `json:"city" db:"city"`
	State             *string   `json:"state" db:"state"`
	Country           *string   `json:"country" db:"country"`
	ProfilePictureURL *string   `json:"profile_picture_url" db:"profile_picture_url"`
}

type JobDetails struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	TenantID       uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Department     string    `json:"department" db:"department"`
	Designation    *string   `json:"designation" db:"designation"`
	DateOfJoining  time.Time `json:"date_of_joining" db:"date_of_joining"`
	EmployeeStatus string    `json:"employee_status" db:"employee_status"`
}
