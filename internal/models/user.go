package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values are fixed; there is no dynamic role table.
const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

// AdminLoginID is the login id every tenant's first admin account gets.
const AdminLoginID = "ADMIN-001"

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleHR || role == RoleEmployee
}

type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	LoginID       string     `json:"login_id" db:"login_id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Role          string     `json:"role" db:"role"`
	EmailVerified bool       `json:"email_verified" db:"is_email_verified"`
	Active        bool       `json:"active" db:"is_active"`
	FirstLogin    bool       `json:"first_login" db:"first_login"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	LastLogin     *time.Time `json:"last_login" db:"last_login"`
}
