package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP is a one-time email verification code. At most one unconsumed row
// exists per email; issuing a new code replaces the previous one.
type OTP struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Email    string    `json:"email" db:"email"`
	Code     string    `json:"-" db:"code"` // Never serialize in JSON
	Consumed bool      `json:"consumed" db:"consumed"`
	IssuedAt time.Time `json:"issued_at" db:"issued_at"`
}
