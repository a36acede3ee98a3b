package common

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Violations collects field-level validation failures for a single request.
type Violations map[string]string

func (v Violations) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v Violations) Empty() bool { return len(v) == 0 }

// ValidateRequiredString validates required string fields
func ValidateRequiredString(v Violations, value, field string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("%s is required", field))
	}
}

// ValidateEmail validates email syntax on top of presence.
func ValidateEmail(v Violations, value, field string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("%s is required", field))
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.Add(field, fmt.Sprintf("%s must be a valid email address", field))
	}
}

// ValidatePassword enforces the minimum credential length.
func ValidatePassword(v Violations, value, field string) {
	if len(value) < 6 {
		v.Add(field, fmt.Sprintf("%s must be at least 6 characters", field))
	}
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, field string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", field)
	}
	return id, nil
}

// ValidateDate parses YYYY-MM-DD dates with sane bounds.
func ValidateDate(v Violations, value, field string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("%s is required", field))
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		v.Add(field, fmt.Sprintf("%s must be in YYYY-MM-DD format", field))
		return time.Time{}, false
	}
	if date.After(time.Now().AddDate(1, 0, 0)) {
		v.Add(field, fmt.Sprintf("%s cannot be more than a year in the future", field))
		return time.Time{}, false
	}
	if date.Before(time.Now().AddDate(-100, 0, 0)) {
		v.Add(field, fmt.Sprintf("%s cannot be more than 100 years ago", field))
		return time.Time{}, false
	}
	return date, true
}
