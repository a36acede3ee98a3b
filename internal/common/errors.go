package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Client-facing failure kinds. Everything outside this set is treated as
// internal: logged in full, surfaced generically.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTenantViolation      = errors.New("tenant violation detected")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidOtp           = errors.New("otp is not valid")
	ErrEmailAlreadyVerified = errors.New("email is already verified")
	ErrDuplicateTenant      = errors.New("company already exists")
	ErrDuplicateIdentity    = errors.New("user with this email already exists in this company")
	ErrEmailSendFailure     = errors.New("failed to send the email")
	ErrTooManyRequests      = errors.New("too many requests")
)

// ErrorResponse is the structured payload returned for every recognized
// client-facing failure.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Authentication Failed"
	case errors.Is(err, ErrTenantViolation):
		return http.StatusUnauthorized, "Authentication Failed"
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication Failed"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "User Not Found"
	case errors.Is(err, ErrInvalidOtp):
		return http.StatusBadRequest, "OTP Validation Failed"
	case errors.Is(err, ErrEmailAlreadyVerified):
		return http.StatusConflict, "Email Already Verified"
	case errors.Is(err, ErrDuplicateTenant), errors.Is(err, ErrDuplicateIdentity):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "Too Many Requests"
	case errors.Is(err, ErrEmailSendFailure):
		return http.StatusInternalServerError, "Failed To Send the Email or Otp"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// SendError maps err onto the taxonomy and writes the structured payload.
// Unrecognized errors must be logged by the caller before reaching here;
// only a generic message leaves the process.
func SendError(c echo.Context, err error) error {
	status, reason := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, ErrEmailSendFailure) {
		msg = "operation could not be completed"
	}
	return c.JSON(status, &ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     reason,
		Message:   msg,
		Path:      c.Request().URL.Path,
	})
}

// SendValidationError reports field-level violations collected by the
// explicit validators in validate.go.
func SendValidationError(c echo.Context, violations map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"timestamp": time.Now(),
		"status":    http.StatusBadRequest,
		"error":     "Validation Failed",
		"fields":    violations,
		"path":      c.Request().URL.Path,
	})
}
