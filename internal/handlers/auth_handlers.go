package handlers

import (
	"log"
	"net/http"

	"hrhub/internal/common"
	"hrhub/internal/repositories"
	"hrhub/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, login and email verification requests.
type AuthHandlers struct {
	signupSvc    services.SignupService
	authSvc      services.AuthService
	userRepo     repositories.UserRepository
	employeeRepo repositories.EmployeeRepository
}

func NewAuthHandlers(signupSvc services.SignupService, authSvc services.AuthService,
	userRepo repositories.UserRepository, employeeRepo repositories.EmployeeRepository) *AuthHandlers {
	return &AuthHandlers{
		signupSvc:    signupSvc,
		authSvc:      authSvc,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
	}
}

// Signup registers a company together with its admin account.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req services.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	violations := common.Violations{}
	common.ValidateRequiredString(violations, req.CompanyName, "company_name")
	common.ValidateEmail(violations, req.AdminEmail, "admin_email")
	common.ValidatePassword(violations, req.AdminPassword, "admin_password")
	if !violations.Empty() {
		return common.SendValidationError(c, violations)
	}

	result, err := h.signupSvc.Signup(c.Request().Context(), &req)
	if err != nil {
		log.Printf("signup failed for %q: %v", req.CompanyName, err)
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

type loginPayload struct {
	TenantID string `json:"tenant_id"`
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// Login authenticates by (tenant, login id). Unverified identities get a
// verification-pending response without a token.
func (h *AuthHandlers) Login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	violations := common.Violations{}
	common.ValidateRequiredString(violations, payload.LoginID, "login_id")
	common.ValidateRequiredString(violations, payload.Password, "password")
	tenantID, err := common.ValidateUUID(payload.TenantID, "tenant_id")
	if err != nil {
		violations.Add("tenant_id", err.Error())
	}
	if !violations.Empty() {
		return common.SendValidationError(c, violations)
	}

	result, err := h.authSvc.Login(c.Request().Context(), &services.LoginRequest{
		TenantID: tenantID,
		LoginID:  payload.LoginID,
		Password: payload.Password,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type otpPayload struct {
	Email string `json:"email"`
	Code  string `json:"otp_code"`
}

// VerifyOtp consumes a verification code and marks the email verified.
func (h *AuthHandlers) VerifyOtp(c echo.Context) error {
	var payload otpPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	violations := common.Violations{}
	common.ValidateEmail(violations, payload.Email, "email")
	common.ValidateRequiredString(violations, payload.Code, "otp_code")
	if !violations.Empty() {
		return common.SendValidationError(c, violations)
	}

	if err := h.authSvc.VerifyOtp(c.Request().Context(), payload.Email, payload.Code); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email verification successful. You can now log in.",
	})
}

type resendPayload struct {
	Email string `json:"email"`
}

// ResendOtp issues a fresh code, superseding any previous one.
func (h *AuthHandlers) ResendOtp(c echo.Context) error {
	var payload resendPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	violations := common.Violations{}
	common.ValidateEmail(violations, payload.Email, "email")
	if !violations.Empty() {
		return common.SendValidationError(c, violations)
	}

	if err := h.authSvc.ResendOtp(c.Request().Context(), payload.Email); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "OTP sent successfully to " + payload.Email,
	})
}

// Me returns the authenticated identity, plus profile and job details for
// staff accounts. Admin accounts carry no employee profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	auth, ok := common.GetAuthFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.userRepo.GetByID(ctx, auth.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	response := map[string]interface{}{"user": user}
	if profile, err := h.employeeRepo.GetProfileByUserID(ctx, auth.TenantID, auth.UserID); err == nil {
		response["profile"] = profile
	}
	if job, err := h.employeeRepo.GetJobDetailsByUserID(ctx, auth.TenantID, auth.UserID); err == nil {
		response["job_details"] = job
	}
	return c.JSON(http.StatusOK, response)
}
