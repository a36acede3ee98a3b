package handlers

import (
	"net/http"

	"hrhub/internal/common"
	"hrhub/internal/models"
	"hrhub/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers covers admin-only identity management.
type AdminHandlers struct {
	employeeSvc services.EmployeeService
}

func NewAdminHandlers(employeeSvc services.EmployeeService) *AdminHandlers {
	return &AdminHandlers{employeeSvc: employeeSvc}
}

// CreateEmployee provisions an HR or employee identity inside the caller's
// tenant. The tenant comes from the authenticated admin, never the payload.
func (h *AdminHandlers) CreateEmployee(c echo.Context) error {
	ctx := c.Request().Context()

	auth, ok := common.GetAuthFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req services.CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	violations := common.Violations{}
	common.ValidateRequiredString(violations, req.FirstName, "first_name")
	common.ValidateRequiredString(violations, req.LastName, "last_name")
	common.ValidateEmail(violations, req.Email, "email")
	common.ValidateRequiredString(violations, req.Department, "department")
	common.ValidateDate(violations, req.DateOfJoining, "date_of_joining")
	if req.Role != models.RoleHR && req.Role != models.RoleEmployee {
		violations.Add("role", "role must be HR or EMPLOYEE")
	}
	if !violations.Empty() {
		return common.SendValidationError(c, violations)
	}

	result, err := h.employeeSvc.CreateEmployee(ctx, auth, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}
