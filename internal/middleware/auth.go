package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"hrhub/internal/common"
	"hrhub/internal/repositories"
	"hrhub/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// AuthState classifies what the tenant guard decided for a request. The
// guard never aborts the pipeline; downstream authorization turns a
// non-authenticated state into a uniform rejection.
type AuthState int

const (
	AuthStateUnauthenticated AuthState = iota
	AuthStateTokenInvalid
	AuthStateTokenExpired
	AuthStateTenantViolation
	AuthStateInternalError
	AuthStateAuthenticated
)

// AuthResult is the explicit outcome of the guard, kept on the echo context
// so handlers and tests can distinguish the rejection reasons that clients
// deliberately cannot.
type AuthResult struct {
	State AuthState
	Auth  common.AuthContext
}

const authResultKey = "auth_result"

// AuthResultFrom returns the guard's decision for the request.
func AuthResultFrom(c echo.Context) AuthResult {
	if res, ok := c.Get(authResultKey).(AuthResult); ok {
		return res
	}
	return AuthResult{State: AuthStateUnauthenticated}
}

// TenantGuard validates a bearer token if one is present and binds the
// identity into the request context. A missing or bad credential is not an
// error here: the request proceeds unauthenticated and the role gate
// rejects it later, indistinguishably from "no credential supplied".
//
// The hard tenant check compares the token's tenant claim against the
// tenant the identity actually belongs to, so a syntactically valid token
// pointing at stale tenant membership never grants access.
func TenantGuard(tokenSvc services.TokenService, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set(authResultKey, AuthResult{State: AuthStateUnauthenticated})
				return next(c)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				c.Set(authResultKey, AuthResult{State: AuthStateTokenInvalid})
				return next(c)
			}

			claims, err := tokenSvc.Validate(tokenString)
			if err != nil {
				state := AuthStateTokenInvalid
				if errors.Is(err, common.ErrTokenExpired) {
					state = AuthStateTokenExpired
				}
				c.Set(authResultKey, AuthResult{State: state})
				return next(c)
			}

			userID, err := claims.UserID()
			if err != nil {
				c.Set(authResultKey, AuthResult{State: AuthStateTokenInvalid})
				return next(c)
			}
			claimedTenant, err := claims.Tenant()
			if err != nil {
				c.Set(authResultKey, AuthResult{State: AuthStateTokenInvalid})
				return next(c)
			}

			user, err := userRepo.GetByID(c.Request().Context(), userID)
			if errors.Is(err, pgx.ErrNoRows) {
				c.Set(authResultKey, AuthResult{State: AuthStateUnauthenticated})
				return next(c)
			}
			if err != nil {
				log.Printf("ERROR: tenant guard user lookup failed: %v", err)
				c.Set(authResultKey, AuthResult{State: AuthStateInternalError})
				return next(c)
			}

			if user.TenantID != claimedTenant {
				log.Printf("WARN: tenant violation for user %s: token tenant=%s, actual tenant=%s",
					userID, claimedTenant, user.TenantID)
				c.Set(authResultKey, AuthResult{State: AuthStateTenantViolation})
				return next(c)
			}

			if !user.Active {
				c.Set(authResultKey, AuthResult{State: AuthStateUnauthenticated})
				return next(c)
			}

			auth := common.AuthContext{
				UserID:   user.ID,
				TenantID: user.TenantID,
				Role:     user.Role,
			}
			c.Set(authResultKey, AuthResult{State: AuthStateAuthenticated, Auth: auth})
			c.SetRequest(c.Request().WithContext(common.WithAuth(c.Request().Context(), auth)))

			return next(c)
		}
	}
}

// RequireAuth rejects requests the guard left unauthenticated. The payload
// is identical regardless of why the credential was rejected.
func RequireAuth() echo.MiddlewareFunc {
	return RequireRole()
}

// RequireRole rejects unauthenticated requests with 401 and authenticated
// ones whose role is not in the allow list with 403. An empty list means
// any authenticated identity.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := AuthResultFrom(c)
			if res.State != AuthStateAuthenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, role := range roles {
				if res.Auth.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
	}
}
