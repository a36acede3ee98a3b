package services

import (
	"errors"
	"time"

	"hrhub/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and validates the tenant-scoped session tokens. One
// HS256 signing key is configured at startup; there is no rotation or
// revocation mechanism.
type TokenService interface {
	Issue(userID, tenantID uuid.UUID, role, email string) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// SessionClaims are the signed fields embedded in a session token.
type SessionClaims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Tenant parses the tenant claim.
func (c *SessionClaims) Tenant() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl}
}

func (s *tokenService) Issue(userID, tenantID uuid.UUID, role, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		TenantID: tenantID.String(),
		Role:     role,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
