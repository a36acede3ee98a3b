package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hrhub/internal/caching"
	"hrhub/internal/common"
	"hrhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

// AuthService drives the identity lifecycle: login, email verification and
// OTP resend.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	VerifyOtp(ctx context.Context, email, code string) error
	ResendOtp(ctx context.Context, email string) error
}

type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	LoginID  string    `json:"login_id"`
	Password string    `json:"password"`
}

type LoginResult struct {
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
	VerificationPending bool      `json:"verification_pending"`
	Token               string    `json:"token,omitempty"`
	Role                string    `json:"role,omitempty"`
	TenantID            uuid.UUID `json:"tenant_id"`
	FirstLogin          bool      `json:"first_login"`
}

type authService struct {
	userRepo repositories.UserRepository
	tokenSvc TokenService
	otpSvc   OtpService
	cacheSvc caching.CacheService
}

func NewAuthService(userRepo repositories.UserRepository, tokenSvc TokenService, otpSvc OtpService, cacheSvc caching.CacheService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		otpSvc:   otpSvc,
		cacheSvc: cacheSvc,
	}
}

// Login authenticates by (tenant, login id). Unknown login, inactive account
// and wrong password all produce the same ErrInvalidCredentials so the
// response cannot be used as an enumeration oracle. An unverified identity
// gets a fresh OTP and no token.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	limitKey := fmt.Sprintf("login:%s:%s", req.TenantID, req.LoginID)
	limited, err := s.cacheSvc.IsRateLimited(ctx, limitKey, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		log.Printf("WARN: login rate-limit check failed: %v", err)
	} else if limited {
		return nil, common.ErrTooManyRequests
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.userRepo.GetByTenantAndLoginID(storeCtx, req.TenantID, req.LoginID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Active {
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		if err := s.otpSvc.Generate(ctx, user.Email); err != nil {
			return nil, err
		}
		return &LoginResult{
			Success:             true,
			Message:             "Email not verified. A verification code has been sent to " + user.Email,
			VerificationPending: true,
			TenantID:            user.TenantID,
		}, nil
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Not worth failing the login over.
		log.Printf("WARN: failed to update last login for %s: %v", user.ID, err)
	}

	token, err := s.tokenSvc.Issue(user.ID, user.TenantID, user.Role, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		Success:    true,
		Message:    "Login successful",
		Token:      token,
		Role:       user.Role,
		TenantID:   user.TenantID,
		FirstLogin: user.FirstLogin,
	}, nil
}

// VerifyOtp consumes the code and marks the identity's email as verified.
func (s *authService) VerifyOtp(ctx context.Context, email, code string) error {
	if err := s.otpSvc.Validate(ctx, email, code); err != nil {
		return err
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(storeCtx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return common.ErrUserNotFound
	}

	if err := s.userRepo.MarkEmailVerified(storeCtx, email); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}

// ResendOtp issues a fresh code, superseding the previous one. A verified
// identity is rejected distinctly from a missing one.
func (s *authService) ResendOtp(ctx context.Context, email string) error {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(storeCtx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return common.ErrUserNotFound
	}
	if user.EmailVerified {
		return common.ErrEmailAlreadyVerified
	}

	return s.otpSvc.Generate(ctx, user.Email)
}
