package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"hrhub/internal/caching"
	"hrhub/internal/common"
	"hrhub/internal/models"
	"hrhub/internal/repositories"

	"github.com/google/uuid"
)

const (
	otpLength = 6
	// OtpTTL bounds how long an issued code stays valid. The original data
	// model never expires codes; the TTL is enforced here defensively.
	OtpTTL = 10 * time.Minute

	otpResendLimit  = 3
	otpResendWindow = 5 * time.Minute

	storeTimeout = 5 * time.Second
)

// OtpService manages the one-time email verification codes: a single live
// code per email, resend supersedes, strictly single-use.
type OtpService interface {
	Generate(ctx context.Context, email string) error
	Validate(ctx context.Context, email, code string) error
}

type otpService struct {
	otpRepo  repositories.OTPRepository
	notifier NotificationService
	cacheSvc caching.CacheService
}

func NewOtpService(otpRepo repositories.OTPRepository, notifier NotificationService, cacheSvc caching.CacheService) OtpService {
	return &otpService{
		otpRepo:  otpRepo,
		notifier: notifier,
		cacheSvc: cacheSvc,
	}
}

// Generate issues a fresh code for the email, invalidating any previous
// unconsumed one, and dispatches it through the notifier. A notifier failure
// is reported but leaves the persisted code resendable.
func (s *otpService) Generate(ctx context.Context, email string) error {
	limited, err := s.cacheSvc.IsRateLimited(ctx, "otp:"+email, otpResendLimit, otpResendWindow)
	if err != nil {
		// Rate limiting is advisory; a cache outage must not block verification.
		log.Printf("WARN: otp rate-limit check failed for %s: %v", email, err)
	} else if limited {
		return common.ErrTooManyRequests
	}

	code, err := randomDigits(otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := &models.OTP{
		ID:    uuid.New(),
		Email: email,
		Code:  code,
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.otpRepo.Replace(storeCtx, otp); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.notifier.SendOtpEmail(ctx, email, code); err != nil {
		log.Printf("ERROR: otp email dispatch failed for %s: %v", email, err)
		return fmt.Errorf("%w: %v", common.ErrEmailSendFailure, err)
	}
	return nil
}

// Validate consumes the code. A missing, already-consumed or expired code
// yields ErrInvalidOtp; a code never validates twice.
func (s *otpService) Validate(ctx context.Context, email, code string) error {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	ok, err := s.otpRepo.Consume(storeCtx, email, code, OtpTTL)
	if err != nil {
		return fmt.Errorf("failed to validate otp: %w", err)
	}
	if !ok {
		return common.ErrInvalidOtp
	}
	return nil
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
