package services

import (
	"context"
	"fmt"
	"strings"

	"hrhub/internal/common"
	"hrhub/internal/models"
	"hrhub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const codeCollisionRetries = 50

// SignupService registers a tenant together with its first admin identity.
type SignupService interface {
	Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error)
}

type SignupRequest struct {
	CompanyName   string `json:"company_name"`
	LogoURL       string `json:"logo_url"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

type SignupResult struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	TenantCode  string    `json:"tenant_code"`
	AdminUserID uuid.UUID `json:"admin_user_id"`
	Message     string    `json:"message"`
}

type signupService struct {
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
	otpSvc     OtpService
}

func NewSignupService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository, otpSvc OtpService) SignupService {
	return &signupService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		otpSvc:     otpSvc,
	}
}

// Signup creates the tenant under a collision-free short code, creates the
// admin identity (login id ADMIN-001) and issues the verification code. The
// admin must verify their email before the first login.
func (s *signupService) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	existing, err := s.tenantRepo.GetByNameCI(storeCtx, req.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("failed to check company name: %w", err)
	}
	if existing != nil {
		return nil, common.ErrDuplicateTenant
	}

	tenant, err := s.createTenantWithUniqueCode(ctx, req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		ID:            uuid.New(),
		TenantID:      tenant.ID,
		LoginID:       models.AdminLoginID,
		Email:         strings.ToLower(req.AdminEmail),
		PasswordHash:  string(hash),
		Role:          models.RoleAdmin,
		EmailVerified: false,
		Active:        true,
		FirstLogin:    false,
	}

	userCtx, cancelUser := context.WithTimeout(ctx, storeTimeout)
	defer cancelUser()
	if err := s.userRepo.Create(userCtx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	// Email dispatch failure surfaces to the caller but does not undo the
	// registration; the code stays resendable.
	if err := s.otpSvc.Generate(ctx, admin.Email); err != nil {
		return nil, err
	}

	return &SignupResult{
		TenantID:    tenant.ID,
		TenantCode:  tenant.Code,
		AdminUserID: admin.ID,
		Message:     "Registration successful. Please verify your email with the OTP sent to " + admin.Email,
	}, nil
}

// createTenantWithUniqueCode derives the code from the company name and
// resolves collisions with an increasing integer suffix. The existence probe
// is only a fast path; the tenants.code unique constraint is authoritative,
// and a conflicting insert advances the suffix and retries.
func (s *signupService) createTenantWithUniqueCode(ctx context.Context, req *SignupRequest) (*models.Tenant, error) {
	base := DeriveCompanyCode(req.CompanyName)

	code := base
	suffix := 1
	for attempt := 0; attempt < codeCollisionRetries; attempt++ {
		probeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		exists, err := s.tenantRepo.CodeExists(probeCtx, code)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to check company code: %w", err)
		}
		if exists {
			code = fmt.Sprintf("%s%d", base, suffix)
			suffix++
			continue
		}

		tenant := &models.Tenant{
			ID:     uuid.New(),
			Name:   req.CompanyName,
			Code:   code,
			Active: true,
		}
		if req.LogoURL != "" {
			tenant.LogoURL = &req.LogoURL
		}

		insertCtx, cancelInsert := context.WithTimeout(ctx, storeTimeout)
		err = s.tenantRepo.Create(insertCtx, tenant)
		cancelInsert()
		if err == nil {
			return tenant, nil
		}
		if repositories.IsUniqueViolation(err, "tenants_code_key") {
			code = fmt.Sprintf("%s%d", base, suffix)
			suffix++
			continue
		}
		if repositories.IsUniqueViolation(err, "") {
			// Lost a race on the case-insensitive name index.
			return nil, common.ErrDuplicateTenant
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil, fmt.Errorf("could not allocate a unique company code for %q", req.CompanyName)
}

// DeriveCompanyCode reduces a company name to its short code: uppercase
// initials of each word after stripping non-letters, padded from the first
// word when the result is shorter than two characters. "DEF" stands in when
// the name has no words at all, "GEN" when the assembly comes up empty.
func DeriveCompanyCode(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == ' ' {
			return r
		}
		return -1
	}, name)

	words := strings.Fields(cleaned)

	var b strings.Builder
	if len(words) == 0 {
		b.WriteString("DEF")
	} else {
		for _, word := range words {
			b.WriteByte(word[0])
		}
	}

	if b.Len() < 2 && len(words) > 0 && len(words[0]) > 1 {
		end := len(words[0])
		if end > 3 {
			end = 3
		}
		b.WriteString(words[0][1:end])
	}

	code := strings.ToUpper(b.String())
	if code == "" {
		code = "GEN"
	}
	return code
}
