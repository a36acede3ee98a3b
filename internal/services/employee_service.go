package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrhub/internal/common"
	"hrhub/internal/models"
	"hrhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/bcrypt"
)

const (
	tempPasswordLength = 10
	sequenceRetries    = 3
	sequenceRetryDelay = 25 * time.Millisecond
)

// EmployeeService handles admin-initiated staff identity creation.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, admin common.AuthContext, req *CreateEmployeeRequest) (*CreateEmployeeResult, error)
}

type CreateEmployeeRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	Department    string  `json:"department"`
	Designation   *string `json:"designation"`
	DateOfJoining string  `json:"date_of_joining"` // YYYY-MM-DD
}

type CreateEmployeeResult struct {
	UserID            uuid.UUID `json:"user_id"`
	EmployeeID        string    `json:"employee_id"`
	Role              string    `json:"role"`
	TemporaryPassword string    `json:"temporary_password"`
}

type employeeService struct {
	userRepo     repositories.UserRepository
	tenantRepo   repositories.TenantRepository
	sequenceRepo repositories.SequenceRepository
	employeeRepo repositories.EmployeeRepository
}

func NewEmployeeService(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository,
	sequenceRepo repositories.SequenceRepository, employeeRepo repositories.EmployeeRepository) EmployeeService {
	return &employeeService{
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		sequenceRepo: sequenceRepo,
		employeeRepo: employeeRepo,
	}
}

// CreateEmployee allocates a unique employee identifier for the admin's
// tenant and persists the identity, profile and job details as one unit.
// Staff start with a random temporary password and first_login set, which
// forces a change on first use.
func (s *employeeService) CreateEmployee(ctx context.Context, admin common.AuthContext, req *CreateEmployeeRequest) (*CreateEmployeeResult, error) {
	if req.Role == models.RoleAdmin {
		return nil, fmt.Errorf("cannot create another ADMIN user")
	}
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	email := strings.ToLower(req.Email)

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	exists, err := s.userRepo.ExistsByTenantAndEmail(storeCtx, admin.TenantID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateIdentity
	}

	tenant, err := s.tenantRepo.GetByID(storeCtx, admin.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	doj, err := time.Parse("2006-01-02", req.DateOfJoining)
	if err != nil {
		return nil, fmt.Errorf("date_of_joining must be YYYY-MM-DD: %w", err)
	}
	year := doj.Year()

	seq, err := s.nextSequence(ctx, admin.TenantID, year)
	if err != nil {
		return nil, err
	}

	employeeID := fmt.Sprintf("%s-%s%s-%d-%04d",
		tenant.Code,
		strings.ToUpper(req.FirstName[:1]),
		strings.ToUpper(req.LastName[:1]),
		year,
		seq,
	)

	tempPassword := random.String(tempPasswordLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temporary password: %w", err)
	}

	user := &models.User{
		ID:            uuid.New(),
		TenantID:      admin.TenantID,
		LoginID:       employeeID,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          req.Role,
		EmailVerified: true,
		Active:        true,
		FirstLogin:    true,
	}

	profile := &models.EmployeeProfile{
		ID:        uuid.New(),
		UserID:    user.ID,
		TenantID:  admin.TenantID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	job := &models.JobDetails{
		ID:             uuid.New(),
		UserID:         user.ID,
		TenantID:       admin.TenantID,
		Department:     req.Department,
		Designation:    req.Designation,
		DateOfJoining:  doj,
		EmployeeStatus: models.EmployeeStatusActive,
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, storeTimeout)
	defer cancelWrite()
	if err := s.employeeRepo.CreateWithProfile(writeCtx, user, profile, job); err != nil {
		if repositories.IsUniqueViolation(err, "") {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	return &CreateEmployeeResult{
		UserID:            user.ID,
		EmployeeID:        employeeID,
		Role:              user.Role,
		TemporaryPassword: tempPassword,
	}, nil
}

// nextSequence treats allocator timeouts as transient: failing an identifier
// outright is worse than a short retry.
func (s *employeeService) nextSequence(ctx context.Context, tenantID uuid.UUID, year int) (int, error) {
	var lastErr error
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		allocCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		seq, err := s.sequenceRepo.Next(allocCtx, tenantID, year)
		cancel()
		if err == nil {
			return seq, nil
		}
		lastErr = err
		if !errors.Is(err, context.DeadlineExceeded) {
			break
		}
		time.Sleep(sequenceRetryDelay)
	}
	return 0, fmt.Errorf("failed to allocate employee sequence: %w", lastErr)
}
