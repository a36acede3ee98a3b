package repositories

import (
	"context"

	"hrhub/internal/models"

	"github.com/google/uuid"
)

type EmployeeRepository interface {
	// CreateWithProfile persists the user, profile and job details as one
	// transaction. A failure in any insert rolls back the whole unit.
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.EmployeeProfile, job *models.JobDetails) error
	GetProfileByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.EmployeeProfile, error)
	GetJobDetailsByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.JobDetails, error)
}

type employeeRepo struct {
	db Database
}

func NewEmployeeRepo(db Database) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.EmployeeProfile, job *models.JobDetails) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (id, tenant_id, login_id, email, password_hash, role, is_email_verified, is_active, first_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	if _, err := tx.Exec(ctx, userQuery, user.ID, user.TenantID, user.LoginID, user.Email, user.PasswordHash,
		user.Role, user.EmailVerified, user.Active, user.FirstLogin); err != nil {
		return err
	}

	profileQuery := `
		INSERT INTO employee_profiles (id, user_id, tenant_id, first_name, last_name, phone, address, city, state, country, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := tx.Exec(ctx, profileQuery, profile.ID, profile.UserID, profile.TenantID, profile.FirstName, profile.LastName,
		profile.Phone, profile.Address, profile.City, profile.State, profile.Country, profile.ProfilePictureURL); err != nil {
		return err
	}

	jobQuery := `
		INSERT INTO job_details (id, user_id, tenant_id, department, designation, date_of_joining, employee_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.Exec(ctx, jobQuery, job.ID, job.UserID, job.TenantID, job.Department, job.Designation,
		job.DateOfJoining, job.EmployeeStatus); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *employeeRepo) GetProfileByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.EmployeeProfile, error) {
	profile := &models.EmployeeProfile{}
	query := `
		SELECT id, user_id, tenant_id, first_name, last_name, phone, address, city, state, country, profile_picture_url
		FROM employee_profiles
		WHERE tenant_id = $1 AND user_id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, userID).Scan(&profile.ID, &profile.UserID, &profile.TenantID,
		&profile.FirstName, &profile.LastName, &profile.Phone, &profile.Address, &profile.City, &profile.State,
		&profile.Country, &profile.ProfilePictureURL)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *employeeRepo) GetJobDetailsByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*models.JobDetails, error) {
	job := &models.JobDetails{}
	query := `
		SELECT id, user_id, tenant_id, department, designation, date_of_joining, employee_status
		FROM job_details
		WHERE tenant_id = $1 AND user_id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, userID).Scan(&job.ID, &job.UserID, &job.TenantID,
		&job.Department, &job.Designation, &job.DateOfJoining, &job.EmployeeStatus)
	if err != nil {
		return nil, err
	}
	return job, nil
}
