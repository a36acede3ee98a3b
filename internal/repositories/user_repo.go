package repositories

import (
	"context"
	"errors"

	"hrhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, tenant_id, login_id, email, password_hash, role, is_email_verified, is_active, first_login, created_at, last_login`

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTenantAndLoginID(ctx context.Context, tenantID uuid.UUID, loginID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByTenantAndEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	MarkEmailVerified(ctx context.Context, email string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.TenantID, &user.LoginID, &user.Email, &user.PasswordHash,
		&user.Role, &user.EmailVerified, &user.Active, &user.FirstLogin, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, tenant_id, login_id, email, password_hash, role, is_email_verified, is_active, first_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.TenantID, user.LoginID, user.Email, user.PasswordHash,
		user.Role, user.EmailVerified, user.Active, user.FirstLogin)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByTenantAndLoginID(ctx context.Context, tenantID uuid.UUID, loginID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND login_id = $2`
	return scanUser(r.db.QueryRow(ctx, query, tenantID, loginID))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) ExistsByTenantAndEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND email = $2`
	if err := r.db.QueryRow(ctx, query, tenantID, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, email string) error {
	query := `UPDATE users SET is_email_verified = TRUE WHERE email = $1`
	_, err := r.db.Exec(ctx, query, email)
	return err
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
