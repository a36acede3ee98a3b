package repositories

import (
	"context"
	"errors"

	"hrhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByNameCI(ctx context.Context, name string) (*models.Tenant, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error
}

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, code, logo_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, tenant.ID, tenant.Name, tenant.Code, tenant.LogoURL, tenant.Active)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, name, code, logo_url, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&tenant.ID, &tenant.Name, &tenant.Code, &tenant.LogoURL, &tenant.Active, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) GetByNameCI(ctx context.Context, name string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, name, code, logo_url, is_active, created_at, updated_at
		FROM tenants
		WHERE LOWER(name) = LOWER($1)
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&tenant.ID, &tenant.Name, &tenant.Code, &tenant.LogoURL, &tenant.Active, &tenant.CreatedAt, &tenant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM tenants WHERE code = $1`
	if err := r.db.QueryRow(ctx, query, code).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tenantRepo) UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error {
	query := `UPDATE tenants SET logo_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, logoURL, id)
	return err
}
