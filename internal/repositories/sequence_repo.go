package repositories

import (
	"context"

	"github.com/google/uuid"
)

type SequenceRepository interface {
	// Next allocates the next value for (tenant, year). The upsert makes the
	// increment a single atomic statement; concurrent callers serialize on
	// the row and can never observe the same value.
	Next(ctx context.Context, tenantID uuid.UUID, year int) (int, error)
}

type sequenceRepo struct {
	db Database
}

func NewSequenceRepo(db Database) SequenceRepository {
	return &sequenceRepo{db: db}
}

func (r *sequenceRepo) Next(ctx context.Context, tenantID uuid.UUID, year int) (int, error) {
	query := `
		INSERT INTO employee_sequences (tenant_id, year, current_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year) DO UPDATE SET current_value = employee_sequences.current_value + 1
		RETURNING current_value
	`
	var value int
	if err := r.db.QueryRow(ctx, query, tenantID, year).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
