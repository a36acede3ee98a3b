package repositories

import (
	"context"
	"errors"
	"time"

	"hrhub/internal/models"

	"github.com/jackc/pgx/v5"
)

type OTPRepository interface {
	// Replace atomically removes any live code for the email and stores the
	// new one, so a superseded code can never validate after a resend.
	Replace(ctx context.Context, otp *models.OTP) error
	// Consume marks the matching unconsumed, unexpired code as used.
	// Returns false when no such code exists; expiry and single-use are
	// decided inside one statement so concurrent attempts cannot both win.
	Consume(ctx context.Context, email, code string, ttl time.Duration) (bool, error)
	DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

type otpRepo struct {
	db Database
}

func NewOTPRepo(db Database) OTPRepository {
	return &otpRepo{db: db}
}

func (r *otpRepo) Replace(ctx context.Context, otp *models.OTP) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM otps WHERE email = $1`, otp.Email); err != nil {
		return err
	}
	query := `
		INSERT INTO otps (id, email, code, consumed, issued_at)
		VALUES ($1, $2, $3, FALSE, NOW())
	`
	if _, err := tx.Exec(ctx, query, otp.ID, otp.Email, otp.Code); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *otpRepo) Consume(ctx context.Context, email, code string, ttl time.Duration) (bool, error) {
	query := `
		UPDATE otps
		SET consumed = TRUE
		WHERE email = $1 AND code = $2 AND consumed = FALSE AND issued_at > NOW() - $3::interval
		RETURNING id
	`
	var id string
	err := r.db.QueryRow(ctx, query, email, code, ttl.String()).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *otpRepo) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	query := `DELETE FROM otps WHERE consumed = TRUE OR issued_at <= NOW() - $1::interval`
	tag, err := r.db.Exec(ctx, query, ttl.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
