package repositories

import (
	"context"
	"time"

	"monktrader/internal/models"
)

type OTPRepository interface {
	GetLatestByEmail(ctx context.Context, email string) (*models.OTP, error)
	Create(ctx context.Context, email, code string, now, expiresAt time.Time) error
	Reissue(ctx context.Context, id int64, code string, now, expiresAt time.Time) error
	GetValid(ctx context.Context, email, code string) (*models.OTP, error)
	Invalidate(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type otpRepo struct {
	db Database
}

func NewOTPRepo(db Database) OTPRepository {
	return &otpRepo{db: db}
}

const otpColumns = `id, email, otp, created_at, expires_at, attempt_count, last_sent_at, is_valid`

func (r *otpRepo) GetLatestByEmail(ctx context.Context, email string) (*models.OTP, error) {
	otp := &models.OTP{}
	query := `SELECT ` + otpColumns + ` FROM mt_otps WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	err := r.db.QueryRow(ctx, query, email).Scan(&otp.ID, &otp.Email, &otp.Code, &otp.CreatedAt,
		&otp.ExpiresAt, &otp.AttemptCount, &otp.LastSentAt, &otp.IsValid)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *otpRepo) Create(ctx context.Context, email, code string, now, expiresAt time.Time) error {
	query := `
		INSERT INTO mt_otps (email, otp, created_at, expires_at, attempt_count, last_sent_at, is_valid)
		VALUES ($1, $2, $3, $4, 1, $3, TRUE)
	`
	_, err := r.db.Exec(ctx, query, email, code, now, expiresAt)
	return err
}

func (r *otpRepo) Reissue(ctx context.Context, id int64, code string, now, expiresAt time.Time) error {
	query := `
		UPDATE mt_otps
		SET otp = $1, expires_at = $2, is_valid = TRUE,
		    last_sent_at = $3, attempt_count = attempt_count + 1
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, code, expiresAt, now, id)
	return err
}

func (r *otpRepo) GetValid(ctx context.Context, email, code string) (*models.OTP, error) {
	otp := &models.OTP{}
	query := `
		SELECT ` + otpColumns + `
		FROM mt_otps
		WHERE email = $1 AND otp = $2 AND is_valid = TRUE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, email, code).Scan(&otp.ID, &otp.Email, &otp.Code, &otp.CreatedAt,
		&otp.ExpiresAt, &otp.AttemptCount, &otp.LastSentAt, &otp.IsValid)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *otpRepo) Invalidate(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE mt_otps SET is_valid = FALSE WHERE id = $1`, id)
	return err
}

func (r *otpRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM mt_otps WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
