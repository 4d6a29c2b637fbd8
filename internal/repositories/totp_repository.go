package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TOTPRepository struct {
	DB *pgxpool.Pool
}

func NewTOTPRepository(db *pgxpool.Pool) *TOTPRepository {
	return &TOTPRepository{DB: db}
}

func (r *TOTPRepository) RecordAttempt(ctx context.Context, userID int, ip string, success bool) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO totp_verification_attempts(user_id, ip_address, success)
         VALUES($1, $2, $3)`, userID, ip, success)
	return err
}

// CountRecentFailures counts failed attempts within the window, used to
// lock out brute forcing of the 6-digit code.
func (r *TOTPRepository) CountRecentFailures(ctx context.Context, userID int, window time.Duration) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM totp_verification_attempts
         WHERE user_id=$1 AND success=false AND created_at > $2`,
		userID, time.Now().Add(-window)).Scan(&count)
	return count, err
}

// PruneOld deletes attempt rows older than the retention period.
func (r *TOTPRepository) PruneOld(ctx context.Context, retention time.Duration) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM totp_verification_attempts WHERE created_at < $1`,
		time.Now().Add(-retention))
	return err
}
