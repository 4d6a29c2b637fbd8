package repositories

import (
	"context"

	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

// RecordUserLogin logs an admin or operator login.
func (r *LoginLogRepository) RecordUserLogin(ctx context.Context, userID int, ip, userAgent string) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO login_logs(user_id, ip_address, user_agent)
         VALUES($1, NULLIF($2,''), NULLIF($3,'')) RETURNING id`,
		userID, ip, userAgent).Scan(&id)
	return id, err
}

// RecordCustomerLogin logs a portal login.
func (r *LoginLogRepository) RecordCustomerLogin(ctx context.Context, customerID int, ip, userAgent string) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO login_logs(customer_id, ip_address, user_agent)
         VALUES($1, NULLIF($2,''), NULLIF($3,'')) RETURNING id`,
		customerID, ip, userAgent).Scan(&id)
	return id, err
}

func (r *LoginLogRepository) RecordLogout(ctx context.Context, logID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE login_logs SET logout_time=CURRENT_TIMESTAMP
         WHERE id=$1 AND logout_time IS NULL`, logID)
	return err
}

func (r *LoginLogRepository) List(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, customer_id, login_time, logout_time,
             COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
         FROM login_logs ORDER BY login_time DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CustomerID, &l.LoginTime,
			&l.LogoutTime, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
