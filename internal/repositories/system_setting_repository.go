package repositories

import (
	"context"

	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SystemSettingRepository struct {
	DB *pgxpool.Pool
}

func NewSystemSettingRepository(db *pgxpool.Pool) *SystemSettingRepository {
	return &SystemSettingRepository{DB: db}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	err := r.DB.QueryRow(ctx,
		`SELECT id, setting_key, setting_value, COALESCE(description, ''), updated_at
         FROM system_settings WHERE setting_key=$1`, key,
	).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetValue returns the raw value, or fallback when the key is unset.
func (r *SystemSettingRepository) GetValue(ctx context.Context, key, fallback string) string {
	var value string
	err := r.DB.QueryRow(ctx,
		`SELECT setting_value FROM system_settings WHERE setting_key=$1`, key,
	).Scan(&value)
	if err != nil {
		return fallback
	}
	return value
}

func (r *SystemSettingRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, setting_key, setting_value, COALESCE(description, ''), updated_at
         FROM system_settings ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		var s models.SystemSetting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

func (r *SystemSettingRepository) Set(ctx context.Context, key, value string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	err := r.DB.QueryRow(ctx,
		`INSERT INTO system_settings(setting_key, setting_value)
         VALUES($1, $2)
         ON CONFLICT (setting_key)
         DO UPDATE SET setting_value=EXCLUDED.setting_value, updated_at=CURRENT_TIMESTAMP
         RETURNING id, setting_key, setting_value, COALESCE(description, ''), updated_at`,
		key, value,
	).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
