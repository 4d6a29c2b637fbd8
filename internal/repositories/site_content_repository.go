package repositories

import (
	"context"

	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SiteContentRepository struct {
	DB *pgxpool.Pool
}

func NewSiteContentRepository(db *pgxpool.Pool) *SiteContentRepository {
	return &SiteContentRepository{DB: db}
}

func (r *SiteContentRepository) Get(ctx context.Context, key string) (*models.SiteContent, error) {
	var c models.SiteContent
	err := r.DB.QueryRow(ctx,
		`SELECT id, key, value, updated_at FROM site_content WHERE key=$1`, key,
	).Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SiteContentRepository) List(ctx context.Context) ([]*models.SiteContent, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, key, value, updated_at FROM site_content ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []*models.SiteContent
	for rows.Next() {
		var c models.SiteContent
		if err := rows.Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contents = append(contents, &c)
	}
	return contents, rows.Err()
}

// Upsert writes a content block, creating the key on first use.
func (r *SiteContentRepository) Upsert(ctx context.Context, key, value string) (*models.SiteContent, error) {
	var c models.SiteContent
	err := r.DB.QueryRow(ctx,
		`INSERT INTO site_content(key, value)
         VALUES($1, $2)
         ON CONFLICT (key)
         DO UPDATE SET value=EXCLUDED.value, updated_at=CURRENT_TIMESTAMP
         RETURNING id, key, value, updated_at`,
		key, value,
	).Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
