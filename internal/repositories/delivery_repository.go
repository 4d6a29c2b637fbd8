package repositories

import (
	"context"
	"time"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DeliveryRepository struct {
	DB *pgxpool.Pool
}

func NewDeliveryRepository(db *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

func scanDelivery(row interface{ Scan(...any) error }) (*models.Delivery, error) {
	var d models.Delivery
	var date time.Time
	err := row.Scan(&d.ID, &d.CustomerID, &date, &d.Quantity, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Date = dateutil.FromTime(date)
	return &d, nil
}

// Upsert inserts or overwrites the one delivery row for (customer,
// date). Re-saving a date never duplicates.
func (r *DeliveryRepository) Upsert(ctx context.Context, d *models.Delivery) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO deliveries(customer_id, date, quantity)
         VALUES($1, $2, $3)
         ON CONFLICT (customer_id, date)
         DO UPDATE SET quantity=EXCLUDED.quantity, updated_at=CURRENT_TIMESTAMP
         RETURNING id, created_at, updated_at`,
		d.CustomerID, d.Date.Time(), d.Quantity,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// UpsertBatch applies a batch of upserts in one transaction so a
// half-written batch never becomes visible.
func (r *DeliveryRepository) UpsertBatch(ctx context.Context, deliveries []*models.Delivery) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range deliveries {
		err := tx.QueryRow(ctx,
			`INSERT INTO deliveries(customer_id, date, quantity)
             VALUES($1, $2, $3)
             ON CONFLICT (customer_id, date)
             DO UPDATE SET quantity=EXCLUDED.quantity, updated_at=CURRENT_TIMESTAMP
             RETURNING id, created_at, updated_at`,
			d.CustomerID, d.Date.Time(), d.Quantity,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// DeleteByKey removes the delivery row for a (customer, date) pair.
// Missing rows are a no-op, matching zero-quantity imports for dates
// that were never stored.
func (r *DeliveryRepository) DeleteByKey(ctx context.Context, customerID int, date dateutil.Date) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM deliveries WHERE customer_id=$1 AND date=$2`,
		customerID, date.Time())
	return err
}

// DeleteBatch removes a set of (customer, date) rows in one transaction.
func (r *DeliveryRepository) DeleteBatch(ctx context.Context, keys []*models.Delivery) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range keys {
		if _, err := tx.Exec(ctx,
			`DELETE FROM deliveries WHERE customer_id=$1 AND date=$2`,
			d.CustomerID, d.Date.Time()); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *DeliveryRepository) Get(ctx context.Context, id int) (*models.Delivery, error) {
	return scanDelivery(r.DB.QueryRow(ctx,
		`SELECT id, customer_id, date, quantity, created_at, updated_at
         FROM deliveries WHERE id=$1`, id))
}

// ListByCustomer returns the customer's full delivery history, oldest first.
func (r *DeliveryRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Delivery, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, date, quantity, created_at, updated_at
         FROM deliveries WHERE customer_id=$1 ORDER BY date`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

// ListByDateRange returns every delivery in [from, to] inclusive.
func (r *DeliveryRepository) ListByDateRange(ctx context.Context, from, to dateutil.Date) ([]*models.Delivery, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, date, quantity, created_at, updated_at
         FROM deliveries WHERE date >= $1 AND date <= $2 ORDER BY date, customer_id`,
		from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

func (r *DeliveryRepository) List(ctx context.Context) ([]*models.Delivery, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, date, quantity, created_at, updated_at
         FROM deliveries ORDER BY date, customer_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

func (r *DeliveryRepository) DeleteByCustomer(ctx context.Context, customerID int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM deliveries WHERE customer_id=$1`, customerID)
	return err
}

func collectDeliveries(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
