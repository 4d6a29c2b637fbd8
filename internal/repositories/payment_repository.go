package repositories

import (
	"context"
	"time"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	var date time.Time
	err := row.Scan(&p.ID, &p.CustomerID, &date, &p.Amount, &p.Source, &p.Note, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Date = dateutil.FromTime(date)
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO payments(customer_id, date, amount, source, note)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		p.CustomerID, p.Date.Time(), p.Amount, p.Source, p.Note,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	return scanPayment(r.DB.QueryRow(ctx,
		`SELECT id, customer_id, date, amount, source, note, created_at
         FROM payments WHERE id=$1`, id))
}

func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments SET date=$1, amount=$2, note=$3
         WHERE id=$4`,
		p.Date.Time(), p.Amount, p.Note, p.ID)
	return err
}

func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	return err
}

// ListByCustomer returns the customer's full payment history, oldest first.
func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, date, amount, source, note, created_at
         FROM payments WHERE customer_id=$1 ORDER BY date, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *PaymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, date, amount, source, note, created_at
         FROM payments ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *PaymentRepository) DeleteByCustomer(ctx context.Context, customerID int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE customer_id=$1`, customerID)
	return err
}

func collectPayments(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]*models.Payment, error) {
	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
