package repositories

import (
	"context"
	"time"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, address, phone, COALESCE(email, '') as email,
    milk_price, default_quantity, status, opening_balance, opening_balance_as_of,
    location_lat, location_lng, password_hash IS NOT NULL as has_credential,
    created_at, updated_at`

func (r *CustomerRepository) scan(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	var asOf *time.Time
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email,
		&c.MilkPrice, &c.DefaultQuantity, &c.Status, &c.OpeningBalance, &asOf,
		&c.LocationLat, &c.LocationLng, &c.HasCredential,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if asOf != nil {
		d := dateutil.FromTime(*asOf)
		c.OpeningBalanceAsOf = &d
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	var asOf *time.Time
	if c.OpeningBalanceAsOf != nil {
		t := c.OpeningBalanceAsOf.Time()
		asOf = &t
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(name, address, phone, email, milk_price, default_quantity, status,
             opening_balance, opening_balance_as_of, location_lat, location_lng)
         VALUES($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
         RETURNING id, created_at, updated_at`,
		c.Name, c.Address, c.Phone, c.Email, c.MilkPrice, c.DefaultQuantity, c.Status,
		c.OpeningBalance, asOf, c.LocationLat, c.LocationLng,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1`, id))
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone=$1`, phone))
}

func (r *CustomerRepository) GetByName(ctx context.Context, name string) (*models.Customer, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE LOWER(name)=LOWER($1)`, name))
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	var asOf *time.Time
	if c.OpeningBalanceAsOf != nil {
		t := c.OpeningBalanceAsOf.Time()
		asOf = &t
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET name=$1, address=$2, phone=$3, email=NULLIF($4, ''),
             milk_price=$5, default_quantity=$6, status=$7,
             opening_balance=$8, opening_balance_as_of=$9,
             location_lat=$10, location_lng=$11, updated_at=CURRENT_TIMESTAMP
         WHERE id=$12`,
		c.Name, c.Address, c.Phone, c.Email, c.MilkPrice, c.DefaultQuantity, c.Status,
		c.OpeningBalance, asOf, c.LocationLat, c.LocationLng, c.ID)
	return err
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	return err
}

// DeleteAll removes every customer row. Deliveries and payments are
// removed first by the service cascade.
func (r *CustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customers`)
	return tag.RowsAffected(), err
}

// SetCredential stores a bcrypt hash as the customer's portal password.
func (r *CustomerRepository) SetCredential(ctx context.Context, id int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET password_hash=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		passwordHash, id)
	return err
}

// DeleteCredential removes the customer's portal password.
func (r *CustomerRepository) DeleteCredential(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET password_hash=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}

// GetCredential returns the stored password hash, empty when none is set.
func (r *CustomerRepository) GetCredential(ctx context.Context, id int) (string, error) {
	var hash string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(password_hash, '') FROM customers WHERE id=$1`, id).Scan(&hash)
	return hash, err
}
