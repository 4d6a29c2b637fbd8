package repositories

import (
	"context"

	"dairy-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

const onlineTxColumns = `id, razorpay_order_id, COALESCE(razorpay_payment_id, ''),
    COALESCE(razorpay_signature, ''), customer_id, customer_phone, customer_name,
    amount, fee_amount, total_amount, COALESCE(utr_number, ''),
    COALESCE(payment_method, ''), status, COALESCE(failure_reason, ''),
    payment_id, created_at, completed_at`

func scanOnlineTx(row interface{ Scan(...any) error }) (*models.OnlineTransaction, error) {
	var t models.OnlineTransaction
	err := row.Scan(&t.ID, &t.RazorpayOrderID, &t.RazorpayPaymentID,
		&t.RazorpaySignature, &t.CustomerID, &t.CustomerPhone, &t.CustomerName,
		&t.Amount, &t.FeeAmount, &t.TotalAmount, &t.UTRNumber,
		&t.PaymentMethod, &t.Status, &t.FailureReason,
		&t.PaymentID, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, t *models.OnlineTransaction) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO online_transactions(razorpay_order_id, customer_id, customer_phone,
             customer_name, amount, fee_amount, total_amount, status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at`,
		t.RazorpayOrderID, t.CustomerID, t.CustomerPhone, t.CustomerName,
		t.Amount, t.FeeAmount, t.TotalAmount, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	return scanOnlineTx(r.DB.QueryRow(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions WHERE razorpay_order_id=$1`,
		orderID))
}

// MarkSuccess records the gateway identifiers and links the payment row
// created for the customer's ledger.
func (r *OnlineTransactionRepository) MarkSuccess(ctx context.Context, orderID, paymentID, signature, utr, method string, ledgerPaymentID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
         SET razorpay_payment_id=$1, razorpay_signature=$2, utr_number=NULLIF($3,''),
             payment_method=NULLIF($4,''), status=$5, payment_id=$6,
             completed_at=CURRENT_TIMESTAMP
         WHERE razorpay_order_id=$7`,
		paymentID, signature, utr, method, models.OnlineTxStatusSuccess, ledgerPaymentID, orderID)
	return err
}

func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
         SET status=$1, failure_reason=$2, completed_at=CURRENT_TIMESTAMP
         WHERE razorpay_order_id=$3`,
		models.OnlineTxStatusFailed, reason, orderID)
	return err
}

func (r *OnlineTransactionRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions
         WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOnlineTx(rows)
}

func (r *OnlineTransactionRepository) List(ctx context.Context, limit int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions
         ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOnlineTx(rows)
}

func collectOnlineTx(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]*models.OnlineTransaction, error) {
	var txs []*models.OnlineTransaction
	for rows.Next() {
		t, err := scanOnlineTx(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
