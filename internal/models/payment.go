package models

import (
	"time"

	"dairy-backend/internal/dateutil"
)

type PaymentSource string

const (
	PaymentSourceManual PaymentSource = "manual"
	PaymentSourceImport PaymentSource = "import"
	PaymentSourceOnline PaymentSource = "online"
)

// Payment is a payment event. Several payments may share a (customer,
// date); they are additive, not snapshots.
type Payment struct {
	ID         int           `json:"id"`
	CustomerID int           `json:"customer_id"`
	Date       dateutil.Date `json:"date"`
	Amount     float64       `json:"amount"` // >= 0
	Note       string        `json:"note,omitempty"`
	Source     PaymentSource `json:"source"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CreatePaymentRequest represents the request body for recording a payment
type CreatePaymentRequest struct {
	CustomerID int     `json:"customer_id"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note"`
}
