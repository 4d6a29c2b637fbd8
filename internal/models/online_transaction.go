package models

import "time"

// OnlineTransactionStatus represents the status of an online payment
type OnlineTransactionStatus string

const (
	OnlineTxStatusPending OnlineTransactionStatus = "pending"
	OnlineTxStatusSuccess OnlineTransactionStatus = "success"
	OnlineTxStatusFailed  OnlineTransactionStatus = "failed"
)

// OnlineTransaction represents a Razorpay payment transaction from the
// customer portal.
type OnlineTransaction struct {
	ID                int    `json:"id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"-"` // Don't expose signature in JSON

	CustomerID    int    `json:"customer_id"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`

	// Amounts in rupees
	Amount      float64 `json:"amount"`       // Payment toward the balance
	FeeAmount   float64 `json:"fee_amount"`   // Transaction fee
	TotalAmount float64 `json:"total_amount"` // What the customer pays

	UTRNumber     string `json:"utr_number,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"` // upi, card, netbanking, wallet

	Status        OnlineTransactionStatus `json:"status"`
	FailureReason string                  `json:"failure_reason,omitempty"`

	// PaymentID links the payment row created on success.
	PaymentID *int `json:"payment_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CreateOnlinePaymentRequest is the request from the portal to initiate payment
type CreateOnlinePaymentRequest struct {
	Amount float64 `json:"amount"`
}

// CreateOrderResponse is returned to the portal for Razorpay checkout
type CreateOrderResponse struct {
	OrderID       string  `json:"order_id"`
	Amount        int     `json:"amount"`       // In paise
	FeeAmount     int     `json:"fee_amount"`   // In paise
	TotalAmount   int     `json:"total_amount"` // In paise
	Currency      string  `json:"currency"`
	KeyID         string  `json:"key_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	FeePercent    float64 `json:"fee_percent"`
}

// VerifyPaymentRequest is sent from the portal after the Razorpay callback
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PaymentStatusResponse is returned when checking if online payments are enabled
type PaymentStatusResponse struct {
	Enabled    bool    `json:"enabled"`
	FeePercent float64 `json:"fee_percent"`
	KeyID      string  `json:"key_id,omitempty"`
}
