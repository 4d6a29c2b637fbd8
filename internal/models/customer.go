package models

import (
	"time"

	"dairy-backend/internal/dateutil"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

type Customer struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Address         string         `json:"address"`
	Phone           string         `json:"phone"` // last 10 digits, portal login id
	Email           string         `json:"email,omitempty"`
	MilkPrice       float64        `json:"milk_price"`       // per liter
	DefaultQuantity float64        `json:"default_quantity"` // liters per day
	Status          CustomerStatus `json:"status"`

	// Opening balance and its as-of date travel together: a balance
	// without a date cannot be anchored to any billing period. Both nil
	// or both set, enforced on write.
	OpeningBalance     *float64       `json:"opening_balance,omitempty"`
	OpeningBalanceAsOf *dateutil.Date `json:"opening_balance_as_of,omitempty"`

	LocationLat *float64 `json:"location_lat,omitempty"`
	LocationLng *float64 `json:"location_lng,omitempty"`

	// HasCredential reports whether a portal password has been issued.
	HasCredential bool `json:"has_credential"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the customer currently receives deliveries.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	MilkPrice          float64  `json:"milk_price"`
	DefaultQuantity    float64  `json:"default_quantity"`
	Status             string   `json:"status"`
	OpeningBalance     *float64 `json:"opening_balance"`
	OpeningBalanceAsOf string   `json:"opening_balance_as_of"`
	LocationLat        *float64 `json:"location_lat"`
	LocationLng        *float64 `json:"location_lng"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	MilkPrice          float64  `json:"milk_price"`
	DefaultQuantity    float64  `json:"default_quantity"`
	Status             string   `json:"status"`
	OpeningBalance     *float64 `json:"opening_balance"`
	OpeningBalanceAsOf string   `json:"opening_balance_as_of"`
	LocationLat        *float64 `json:"location_lat"`
	LocationLng        *float64 `json:"location_lng"`
}

// SetCredentialRequest sets or resets a customer's portal password.
type SetCredentialRequest struct {
	Password string `json:"password"`
}

// CustomerLoginRequest is the portal login body (phone + password).
type CustomerLoginRequest struct {
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// CustomerAuthResponse is returned after successful portal login.
type CustomerAuthResponse struct {
	Token    string    `json:"token"`
	Customer *Customer `json:"customer"`
}
