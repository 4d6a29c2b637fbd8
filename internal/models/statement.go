package models

import "dairy-backend/internal/billing"

// CustomerStatement pairs a customer with their computed position for
// one billing month.
type CustomerStatement struct {
	Customer  *Customer         `json:"customer"`
	Statement billing.Statement `json:"statement"`
	Settled   bool              `json:"settled"`

	Deliveries []Delivery `json:"deliveries,omitempty"`
	Payments   []Payment  `json:"payments,omitempty"`
}

// BillingSummary aggregates a billing month across all customers.
type BillingSummary struct {
	Period           string               `json:"period"`
	Customers        []*CustomerStatement `json:"customers"`
	TotalCharge      float64              `json:"total_charge"`
	TotalPaid        float64              `json:"total_paid"`
	TotalOutstanding float64              `json:"total_outstanding"`
	OutstandingCount int                  `json:"outstanding_count"`
	SettledCount     int                  `json:"settled_count"`
}
