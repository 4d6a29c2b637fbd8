package models

import (
	"time"

	"dairy-backend/internal/dateutil"
)

// Delivery is one day's delivered milk for a customer. At most one row
// exists per (customer, date); saving the same date again overwrites.
type Delivery struct {
	ID         int           `json:"id"`
	CustomerID int           `json:"customer_id"`
	Date       dateutil.Date `json:"date"`
	Quantity   float64       `json:"quantity"` // liters, >= 0
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// UpsertDeliveryRequest creates or overwrites the delivery for a date.
// Quantity zero deletes the stored row instead of keeping a zero row.
type UpsertDeliveryRequest struct {
	CustomerID int     `json:"customer_id"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
}

// DeliveryBatchRequest applies many upserts in one user action.
type DeliveryBatchRequest struct {
	Deliveries []UpsertDeliveryRequest `json:"deliveries"`
}

// DeliveryBatchResult reports each half of a mixed upsert/delete batch
// separately. A failed half never masquerades as success; the caller
// merges only the rows that actually round-tripped.
type DeliveryBatchResult struct {
	Upserted []Delivery `json:"upserted"`
	Deleted  []Delivery `json:"deleted"` // quantity zero, removed rows

	UpsertError string `json:"upsert_error,omitempty"`
	DeleteError string `json:"delete_error,omitempty"`
}

// Failed reports whether any half of the batch failed.
func (r *DeliveryBatchResult) Failed() bool {
	return r.UpsertError != "" || r.DeleteError != ""
}
