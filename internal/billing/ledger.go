package billing

import (
	"math"

	"dairy-backend/internal/dateutil"
)

// Epsilon is the settlement tolerance for money comparisons. Summing
// many small charges in binary floating point rarely lands exactly on
// zero, so any residual below a paisa is treated as settled.
const Epsilon = 0.01

// DeliveryRecord is one day's delivered quantity for a customer.
// At most one record exists per (customer, date).
type DeliveryRecord struct {
	ID         int
	CustomerID int
	Date       dateutil.Date
	Quantity   float64 // liters
}

// PaymentRecord is a payment event. Unlike deliveries, several payments
// may share a (customer, date).
type PaymentRecord struct {
	ID         int
	CustomerID int
	Date       dateutil.Date
	Amount     float64
}

// OpeningBalance anchors a manually entered starting balance to the date
// it was recorded. A balance without its as-of date cannot be placed in
// any period, so the pair travels together.
type OpeningBalance struct {
	Amount float64
	AsOf   dateutil.Date
}

// Statement is a customer's computed position for one billing month.
type Statement struct {
	Period Period `json:"period"`

	// CarriedBalance is the amount owed immediately before the period
	// begins.
	CarriedBalance float64 `json:"carried_balance"`
	// PeriodCharge is the value of deliveries dated within the period.
	PeriodCharge float64 `json:"period_charge"`
	// PeriodPaid is the sum of payments dated within the period.
	PeriodPaid float64 `json:"period_paid"`
	// TotalDue = CarriedBalance + PeriodCharge.
	TotalDue float64 `json:"total_due"`
	// Outstanding = TotalDue - PeriodPaid. Negative means the customer
	// is in credit; callers decide whether to clamp for display.
	Outstanding float64 `json:"outstanding"`
}

// Settled reports whether an outstanding amount is close enough to zero
// to count as paid in full.
func Settled(outstanding float64) bool {
	return math.Abs(outstanding) < Epsilon
}

// ComputeStatement computes a customer's statement for one billing month
// from the full delivery and payment history.
//
// With an opening balance, the carried balance is the opening amount
// plus deliveries and minus payments dated in [opening.AsOf, period
// start). Records before the as-of date are already folded into the
// opening amount and must not count again. Without one, the carried
// balance is the full history before the period start.
func ComputeStatement(unitPrice float64, opening *OpeningBalance, deliveries []DeliveryRecord, payments []PaymentRecord, p Period) Statement {
	carried := 0.0
	if opening != nil {
		carried = opening.Amount
	}

	charge := 0.0
	paid := 0.0

	for _, d := range deliveries {
		switch p.Classify(d.Date) {
		case Within:
			charge += d.Quantity * unitPrice
		case Prior:
			if opening != nil && d.Date.Before(opening.AsOf) {
				continue
			}
			carried += d.Quantity * unitPrice
		}
	}

	for _, pay := range payments {
		switch p.Classify(pay.Date) {
		case Within:
			paid += pay.Amount
		case Prior:
			if opening != nil && pay.Date.Before(opening.AsOf) {
				continue
			}
			carried -= pay.Amount
		}
	}

	totalDue := carried + charge
	return Statement{
		Period:         p,
		CarriedBalance: carried,
		PeriodCharge:   charge,
		PeriodPaid:     paid,
		TotalDue:       totalDue,
		Outstanding:    totalDue - paid,
	}
}

// FullHistoryBalance is the single-shot balance over the entire history:
// opening amount plus every delivery from the as-of date on, minus every
// payment from the as-of date on. With no opening balance it is simply
// all deliveries minus all payments.
func FullHistoryBalance(unitPrice float64, opening *OpeningBalance, deliveries []DeliveryRecord, payments []PaymentRecord) float64 {
	balance := 0.0
	if opening != nil {
		balance = opening.Amount
	}
	for _, d := range deliveries {
		if opening != nil && d.Date.Before(opening.AsOf) {
			continue
		}
		balance += d.Quantity * unitPrice
	}
	for _, p := range payments {
		if opening != nil && p.Date.Before(opening.AsOf) {
			continue
		}
		balance -= p.Amount
	}
	return balance
}
