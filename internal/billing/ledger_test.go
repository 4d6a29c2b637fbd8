package billing

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"dairy-backend/internal/dateutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) dateutil.Date {
	return dateutil.NewDate(y, m, d)
}

func TestComputeStatement_OpeningBalanceExample(t *testing.T) {
	// Opening balance 500 as of 2024-06-01, an interim delivery of 10 L
	// at Rs.50 on 2024-06-15 and an interim payment of 300 on
	// 2024-06-20, billed for 2024-07.
	opening := &OpeningBalance{Amount: 500, AsOf: day(2024, time.June, 1)}
	deliveries := []DeliveryRecord{
		{CustomerID: 1, Date: day(2024, time.June, 15), Quantity: 10},
	}
	payments := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.June, 20), Amount: 300},
	}

	p, err := ParsePeriod("2024-07")
	require.NoError(t, err)

	st := ComputeStatement(50, opening, deliveries, payments, p)
	assert.InDelta(t, 700, st.CarriedBalance, Epsilon)
	assert.InDelta(t, 0, st.PeriodCharge, Epsilon)
	assert.InDelta(t, 0, st.PeriodPaid, Epsilon)
	assert.InDelta(t, 700, st.Outstanding, Epsilon)
}

func TestComputeStatement_RecordsBeforeAsOfExcluded(t *testing.T) {
	// Anything dated before the as-of date is already folded into the
	// opening amount and must not count twice.
	opening := &OpeningBalance{Amount: 500, AsOf: day(2024, time.June, 1)}
	deliveries := []DeliveryRecord{
		{CustomerID: 1, Date: day(2024, time.May, 20), Quantity: 100},
	}
	payments := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.May, 25), Amount: 9999},
	}

	st := ComputeStatement(50, opening, deliveries, payments, Period{Year: 2024, Month: time.July})
	assert.InDelta(t, 500, st.CarriedBalance, Epsilon)
}

func TestComputeStatement_FullHistoryFallback(t *testing.T) {
	// No opening balance: carried balance covers everything before the
	// period start.
	deliveries := []DeliveryRecord{
		{CustomerID: 1, Date: day(2024, time.May, 3), Quantity: 2},  // 100
		{CustomerID: 1, Date: day(2024, time.June, 4), Quantity: 4}, // 200
		{CustomerID: 1, Date: day(2024, time.July, 5), Quantity: 1}, // in period
	}
	payments := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.May, 31), Amount: 150},
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 10), Amount: 100},
	}

	st := ComputeStatement(50, nil, deliveries, payments, Period{Year: 2024, Month: time.July})
	assert.InDelta(t, 150, st.CarriedBalance, Epsilon) // 300 - 150
	assert.InDelta(t, 50, st.PeriodCharge, Epsilon)
	assert.InDelta(t, 100, st.PeriodPaid, Epsilon)
	assert.InDelta(t, 200, st.TotalDue, Epsilon)
	assert.InDelta(t, 100, st.Outstanding, Epsilon)
}

func TestComputeStatement_OutstandingNeverClamped(t *testing.T) {
	payments := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 250},
	}
	st := ComputeStatement(50, nil, nil, payments, Period{Year: 2024, Month: time.July})
	assert.InDelta(t, -250, st.Outstanding, Epsilon) // customer in credit
}

func TestSettled_EpsilonTolerance(t *testing.T) {
	assert.True(t, Settled(0))
	assert.True(t, Settled(0.004))
	assert.True(t, Settled(-0.009))
	assert.False(t, Settled(0.01))
	assert.False(t, Settled(-1))
}

// Residuals from floating summation must classify as settled. 0.1 is
// not representable in binary, so ten charges of 0.1 against a single
// payment of 1.0 leave a nonzero residual smaller than Epsilon.
func TestStatement_FloatingResidualSettles(t *testing.T) {
	var deliveries []DeliveryRecord
	for i := 1; i <= 10; i++ {
		deliveries = append(deliveries, DeliveryRecord{
			CustomerID: 1, Date: day(2024, time.July, i), Quantity: 0.1,
		})
	}
	payments := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 15), Amount: 1.0},
	}

	st := ComputeStatement(1.0, nil, deliveries, payments, Period{Year: 2024, Month: time.July})
	assert.True(t, Settled(st.Outstanding))
}

// Additivity: walking consecutive, exhaustive, non-overlapping billing
// months from the earliest record to the last must land on the same
// balance as the single full-history computation. Each month's
// outstanding already folds in the carried balance, so the final
// month's outstanding IS the running balance.
func TestStatement_AdditivityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		unitPrice := 20 + rng.Float64()*60

		var opening *OpeningBalance
		if rng.Intn(2) == 0 {
			opening = &OpeningBalance{
				Amount: math.Round(rng.Float64()*200000) / 100,
				AsOf:   day(2024, time.Month(1+rng.Intn(3)), 1+rng.Intn(28)),
			}
		}

		months := 1 + rng.Intn(14)
		first := Period{Year: 2024, Month: time.January}

		var deliveries []DeliveryRecord
		var payments []PaymentRecord
		p := first
		for m := 0; m < months; m++ {
			for i := 0; i < rng.Intn(10); i++ {
				d := day(p.Year, p.Month, 1+rng.Intn(28))
				if opening != nil && d.Before(opening.AsOf) {
					// The payment/delivery services reject records dated
					// before the as-of date; histories honor that rule.
					continue
				}
				deliveries = append(deliveries, DeliveryRecord{
					CustomerID: 1,
					Date:       d,
					Quantity:   math.Round(rng.Float64()*2000) / 100,
				})
			}
			for i := 0; i < rng.Intn(4); i++ {
				d := day(p.Year, p.Month, 1+rng.Intn(28))
				if opening != nil && d.Before(opening.AsOf) {
					continue
				}
				payments = append(payments, PaymentRecord{
					ID:         len(payments) + 1,
					CustomerID: 1,
					Date:       d,
					Amount:     math.Round(rng.Float64()*500000) / 100,
				})
			}
			p = p.Next()
		}

		var last Statement
		p = first
		for m := 0; m < months; m++ {
			st := ComputeStatement(unitPrice, opening, deliveries, payments, p)
			if m > 0 {
				// The carried balance of month m must equal the
				// outstanding of month m-1: no money is created or
				// destroyed at period boundaries.
				assert.InDelta(t, last.Outstanding, st.CarriedBalance, Epsilon,
					"trial %d month %s", trial, p.Token())
			}
			last = st
			p = p.Next()
		}

		full := FullHistoryBalance(unitPrice, opening, deliveries, payments)
		assert.InDelta(t, full, last.Outstanding, Epsilon, "trial %d", trial)
	}
}
