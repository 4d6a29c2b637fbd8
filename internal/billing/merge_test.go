package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDeliveries_ReplaceByNaturalKey(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 2},
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 2), Quantity: 2},
		{ID: 3, CustomerID: 2, Date: day(2024, time.July, 1), Quantity: 5},
	}
	batch := []DeliveryRecord{
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 2), Quantity: 3.5},
	}

	merged := MergeDeliveries(existing, batch)
	require.Len(t, merged, 3)
	assert.Equal(t, 3.5, merged[1].Quantity)

	// Untouched rows carry through unchanged, same position and value.
	assert.Equal(t, existing[0], merged[0])
	assert.Equal(t, existing[2], merged[2])
}

func TestMergeDeliveries_InsertNewRow(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 2},
	}
	batch := []DeliveryRecord{
		{ID: 9, CustomerID: 1, Date: day(2024, time.July, 3), Quantity: 1},
	}

	merged := MergeDeliveries(existing, batch)
	require.Len(t, merged, 2)
	assert.Equal(t, 9, merged[1].ID)
}

func TestMergeDeliveries_ZeroQuantityDeletes(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 2},
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 2), Quantity: 2},
	}
	batch := []DeliveryRecord{
		{CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 0},
	}

	merged := MergeDeliveries(existing, batch)
	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].ID)
}

func TestMergeDeliveries_ZeroQuantityNoPriorRowIsNoop(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 2},
	}
	batch := []DeliveryRecord{
		{CustomerID: 1, Date: day(2024, time.July, 9), Quantity: 0},
	}

	merged := MergeDeliveries(existing, batch)
	assert.Equal(t, existing, merged)
}

func TestMergeDeliveries_Idempotent(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 2},
		{ID: 2, CustomerID: 2, Date: day(2024, time.July, 1), Quantity: 4},
	}
	batch := []DeliveryRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 6},
		{ID: 7, CustomerID: 2, Date: day(2024, time.July, 5), Quantity: 1},
		{CustomerID: 2, Date: day(2024, time.July, 1), Quantity: 0},
	}

	once := MergeDeliveries(existing, batch)
	twice := MergeDeliveries(once, batch)
	assert.Equal(t, once, twice)

	// No duplicate rows slipped in, so the ledger counts nothing twice.
	st1 := ComputeStatement(50, nil, once, nil, Period{Year: 2024, Month: time.July})
	st2 := ComputeStatement(50, nil, twice, nil, Period{Year: 2024, Month: time.July})
	assert.InDelta(t, st1.PeriodCharge, st2.PeriodCharge, Epsilon)
}

func TestMergePayments_ReplaceById(t *testing.T) {
	existing := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 100},
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 50},
	}
	batch := []PaymentRecord{
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 75},
	}

	merged := MergePayments(existing, batch)
	require.Len(t, merged, 2)
	assert.Equal(t, existing[0], merged[0])
	assert.Equal(t, 75.0, merged[1].Amount)
}

func TestMergePayments_SameDayPaymentsAccumulate(t *testing.T) {
	// Payments are additive events: two rows on the same (customer,
	// date) coexist, they never overwrite each other.
	existing := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 100},
	}
	batch := []PaymentRecord{
		{ID: 2, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 40},
	}

	merged := MergePayments(existing, batch)
	require.Len(t, merged, 2)

	st := ComputeStatement(50, nil, nil, merged, Period{Year: 2024, Month: time.July})
	assert.InDelta(t, 140, st.PeriodPaid, Epsilon)
}

func TestMergePayments_Idempotent(t *testing.T) {
	existing := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 100},
	}
	batch := []PaymentRecord{
		{ID: 1, CustomerID: 1, Date: day(2024, time.July, 1), Amount: 120},
		{ID: 5, CustomerID: 1, Date: day(2024, time.July, 8), Amount: 30},
	}

	once := MergePayments(existing, batch)
	twice := MergePayments(once, batch)
	assert.Equal(t, once, twice)
}

func TestSplitDeliveryBatch(t *testing.T) {
	batch := []DeliveryRecord{
		{CustomerID: 1, Date: day(2024, time.July, 1), Quantity: 2},
		{CustomerID: 1, Date: day(2024, time.July, 2), Quantity: 0},
		{CustomerID: 2, Date: day(2024, time.July, 1), Quantity: 1},
	}

	upserts, deletes := SplitDeliveryBatch(batch)
	assert.Len(t, upserts, 2)
	require.Len(t, deletes, 1)
	assert.Equal(t, day(2024, time.July, 2), deletes[0].Date)
}
