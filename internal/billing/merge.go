package billing

import "dairy-backend/internal/dateutil"

// Merge semantics: a batch of rows that round-tripped through storage is
// folded into the in-memory collection. Rows sharing an identity are
// replaced, untouched rows keep their position and value (callers rely
// on that to detect "nothing changed"), and applying the same batch
// twice yields the same collection.

type deliveryKey struct {
	CustomerID int
	Date       dateutil.Date
}

// MergeDeliveries folds an upserted batch into the existing collection.
// Identity is the natural key (customer, date); a batch row with zero
// quantity is a deletion request and removes any stored row for that
// key rather than keeping a zero row.
func MergeDeliveries(existing, batch []DeliveryRecord) []DeliveryRecord {
	replace := make(map[deliveryKey]DeliveryRecord, len(batch))
	deleted := make(map[deliveryKey]bool)
	for _, b := range batch {
		k := deliveryKey{CustomerID: b.CustomerID, Date: b.Date}
		if b.Quantity == 0 {
			deleted[k] = true
			delete(replace, k)
			continue
		}
		delete(deleted, k)
		replace[k] = b
	}

	merged := make([]DeliveryRecord, 0, len(existing)+len(replace))
	for _, e := range existing {
		k := deliveryKey{CustomerID: e.CustomerID, Date: e.Date}
		if deleted[k] {
			continue
		}
		if r, ok := replace[k]; ok {
			merged = append(merged, r)
			delete(replace, k)
			continue
		}
		merged = append(merged, e)
	}

	// Batch rows that matched nothing are inserts; keep batch order.
	for _, b := range batch {
		k := deliveryKey{CustomerID: b.CustomerID, Date: b.Date}
		if r, ok := replace[k]; ok {
			merged = append(merged, r)
			delete(replace, k)
		}
	}

	return merged
}

// MergePayments folds an upserted payment batch into the existing
// collection. Payments carry no natural uniqueness, so identity is the
// stored row id; rows without one (id zero) are always appended as new
// events. Zero amounts are kept: a zero payment row is not a deletion,
// that rule applies to deliveries only.
func MergePayments(existing, batch []PaymentRecord) []PaymentRecord {
	replace := make(map[int]PaymentRecord, len(batch))
	var inserts []PaymentRecord
	for _, b := range batch {
		if b.ID == 0 {
			inserts = append(inserts, b)
			continue
		}
		replace[b.ID] = b
	}

	merged := make([]PaymentRecord, 0, len(existing)+len(batch))
	for _, e := range existing {
		if r, ok := replace[e.ID]; ok {
			merged = append(merged, r)
			delete(replace, e.ID)
			continue
		}
		merged = append(merged, e)
	}
	for _, b := range batch {
		if b.ID == 0 {
			continue
		}
		if r, ok := replace[b.ID]; ok {
			merged = append(merged, r)
			delete(replace, b.ID)
		}
	}
	merged = append(merged, inserts...)

	return merged
}

// SplitDeliveryBatch partitions a requested batch into rows to upsert
// and keys to delete, mirroring how the storage layer treats a zero
// quantity as "remove the row". The two halves are issued as separate
// requests, and a failure of either must be surfaced on its own.
func SplitDeliveryBatch(batch []DeliveryRecord) (upserts []DeliveryRecord, deletes []DeliveryRecord) {
	for _, b := range batch {
		if b.Quantity == 0 {
			deletes = append(deletes, b)
		} else {
			upserts = append(upserts, b)
		}
	}
	return upserts, deletes
}
