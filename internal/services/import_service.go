package services

import (
	"context"
	"fmt"
	"io"

	"dairy-backend/internal/billing"
	"dairy-backend/internal/cache"
	"dairy-backend/internal/importer"
	"dairy-backend/internal/metrics"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
)

type ImportService struct {
	CustomerRepo *repositories.CustomerRepository
	DeliveryRepo *repositories.DeliveryRepository
	PaymentRepo  *repositories.PaymentRepository
}

func NewImportService(customerRepo *repositories.CustomerRepository, deliveryRepo *repositories.DeliveryRepository, paymentRepo *repositories.PaymentRepository) *ImportService {
	return &ImportService{
		CustomerRepo: customerRepo,
		DeliveryRepo: deliveryRepo,
		PaymentRepo:  paymentRepo,
	}
}

// ImportCustomers upserts customers keyed by normalized phone. Rows
// the parser rejected are reported in the summary, not fatal.
func (s *ImportService) ImportCustomers(ctx context.Context, r io.Reader) (*models.ImportSummary, error) {
	rows, skipped, err := importer.ParseCustomers(r)
	if err != nil {
		return nil, err
	}

	summary := &models.ImportSummary{
		TotalRows:   len(rows) + len(skipped),
		SkippedRows: skipped,
	}

	for _, row := range rows {
		customer := &models.Customer{
			Name:               row.Name,
			Address:            row.Address,
			Phone:              row.Phone,
			Email:              row.Email,
			MilkPrice:          row.MilkPrice,
			DefaultQuantity:    row.DefaultQuantity,
			Status:             row.Status,
			OpeningBalance:     row.OpeningBalance,
			OpeningBalanceAsOf: row.OpeningBalanceAsOf,
			LocationLat:        row.LocationLat,
			LocationLng:        row.LocationLng,
		}

		var saveErr error
		if existing, lookupErr := s.CustomerRepo.GetByPhone(ctx, row.Phone); lookupErr == nil {
			customer.ID = existing.ID
			saveErr = s.CustomerRepo.Update(ctx, customer)
		} else {
			saveErr = s.CustomerRepo.Create(ctx, customer)
		}
		if saveErr != nil {
			summary.SkippedRows = append(summary.SkippedRows, models.SkippedRow{
				Reason: fmt.Sprintf("%s: %v", row.Phone, saveErr),
			})
			metrics.ImportRowsTotal.WithLabelValues("customers", "failed").Inc()
			continue
		}
		summary.Imported++
		metrics.ImportRowsTotal.WithLabelValues("customers", "imported").Inc()
	}

	summary.Skipped = len(summary.SkippedRows)
	for range skipped {
		metrics.ImportRowsTotal.WithLabelValues("customers", "skipped").Inc()
	}

	cache.InvalidateCustomerCaches(ctx)
	return summary, nil
}

// ImportDeliveries applies a delivery CSV of either variant. Rows that
// fail to resolve a customer are collected into the summary. Zero
// quantities delete the stored row for that (customer, date); the
// upsert and delete halves fail independently.
func (s *ImportService) ImportDeliveries(ctx context.Context, r io.Reader) (*models.ImportSummary, error) {
	rows, skipped, err := importer.ParseDeliveries(r)
	if err != nil {
		return nil, err
	}

	summary := &models.ImportSummary{
		TotalRows:   len(rows) + len(skipped),
		SkippedRows: skipped,
	}

	var batch []billing.DeliveryRecord
	for _, row := range rows {
		var customer *models.Customer
		var err error
		if row.CustomerName != "" {
			customer, err = s.CustomerRepo.GetByName(ctx, row.CustomerName)
		} else {
			customer, err = s.CustomerRepo.GetByPhone(ctx, row.CustomerPhone)
		}
		if err != nil {
			label := row.CustomerName
			if label == "" {
				label = row.CustomerPhone
			}
			summary.SkippedRows = append(summary.SkippedRows, models.SkippedRow{
				Reason: fmt.Sprintf("no customer matching %q", label),
			})
			metrics.ImportRowsTotal.WithLabelValues("deliveries", "unresolved").Inc()
			continue
		}
		batch = append(batch, billing.DeliveryRecord{
			CustomerID: customer.ID,
			Date:       row.Date,
			Quantity:   row.Quantity,
		})
	}

	upserts, deletes := billing.SplitDeliveryBatch(batch)

	if len(upserts) > 0 {
		rows := make([]*models.Delivery, len(upserts))
		for i, u := range upserts {
			rows[i] = &models.Delivery{CustomerID: u.CustomerID, Date: u.Date, Quantity: u.Quantity}
		}
		if err := s.DeliveryRepo.UpsertBatch(ctx, rows); err != nil {
			summary.UpsertError = err.Error()
		} else {
			summary.Imported += len(rows)
		}
	}

	if len(deletes) > 0 {
		keys := make([]*models.Delivery, len(deletes))
		for i, d := range deletes {
			keys[i] = &models.Delivery{CustomerID: d.CustomerID, Date: d.Date}
		}
		if err := s.DeliveryRepo.DeleteBatch(ctx, keys); err != nil {
			summary.DeleteError = err.Error()
		} else {
			summary.Imported += len(keys)
		}
	}

	summary.Skipped = len(summary.SkippedRows)
	for range summary.SkippedRows {
		metrics.ImportRowsTotal.WithLabelValues("deliveries", "skipped").Inc()
	}

	cache.InvalidateDeliveryCaches(ctx)
	return summary, nil
}
