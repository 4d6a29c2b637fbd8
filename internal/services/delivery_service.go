package services

import (
	"context"
	"errors"
	"fmt"

	"dairy-backend/internal/billing"
	"dairy-backend/internal/cache"
	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
)

type DeliveryService struct {
	Repo         *repositories.DeliveryRepository
	CustomerRepo *repositories.CustomerRepository
}

func NewDeliveryService(repo *repositories.DeliveryRepository, customerRepo *repositories.CustomerRepository) *DeliveryService {
	return &DeliveryService{
		Repo:         repo,
		CustomerRepo: customerRepo,
	}
}

// UpsertDelivery saves the quantity for one (customer, date). A zero
// quantity deletes the stored row; no zero rows are ever kept.
func (s *DeliveryService) UpsertDelivery(ctx context.Context, req *models.UpsertDeliveryRequest) (*models.Delivery, error) {
	if req.Quantity < 0 {
		return nil, errors.New("quantity cannot be negative")
	}
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	if req.Quantity == 0 {
		if err := s.Repo.DeleteByKey(ctx, req.CustomerID, date); err != nil {
			return nil, err
		}
		cache.InvalidateDeliveryCaches(ctx)
		return nil, nil
	}

	delivery := &models.Delivery{
		CustomerID: req.CustomerID,
		Date:       date,
		Quantity:   req.Quantity,
	}
	if err := s.Repo.Upsert(ctx, delivery); err != nil {
		return nil, err
	}

	cache.InvalidateDeliveryCaches(ctx)
	return delivery, nil
}

// ApplyBatch applies a page of delivery edits in one action. Zero
// quantities become deletes; the two halves fail independently so a
// broken delete never silently drops the upserts beside it.
func (s *DeliveryService) ApplyBatch(ctx context.Context, req *models.DeliveryBatchRequest) (*models.DeliveryBatchResult, error) {
	batch := make([]billing.DeliveryRecord, 0, len(req.Deliveries))
	for _, item := range req.Deliveries {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("quantity cannot be negative for customer %d on %s", item.CustomerID, item.Date)
		}
		date, err := dateutil.ParseDate(item.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", item.Date, err)
		}
		if _, err := s.CustomerRepo.Get(ctx, item.CustomerID); err != nil {
			return nil, fmt.Errorf("customer %d not found", item.CustomerID)
		}
		batch = append(batch, billing.DeliveryRecord{
			CustomerID: item.CustomerID,
			Date:       date,
			Quantity:   item.Quantity,
		})
	}
	upserts, deletes := billing.SplitDeliveryBatch(batch)

	result := &models.DeliveryBatchResult{}

	if len(upserts) > 0 {
		rows := make([]*models.Delivery, len(upserts))
		for i, u := range upserts {
			rows[i] = &models.Delivery{CustomerID: u.CustomerID, Date: u.Date, Quantity: u.Quantity}
		}
		if err := s.Repo.UpsertBatch(ctx, rows); err != nil {
			result.UpsertError = err.Error()
		} else {
			for _, row := range rows {
				result.Upserted = append(result.Upserted, *row)
			}
		}
	}

	if len(deletes) > 0 {
		rows := make([]*models.Delivery, len(deletes))
		for i, d := range deletes {
			rows[i] = &models.Delivery{CustomerID: d.CustomerID, Date: d.Date}
		}
		if err := s.Repo.DeleteBatch(ctx, rows); err != nil {
			result.DeleteError = err.Error()
		} else {
			for _, row := range rows {
				result.Deleted = append(result.Deleted, *row)
			}
		}
	}

	cache.InvalidateDeliveryCaches(ctx)
	return result, nil
}

func (s *DeliveryService) ListByCustomer(ctx context.Context, customerID int) ([]*models.Delivery, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

func (s *DeliveryService) ListByDateRange(ctx context.Context, from, to dateutil.Date) ([]*models.Delivery, error) {
	if to.Before(from) {
		return nil, errors.New("range end before start")
	}
	return s.Repo.ListByDateRange(ctx, from, to)
}
