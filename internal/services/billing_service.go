package services

import (
	"context"
	"fmt"

	"dairy-backend/internal/billing"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
)

type BillingService struct {
	CustomerRepo *repositories.CustomerRepository
	DeliveryRepo *repositories.DeliveryRepository
	PaymentRepo  *repositories.PaymentRepository
}

func NewBillingService(customerRepo *repositories.CustomerRepository, deliveryRepo *repositories.DeliveryRepository, paymentRepo *repositories.PaymentRepository) *BillingService {
	return &BillingService{
		CustomerRepo: customerRepo,
		DeliveryRepo: deliveryRepo,
		PaymentRepo:  paymentRepo,
	}
}

func openingOf(c *models.Customer) *billing.OpeningBalance {
	if c.OpeningBalance == nil || c.OpeningBalanceAsOf == nil {
		return nil
	}
	return &billing.OpeningBalance{
		Amount: *c.OpeningBalance,
		AsOf:   *c.OpeningBalanceAsOf,
	}
}

func toBillingRecords(deliveries []*models.Delivery, payments []*models.Payment) ([]billing.DeliveryRecord, []billing.PaymentRecord) {
	ds := make([]billing.DeliveryRecord, len(deliveries))
	for i, d := range deliveries {
		ds[i] = billing.DeliveryRecord{
			ID:         d.ID,
			CustomerID: d.CustomerID,
			Date:       d.Date,
			Quantity:   d.Quantity,
		}
	}
	ps := make([]billing.PaymentRecord, len(payments))
	for i, p := range payments {
		ps[i] = billing.PaymentRecord{
			ID:         p.ID,
			CustomerID: p.CustomerID,
			Date:       p.Date,
			Amount:     p.Amount,
		}
	}
	return ds, ps
}

// CustomerStatement computes one customer's position for a billing
// month from their full delivery and payment history.
func (s *BillingService) CustomerStatement(ctx context.Context, customerID int, periodToken string, includeRecords bool) (*models.CustomerStatement, error) {
	period, err := billing.ParsePeriod(periodToken)
	if err != nil {
		return nil, err
	}

	customer, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	deliveries, err := s.DeliveryRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	ds, ps := toBillingRecords(deliveries, payments)
	statement := billing.ComputeStatement(customer.MilkPrice, openingOf(customer), ds, ps, period)

	result := &models.CustomerStatement{
		Customer:  customer,
		Statement: statement,
		Settled:   billing.Settled(statement.Outstanding),
	}

	if includeRecords {
		for _, d := range deliveries {
			if period.Contains(d.Date) {
				result.Deliveries = append(result.Deliveries, *d)
			}
		}
		for _, p := range payments {
			if period.Contains(p.Date) {
				result.Payments = append(result.Payments, *p)
			}
		}
	}

	return result, nil
}

// Summary computes the billing month across every customer.
func (s *BillingService) Summary(ctx context.Context, periodToken string) (*models.BillingSummary, error) {
	period, err := billing.ParsePeriod(periodToken)
	if err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.BillingSummary{Period: period.Token()}
	for _, customer := range customers {
		deliveries, err := s.DeliveryRepo.ListByCustomer(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		payments, err := s.PaymentRepo.ListByCustomer(ctx, customer.ID)
		if err != nil {
			return nil, err
		}

		ds, ps := toBillingRecords(deliveries, payments)
		statement := billing.ComputeStatement(customer.MilkPrice, openingOf(customer), ds, ps, period)
		settled := billing.Settled(statement.Outstanding)

		summary.Customers = append(summary.Customers, &models.CustomerStatement{
			Customer:  customer,
			Statement: statement,
			Settled:   settled,
		})
		summary.TotalCharge += statement.PeriodCharge
		summary.TotalPaid += statement.PeriodPaid
		summary.TotalOutstanding += statement.Outstanding
		if settled {
			summary.SettledCount++
		} else {
			summary.OutstandingCount++
		}
	}

	return summary, nil
}

// CurrentBalance returns the customer's full-history balance, used by
// the portal dashboard and online payment prefill.
func (s *BillingService) CurrentBalance(ctx context.Context, customerID int) (float64, error) {
	customer, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return 0, err
	}
	deliveries, err := s.DeliveryRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	payments, err := s.PaymentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}

	ds, ps := toBillingRecords(deliveries, payments)
	return billing.FullHistoryBalance(customer.MilkPrice, openingOf(customer), ds, ps), nil
}
