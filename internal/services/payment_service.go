package services

import (
	"context"
	"errors"
	"fmt"

	"dairy-backend/internal/cache"
	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
)

// ErrPaymentBeforeOpening rejects payments dated before the customer's
// opening balance as-of date. Amounts from before that date are already
// folded into the opening balance; recording them again would count the
// money twice.
var ErrPaymentBeforeOpening = errors.New("payment predates the opening balance as-of date")

type PaymentService struct {
	Repo         *repositories.PaymentRepository
	CustomerRepo *repositories.CustomerRepository
}

func NewPaymentService(repo *repositories.PaymentRepository, customerRepo *repositories.CustomerRepository) *PaymentService {
	return &PaymentService{
		Repo:         repo,
		CustomerRepo: customerRepo,
	}
}

func (s *PaymentService) validate(ctx context.Context, customerID int, amount float64, date dateutil.Date) error {
	if amount < 0 {
		return errors.New("amount cannot be negative")
	}
	customer, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}
	if customer.OpeningBalanceAsOf != nil && date.Before(*customer.OpeningBalanceAsOf) {
		return ErrPaymentBeforeOpening
	}
	return nil
}

func (s *PaymentService) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if err := s.validate(ctx, req.CustomerID, req.Amount, date); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		CustomerID: req.CustomerID,
		Date:       date,
		Amount:     req.Amount,
		Note:       req.Note,
		Source:     models.PaymentSourceManual,
	}
	if err := s.Repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	cache.InvalidatePaymentCaches(ctx)
	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	return s.Repo.Get(ctx, id)
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id int, req *models.CreatePaymentRequest) (*models.Payment, error) {
	payment, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if err := s.validate(ctx, payment.CustomerID, req.Amount, date); err != nil {
		return nil, err
	}

	payment.Date = date
	payment.Amount = req.Amount
	payment.Note = req.Note
	if err := s.Repo.Update(ctx, payment); err != nil {
		return nil, err
	}

	cache.InvalidatePaymentCaches(ctx)
	return payment, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, id int) error {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePaymentCaches(ctx)
	return nil
}

func (s *PaymentService) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}
