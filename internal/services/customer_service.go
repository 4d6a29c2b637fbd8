package services

import (
	"context"
	"errors"
	"fmt"

	"dairy-backend/internal/auth"
	"dairy-backend/internal/cache"
	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
	"dairy-backend/pkg/utils"
)

var ErrOpeningBalancePair = errors.New("opening balance and its as-of date must be set together")

type CustomerService struct {
	Repo         *repositories.CustomerRepository
	DeliveryRepo *repositories.DeliveryRepository
	PaymentRepo  *repositories.PaymentRepository
}

func NewCustomerService(repo *repositories.CustomerRepository, deliveryRepo *repositories.DeliveryRepository, paymentRepo *repositories.PaymentRepository) *CustomerService {
	return &CustomerService{
		Repo:         repo,
		DeliveryRepo: deliveryRepo,
		PaymentRepo:  paymentRepo,
	}
}

// resolveOpeningBalance validates the balance/as-of pairing and parses
// the date. Both set or both absent; anything else is rejected.
func resolveOpeningBalance(amount *float64, asOfRaw string) (*float64, *dateutil.Date, error) {
	if amount == nil && asOfRaw == "" {
		return nil, nil, nil
	}
	if amount == nil || asOfRaw == "" {
		return nil, nil, ErrOpeningBalancePair
	}
	asOf, err := dateutil.ParseDate(asOfRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid opening balance as-of date: %w", err)
	}
	return amount, &asOf, nil
}

func parseStatus(raw string) (models.CustomerStatus, error) {
	switch raw {
	case "", string(models.CustomerStatusActive):
		return models.CustomerStatusActive, nil
	case string(models.CustomerStatusInactive):
		return models.CustomerStatusInactive, nil
	default:
		return "", fmt.Errorf("invalid status %q", raw)
	}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if req.Name == "" || req.Phone == "" {
		return nil, errors.New("name and phone are required")
	}
	if req.MilkPrice <= 0 {
		return nil, errors.New("milk price must be positive")
	}

	phone := utils.NormalizePhone(req.Phone)
	if len(phone) < 10 {
		return nil, errors.New("phone must have at least 10 digits")
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	balance, asOf, err := resolveOpeningBalance(req.OpeningBalance, req.OpeningBalanceAsOf)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:               req.Name,
		Address:            req.Address,
		Phone:              phone,
		Email:              req.Email,
		MilkPrice:          req.MilkPrice,
		DefaultQuantity:    req.DefaultQuantity,
		Status:             status,
		OpeningBalance:     balance,
		OpeningBalanceAsOf: asOf,
		LocationLat:        req.LocationLat,
		LocationLng:        req.LocationLng,
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	cache.InvalidateCustomerCaches(ctx)
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	normalized := utils.NormalizePhone(phone)
	if normalized == "" {
		return nil, errors.New("phone number is required")
	}
	return s.Repo.GetByPhone(ctx, normalized)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.Repo.List(ctx)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if req.Name == "" || req.Phone == "" {
		return nil, errors.New("name and phone are required")
	}
	if req.MilkPrice <= 0 {
		return nil, errors.New("milk price must be positive")
	}

	customer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	phone := utils.NormalizePhone(req.Phone)
	if len(phone) < 10 {
		return nil, errors.New("phone must have at least 10 digits")
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	balance, asOf, err := resolveOpeningBalance(req.OpeningBalance, req.OpeningBalanceAsOf)
	if err != nil {
		return nil, err
	}

	customer.Name = req.Name
	customer.Address = req.Address
	customer.Phone = phone
	customer.Email = req.Email
	customer.MilkPrice = req.MilkPrice
	customer.DefaultQuantity = req.DefaultQuantity
	customer.Status = status
	customer.OpeningBalance = balance
	customer.OpeningBalanceAsOf = asOf
	customer.LocationLat = req.LocationLat
	customer.LocationLng = req.LocationLng

	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	cache.InvalidateCustomerCaches(ctx)
	return customer, nil
}

// DeleteCustomer removes a customer and everything hanging off them.
// The sequence is credential, payments, deliveries, then the customer
// row itself; the first failure aborts so no half-deleted customer is
// left invisible to cleanup.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return err
	}

	if err := s.Repo.DeleteCredential(ctx, id); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if err := s.PaymentRepo.DeleteByCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	if err := s.DeliveryRepo.DeleteByCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete deliveries: %w", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	cache.InvalidateCustomerCaches(ctx)
	return nil
}

// DeleteAllCustomers wipes every customer and their records. Each
// customer goes through the same cascade as a single delete.
func (s *CustomerService) DeleteAllCustomers(ctx context.Context) (int, error) {
	customers, err := s.Repo.List(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, c := range customers {
		if err := s.DeleteCustomer(ctx, c.ID); err != nil {
			return deleted, fmt.Errorf("customer %d: %w", c.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// SetCredential issues or resets a customer's portal password.
func (s *CustomerService) SetCredential(ctx context.Context, id int, password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Repo.SetCredential(ctx, id, hash)
}

// DeleteCredential revokes portal access without touching any records.
func (s *CustomerService) DeleteCredential(ctx context.Context, id int) error {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.DeleteCredential(ctx, id)
}
