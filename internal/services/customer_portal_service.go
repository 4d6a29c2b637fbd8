package services

import (
	"context"
	"errors"

	"dairy-backend/internal/auth"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
	"dairy-backend/pkg/utils"
)

var (
	ErrPortalCredentials = errors.New("invalid phone or password")
	ErrNoPortalAccess    = errors.New("portal access has not been enabled for this account")
)

// CustomerPortalService authenticates customers by phone and password
// for the read-only portal on the second listener.
type CustomerPortalService struct {
	CustomerRepo *repositories.CustomerRepository
	JWTManager   *auth.JWTManager
}

func NewCustomerPortalService(customerRepo *repositories.CustomerRepository, jwtManager *auth.JWTManager) *CustomerPortalService {
	return &CustomerPortalService{
		CustomerRepo: customerRepo,
		JWTManager:   jwtManager,
	}
}

// Login verifies phone + password and issues a customer token.
func (s *CustomerPortalService) Login(ctx context.Context, req *models.CustomerLoginRequest) (*models.CustomerAuthResponse, error) {
	phone := utils.NormalizePhone(req.Phone)
	if phone == "" || req.Password == "" {
		return nil, errors.New("phone and password are required")
	}

	customer, err := s.CustomerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, ErrPortalCredentials
	}
	if !customer.IsActive() {
		return nil, errors.New("account inactive, please contact the dairy")
	}

	hash, err := s.CustomerRepo.GetCredential(ctx, customer.ID)
	if err != nil || hash == "" {
		return nil, ErrNoPortalAccess
	}
	if !auth.VerifyPassword(hash, req.Password) {
		return nil, ErrPortalCredentials
	}

	token, err := s.JWTManager.GenerateCustomerToken(customer, req.RememberMe)
	if err != nil {
		return nil, err
	}

	return &models.CustomerAuthResponse{
		Token:    token,
		Customer: customer,
	}, nil
}

// Customer returns the portal user's own customer record.
func (s *CustomerPortalService) Customer(ctx context.Context, customerID int) (*models.Customer, error) {
	return s.CustomerRepo.Get(ctx, customerID)
}
