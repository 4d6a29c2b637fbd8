package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"time"

	"dairy-backend/internal/cache"
	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/metrics"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

type RazorpayService struct {
	transactionRepo   *repositories.OnlineTransactionRepository
	paymentRepo       *repositories.PaymentRepository
	customerRepo      *repositories.CustomerRepository
	systemSettingRepo *repositories.SystemSettingRepository

	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayService(
	keyID, keySecret, webhookSecret string,
	transactionRepo *repositories.OnlineTransactionRepository,
	paymentRepo *repositories.PaymentRepository,
	customerRepo *repositories.CustomerRepository,
	systemSettingRepo *repositories.SystemSettingRepository,
) *RazorpayService {
	return &RazorpayService{
		transactionRepo:   transactionRepo,
		paymentRepo:       paymentRepo,
		customerRepo:      customerRepo,
		systemSettingRepo: systemSettingRepo,
		keyID:             keyID,
		keySecret:         keySecret,
		webhookSecret:     webhookSecret,
	}
}

func (s *RazorpayService) client() *razorpay.Client {
	if s.keyID == "" || s.keySecret == "" {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// IsEnabled checks the online payments toggle in system settings.
func (s *RazorpayService) IsEnabled(ctx context.Context) bool {
	return s.systemSettingRepo.GetValue(ctx, "online_payments_enabled", "false") == "true"
}

// FeePercent returns the configured convenience fee percentage.
func (s *RazorpayService) FeePercent(ctx context.Context) float64 {
	raw := s.systemSettingRepo.GetValue(ctx, "online_payment_fee_percent", "2.0")
	fee, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 2.0
	}
	return fee
}

// CalculateFee computes the fee for an amount, rounded to 2 decimals.
func CalculateFee(amount, feePercent float64) float64 {
	return float64(int((amount*feePercent/100)*100+0.5)) / 100
}

// PaymentStatus returns the toggle and fee for the portal checkout UI.
func (s *RazorpayService) PaymentStatus(ctx context.Context) *models.PaymentStatusResponse {
	return &models.PaymentStatusResponse{
		Enabled:    s.IsEnabled(ctx),
		FeePercent: s.FeePercent(ctx),
		KeyID:      s.keyID,
	}
}

// CreateOrder creates a Razorpay order and stores the pending
// transaction record.
func (s *RazorpayService) CreateOrder(ctx context.Context, customer *models.Customer, req *models.CreateOnlinePaymentRequest) (*models.CreateOrderResponse, error) {
	if !s.IsEnabled(ctx) {
		return nil, fmt.Errorf("online payments are currently disabled")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	client := s.client()
	if client == nil {
		return nil, fmt.Errorf("razorpay client not configured")
	}

	feePercent := s.FeePercent(ctx)
	feeAmount := CalculateFee(req.Amount, feePercent)
	totalAmount := req.Amount + feeAmount

	// Razorpay amounts are in paise
	amountPaise := int(totalAmount * 100)

	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("rcpt_%d_%d", customer.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"customer_id":    customer.ID,
			"customer_phone": customer.Phone,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID := order["id"].(string)

	tx := &models.OnlineTransaction{
		RazorpayOrderID: orderID,
		CustomerID:      customer.ID,
		CustomerPhone:   customer.Phone,
		CustomerName:    customer.Name,
		Amount:          req.Amount,
		FeeAmount:       feeAmount,
		TotalAmount:     totalAmount,
		Status:          models.OnlineTxStatusPending,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &models.CreateOrderResponse{
		OrderID:       orderID,
		Amount:        int(req.Amount * 100),
		FeeAmount:     int(feeAmount * 100),
		TotalAmount:   amountPaise,
		Currency:      "INR",
		KeyID:         s.keyID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		FeePercent:    feePercent,
	}, nil
}

// VerifyPayment verifies the checkout signature and settles the
// transaction: on success a ledger payment is recorded for the base
// amount (the fee never reduces the customer's balance).
func (s *RazorpayService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.OnlineTransaction, error) {
	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		_ = s.transactionRepo.MarkFailed(ctx, req.RazorpayOrderID, "Invalid signature")
		metrics.OnlinePaymentsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("invalid payment signature")
	}

	tx, err := s.transactionRepo.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}

	// Already settled through the webhook or a duplicate callback
	if tx.Status == models.OnlineTxStatusSuccess {
		return tx, nil
	}

	utr, method := s.fetchPaymentDetails(req.RazorpayPaymentID)
	if err := s.settle(ctx, tx, req.RazorpayPaymentID, req.RazorpaySignature, utr, method); err != nil {
		return nil, err
	}

	return s.transactionRepo.GetByOrderID(ctx, req.RazorpayOrderID)
}

// fetchPaymentDetails pulls UTR and method from the gateway, best effort.
func (s *RazorpayService) fetchPaymentDetails(paymentID string) (utr, method string) {
	client := s.client()
	if client == nil {
		return "", ""
	}
	payment, err := client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		log.Printf("[Razorpay] Failed to fetch payment details: %v", err)
		return "", ""
	}

	if v, ok := payment["acquirer_data"].(map[string]interface{}); ok {
		if u, ok := v["upi_transaction_id"].(string); ok {
			utr = u
		}
		if u, ok := v["bank_transaction_id"].(string); ok && utr == "" {
			utr = u
		}
		if u, ok := v["rrn"].(string); ok && utr == "" {
			utr = u
		}
	}
	if m, ok := payment["method"].(string); ok {
		method = m
	}
	return utr, method
}

// settle records the ledger payment and marks the transaction success.
func (s *RazorpayService) settle(ctx context.Context, tx *models.OnlineTransaction, paymentID, signature, utr, method string) error {
	note := fmt.Sprintf("Online payment via Razorpay | Order %s", tx.RazorpayOrderID)
	if utr != "" {
		note += " | UTR " + utr
	}

	// Payment is dated the day the money arrived, in UTC
	payment := &models.Payment{
		CustomerID: tx.CustomerID,
		Date:       dateutil.Today(),
		Amount:     tx.Amount,
		Note:       note,
		Source:     models.PaymentSourceOnline,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.transactionRepo.MarkSuccess(ctx, tx.RazorpayOrderID, paymentID, signature, utr, method, payment.ID); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	metrics.OnlinePaymentsTotal.WithLabelValues("success").Inc()
	cache.InvalidatePaymentCaches(ctx)
	return nil
}

// verifySignature verifies the Razorpay payment signature
func (s *RazorpayService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// VerifyWebhookSignature verifies the webhook signature
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true // Skip verification if not configured
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// ProcessWebhook processes Razorpay webhook events
func (s *RazorpayService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	switch event {
	case "payment.captured":
		return s.handlePaymentCaptured(ctx, payload)
	case "payment.failed":
		return s.handlePaymentFailed(ctx, payload)
	default:
		log.Printf("[Razorpay] Unhandled webhook event: %s", event)
		return nil
	}
}

func webhookEntity(payload map[string]interface{}) map[string]interface{} {
	paymentEntity, ok := payload["payment"].(map[string]interface{})
	if !ok {
		paymentEntity = payload
	}
	entity, ok := paymentEntity["entity"].(map[string]interface{})
	if !ok {
		entity = paymentEntity
	}
	return entity
}

func (s *RazorpayService) handlePaymentCaptured(ctx context.Context, payload map[string]interface{}) error {
	entity := webhookEntity(payload)

	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)
	if orderID == "" {
		return fmt.Errorf("missing order_id in webhook")
	}

	tx, err := s.transactionRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}
	if tx.Status == models.OnlineTxStatusSuccess {
		log.Printf("[Razorpay] Payment already processed: %s", orderID)
		return nil
	}

	utr := ""
	if acquirerData, ok := entity["acquirer_data"].(map[string]interface{}); ok {
		if u, ok := acquirerData["upi_transaction_id"].(string); ok {
			utr = u
		}
		if u, ok := acquirerData["bank_transaction_id"].(string); ok && utr == "" {
			utr = u
		}
	}
	method, _ := entity["method"].(string)

	return s.settle(ctx, tx, paymentID, "", utr, method)
}

func (s *RazorpayService) handlePaymentFailed(ctx context.Context, payload map[string]interface{}) error {
	entity := webhookEntity(payload)

	orderID, _ := entity["order_id"].(string)
	reason := "Payment failed"
	if desc, ok := entity["error_description"].(string); ok {
		reason = desc
	}

	if orderID == "" {
		return nil
	}
	metrics.OnlinePaymentsTotal.WithLabelValues("failed").Inc()
	return s.transactionRepo.MarkFailed(ctx, orderID, reason)
}

// TransactionHistory returns a customer's online payment attempts.
func (s *RazorpayService) TransactionHistory(ctx context.Context, customerID int) ([]*models.OnlineTransaction, error) {
	return s.transactionRepo.ListByCustomer(ctx, customerID)
}

// AllTransactions returns recent transactions for the admin view.
func (s *RazorpayService) AllTransactions(ctx context.Context, limit int) ([]*models.OnlineTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.transactionRepo.List(ctx, limit)
}
