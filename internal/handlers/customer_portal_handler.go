package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dairy-backend/internal/middleware"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
	"dairy-backend/internal/services"

	"github.com/gorilla/mux"
)

// CustomerPortalHandler serves the customer-facing portal endpoints.
// All authenticated routes take the customer ID from the token, never
// from the URL, so a customer can only ever see their own data.
type CustomerPortalHandler struct {
	Portal       *services.CustomerPortalService
	Billing      *services.BillingService
	Deliveries   *services.DeliveryService
	Payments     *services.PaymentService
	LoginLogRepo *repositories.LoginLogRepository
}

func NewCustomerPortalHandler(
	portal *services.CustomerPortalService,
	billing *services.BillingService,
	deliveries *services.DeliveryService,
	payments *services.PaymentService,
	loginLogRepo *repositories.LoginLogRepository,
) *CustomerPortalHandler {
	return &CustomerPortalHandler{
		Portal:       portal,
		Billing:      billing,
		Deliveries:   deliveries,
		Payments:     payments,
		LoginLogRepo: loginLogRepo,
	}
}

func (h *CustomerPortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Portal.Login(r.Context(), &req)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, services.ErrNoPortalAccess) {
			status = http.StatusForbidden
		}
		http.Error(w, err.Error(), status)
		return
	}

	if h.LoginLogRepo != nil {
		h.LoginLogRepo.RecordCustomerLogin(r.Context(), resp.Customer.ID, clientIP(r), r.UserAgent())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *CustomerPortalHandler) Me(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	customer, err := h.Portal.Customer(r.Context(), customerID)
	if err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customer)
}

// Statement returns the logged-in customer's statement for one
// billing month, including the delivery and payment rows.
func (h *CustomerPortalHandler) Statement(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	statement, err := h.Billing.CustomerStatement(r.Context(), customerID, mux.Vars(r)["period"], true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statement)
}

func (h *CustomerPortalHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deliveries, err := h.Deliveries.ListByCustomer(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deliveries)
}

func (h *CustomerPortalHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	payments, err := h.Payments.ListByCustomer(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payments)
}

// Balance returns the customer's full-history balance as of today.
func (h *CustomerPortalHandler) Balance(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetCustomerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := h.Billing.CurrentBalance(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{"balance": balance})
}
