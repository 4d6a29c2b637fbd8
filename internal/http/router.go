package http

import (
	"net/http"

	"dairy-backend/internal/config"
	"dairy-backend/internal/handlers"
	"dairy-backend/internal/middleware"

	"github.com/gorilla/mux"
)

// AdminRouterDeps collects everything the admin API needs.
type AdminRouterDeps struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Customers  *handlers.CustomerHandler
	Deliveries *handlers.DeliveryHandler
	Payments   *handlers.PaymentHandler
	Billing    *handlers.BillingHandler
	Imports    *handlers.ImportHandler
	Reports    *handlers.ReportHandler
	Content    *handlers.ContentHandler
	Razorpay   *handlers.RazorpayHandler
	TOTP       *handlers.TOTPHandler
	LoginLogs  *handlers.LoginLogHandler
	Health     *handlers.HealthHandler
}

// NewAdminRouter builds the operator/admin API served on the main port.
func NewAdminRouter(cfg *config.Config, d AdminRouterDeps, authMw *middleware.AuthMiddleware) http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", d.Health.Health).Methods("GET")
	r.HandleFunc("/auth/signup", d.Auth.Signup).Methods("POST")
	r.HandleFunc("/auth/login", d.Auth.Login).Methods("POST")
	r.HandleFunc("/auth/2fa/verify", d.TOTP.VerifyLogin).Methods("POST")

	// Razorpay server-to-server webhook, authenticated by signature.
	r.HandleFunc("/webhooks/razorpay", d.Razorpay.Webhook).Methods("POST")

	// Authenticated API (admin + operator)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMw.Authenticate)

	api.HandleFunc("/auth/me", d.Auth.Me).Methods("GET")
	api.HandleFunc("/auth/2fa/setup", d.TOTP.Setup).Methods("POST")
	api.HandleFunc("/auth/2fa/enable", d.TOTP.Enable).Methods("POST")
	api.HandleFunc("/auth/2fa/disable", d.TOTP.Disable).Methods("POST")

	api.HandleFunc("/customers", d.Customers.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", d.Customers.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", d.Customers.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", d.Customers.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}", d.Customers.DeleteCustomer).Methods("DELETE")
	api.HandleFunc("/customers/{id:[0-9]+}/credential", d.Customers.SetCredential).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}/credential", d.Customers.DeleteCredential).Methods("DELETE")

	api.HandleFunc("/customers/{id:[0-9]+}/deliveries", d.Deliveries.ListByCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}/payments", d.Payments.ListByCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}/statement/{period}", d.Billing.CustomerStatement).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}/statement/{period}/pdf", d.Reports.StatementPDF).Methods("GET")

	api.HandleFunc("/deliveries", d.Deliveries.UpsertDelivery).Methods("POST")
	api.HandleFunc("/deliveries/batch", d.Deliveries.ApplyBatch).Methods("POST")
	api.HandleFunc("/deliveries", d.Deliveries.ListByDateRange).Methods("GET")

	api.HandleFunc("/payments", d.Payments.CreatePayment).Methods("POST")
	api.HandleFunc("/payments/{id:[0-9]+}", d.Payments.GetPayment).Methods("GET")
	api.HandleFunc("/payments/{id:[0-9]+}", d.Payments.UpdatePayment).Methods("PUT")
	api.HandleFunc("/payments/{id:[0-9]+}", d.Payments.DeletePayment).Methods("DELETE")

	api.HandleFunc("/billing/{period}", d.Billing.Summary).Methods("GET")

	api.HandleFunc("/import/customers", d.Imports.ImportCustomers).Methods("POST")
	api.HandleFunc("/import/deliveries", d.Imports.ImportDeliveries).Methods("POST")

	api.HandleFunc("/export/customers", d.Reports.ExportCustomersCSV).Methods("GET")
	api.HandleFunc("/export/deliveries", d.Reports.ExportDeliveriesCSV).Methods("GET")
	api.HandleFunc("/export/payments", d.Reports.ExportPaymentsCSV).Methods("GET")

	// Admin-only routes
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(authMw.Authenticate, authMw.RequireAdmin)

	admin.HandleFunc("/users", d.Users.CreateUser).Methods("POST")
	admin.HandleFunc("/users", d.Users.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", d.Users.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", d.Users.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id:[0-9]+}", d.Users.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/users/{id:[0-9]+}/toggle-active", d.Users.ToggleActive).Methods("POST")

	admin.HandleFunc("/customers", d.Customers.DeleteAllCustomers).Methods("DELETE")

	admin.HandleFunc("/content/{key}", d.Content.GetContent).Methods("GET")
	admin.HandleFunc("/content/{key}", d.Content.UpdateContent).Methods("PUT")
	admin.HandleFunc("/settings", d.Content.ListSettings).Methods("GET")
	admin.HandleFunc("/settings/{key}", d.Content.UpdateSetting).Methods("PUT")
	admin.HandleFunc("/visitors", d.Content.VisitorCount).Methods("GET")

	admin.HandleFunc("/transactions", d.Razorpay.AllTransactions).Methods("GET")
	admin.HandleFunc("/login-logs", d.LoginLogs.List).Methods("GET")

	return chain(r, cfg)
}

// PortalRouterDeps collects the customer portal handlers.
type PortalRouterDeps struct {
	Portal   *handlers.CustomerPortalHandler
	Content  *handlers.ContentHandler
	Razorpay *handlers.RazorpayHandler
	Health   *handlers.HealthHandler
}

// NewPortalRouter builds the customer-facing portal API on its own
// port. Customer identity always comes from the token.
func NewPortalRouter(cfg *config.Config, d PortalRouterDeps, authMw *middleware.AuthMiddleware) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", d.Health.Health).Methods("GET")
	r.HandleFunc("/content", d.Content.PublicContent).Methods("GET")
	r.HandleFunc("/auth/login", d.Portal.Login).Methods("POST")
	r.HandleFunc("/payments/status", d.Razorpay.PaymentStatus).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMw.AuthenticateCustomer)

	api.HandleFunc("/me", d.Portal.Me).Methods("GET")
	api.HandleFunc("/balance", d.Portal.Balance).Methods("GET")
	api.HandleFunc("/statement/{period}", d.Portal.Statement).Methods("GET")
	api.HandleFunc("/deliveries", d.Portal.ListDeliveries).Methods("GET")
	api.HandleFunc("/payments", d.Portal.ListPayments).Methods("GET")

	api.HandleFunc("/payments/order", d.Razorpay.CreateOrder).Methods("POST")
	api.HandleFunc("/payments/verify", d.Razorpay.VerifyPayment).Methods("POST")
	api.HandleFunc("/payments/history", d.Razorpay.TransactionHistory).Methods("GET")

	return chain(r, cfg)
}

// chain wraps a router with the shared middleware stack, outermost
// first: panic recovery, CORS, then request metrics.
func chain(r *mux.Router, cfg *config.Config) http.Handler {
	var h http.Handler = r
	h = middleware.MetricsMiddleware(h)
	h = middleware.NewCORS(cfg)(h)
	h = middleware.PanicRecovery(h)
	return h
}
