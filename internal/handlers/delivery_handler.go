package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"
	"dairy-backend/internal/services"

	"github.com/gorilla/mux"
)

type DeliveryHandler struct {
	Service *services.DeliveryService
}

func NewDeliveryHandler(s *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{Service: s}
}

// UpsertDelivery creates or overwrites the delivery for one
// (customer, date). Quantity zero removes the row.
func (h *DeliveryHandler) UpsertDelivery(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	delivery, err := h.Service.UpsertDelivery(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if delivery == nil {
		// Zero quantity deleted the row.
		json.NewEncoder(w).Encode(map[string]string{"message": "Delivery removed"})
		return
	}
	json.NewEncoder(w).Encode(delivery)
}

func (h *DeliveryHandler) ApplyBatch(w http.ResponseWriter, r *http.Request) {
	var req models.DeliveryBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.ApplyBatch(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Failed() {
		// Partial results still go back so the client keeps the
		// rows that did round-trip.
		w.WriteHeader(http.StatusMultiStatus)
	}
	json.NewEncoder(w).Encode(result)
}

func (h *DeliveryHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["id"])

	deliveries, err := h.Service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deliveries)
}

// ListByDateRange returns deliveries across all customers between
// ?from= and ?to= (inclusive, YYYY-MM-DD).
func (h *DeliveryHandler) ListByDateRange(w http.ResponseWriter, r *http.Request) {
	from, err := dateutil.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := dateutil.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	deliveries, err := h.Service.ListByDateRange(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deliveries)
}
