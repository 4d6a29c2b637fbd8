package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dairy-backend/internal/services"

	"github.com/gorilla/mux"
)

type BillingHandler struct {
	Service *services.BillingService
}

func NewBillingHandler(s *services.BillingService) *BillingHandler {
	return &BillingHandler{Service: s}
}

// CustomerStatement returns one customer's statement for a billing
// month. ?records=true includes the underlying delivery and payment
// rows for that month.
func (h *BillingHandler) CustomerStatement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, _ := strconv.Atoi(vars["id"])
	includeRecords := r.URL.Query().Get("records") == "true"

	statement, err := h.Service.CustomerStatement(r.Context(), customerID, vars["period"], includeRecords)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statement)
}

func (h *BillingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), mux.Vars(r)["period"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
