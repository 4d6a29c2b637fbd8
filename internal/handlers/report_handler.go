package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"dairy-backend/internal/services"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, _ := strconv.Atoi(vars["id"])
	period := vars["period"]

	pdf, err := h.Service.StatementPDF(r.Context(), customerID, period)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="statement-%d-%s.pdf"`, customerID, period))
	w.Write(pdf)
}

func (h *ReportHandler) ExportCustomersCSV(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, "customers.csv", h.Service.ExportCustomersCSV)
}

func (h *ReportHandler) ExportDeliveriesCSV(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, "deliveries.csv", h.Service.ExportDeliveriesCSV)
}

func (h *ReportHandler) ExportPaymentsCSV(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, "payments.csv", h.Service.ExportPaymentsCSV)
}

func (h *ReportHandler) serveCSV(w http.ResponseWriter, r *http.Request, filename string, export func(ctx context.Context) ([]byte, error)) {
	data, err := export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Write(data)
}
