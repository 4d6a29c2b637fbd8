package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"dairy-backend/internal/services"
)

type ImportHandler struct {
	Service *services.ImportService
}

func NewImportHandler(s *services.ImportService) *ImportHandler {
	return &ImportHandler{Service: s}
}

// csvBody extracts the CSV payload from the request: either a
// multipart upload under the "file" field, or the raw request body.
func csvBody(r *http.Request) (io.Reader, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return r.Body, nil
}

func (h *ImportHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	body, err := csvBody(r)
	if err != nil {
		http.Error(w, "Could not read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.Service.ImportCustomers(r.Context(), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *ImportHandler) ImportDeliveries(w http.ResponseWriter, r *http.Request) {
	body, err := csvBody(r)
	if err != nil {
		http.Error(w, "Could not read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.Service.ImportDeliveries(r.Context(), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if summary.UpsertError != "" || summary.DeleteError != "" {
		w.WriteHeader(http.StatusMultiStatus)
	}
	json.NewEncoder(w).Encode(summary)
}
