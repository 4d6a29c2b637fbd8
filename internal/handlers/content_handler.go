package handlers

import (
	"encoding/json"
	"net/http"

	"dairy-backend/internal/models"
	"dairy-backend/internal/services"

	"github.com/gorilla/mux"
)

type ContentHandler struct {
	Service *services.ContentService
}

func NewContentHandler(s *services.ContentService) *ContentHandler {
	return &ContentHandler{Service: s}
}

// PublicContent returns all site content blocks and bumps the visitor
// counter. Served unauthenticated on the portal.
func (h *ContentHandler) PublicContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.Service.PublicContent(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	visitors := h.Service.RecordVisit(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"content":  content,
		"visitors": visitors,
	})
}

func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.Service.GetContent(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		http.Error(w, "Content not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(content)
}

func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSiteContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	content, err := h.Service.UpdateContent(r.Context(), mux.Vars(r)["key"], req.Value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(content)
}

func (h *ContentHandler) VisitorCount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"visitors": h.Service.VisitorCount(r.Context())})
}

func (h *ContentHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.ListSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *ContentHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	setting, err := h.Service.UpdateSetting(r.Context(), mux.Vars(r)["key"], req.SettingValue)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setting)
}
