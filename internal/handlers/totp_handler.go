package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dairy-backend/internal/auth"
	"dairy-backend/internal/middleware"
	"dairy-backend/internal/models"
	"dairy-backend/internal/repositories"
	"dairy-backend/internal/services"
)

type TOTPHandler struct {
	Service      *services.TOTPService
	Users        *services.UserService
	JWTManager   *auth.JWTManager
	LoginLogRepo *repositories.LoginLogRepository
}

func NewTOTPHandler(s *services.TOTPService, users *services.UserService, jwtManager *auth.JWTManager, loginLogRepo *repositories.LoginLogRepository) *TOTPHandler {
	return &TOTPHandler{Service: s, Users: users, JWTManager: jwtManager, LoginLogRepo: loginLogRepo}
}

func totpStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrInvalidTOTPCode), errors.Is(err, services.ErrNoTOTPSecret):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Setup starts 2FA enrollment for the logged-in user and returns the
// secret plus a QR code for the authenticator app.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	setup, err := h.Service.GenerateSetup(r.Context(), user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setup)
}

// Enable completes enrollment by verifying the first code.
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.TOTPEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), userID, req.Code, clientIP(r)); err != nil {
		http.Error(w, err.Error(), totpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "2FA enabled"})
}

// VerifyLogin is login step 2: exchanges the short-lived temp token
// plus a valid TOTP code for a full session token.
func (h *TOTPHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.JWTManager.ValidateTempToken(req.TempToken)
	if err != nil {
		http.Error(w, "Invalid or expired temporary token", http.StatusUnauthorized)
		return
	}

	if err := h.Service.Verify(r.Context(), claims.UserID, req.Code, clientIP(r)); err != nil {
		http.Error(w, err.Error(), totpStatus(err))
		return
	}

	user, err := h.Users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		http.Error(w, "Could not issue token", http.StatusInternalServerError)
		return
	}

	if h.LoginLogRepo != nil {
		h.LoginLogRepo.RecordUserLogin(r.Context(), user.ID, clientIP(r), r.UserAgent())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&models.AuthResponse{Token: token, User: user})
}

// Disable turns 2FA off after verifying a current code.
func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.TOTPEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Disable(r.Context(), userID, req.Code, clientIP(r)); err != nil {
		http.Error(w, err.Error(), totpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "2FA disabled"})
}
