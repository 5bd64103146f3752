package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Handler handles HTTP requests for staff authentication
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register registers the auth routes on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /users", h.CreateUser)
	mux.HandleFunc("GET /users", h.ListUsers)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	user, err := h.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.logger.Debug("login_succeeded", "Staff login", requestID, map[string]interface{}{
		"username": user.Username,
	})

	h.writeJSON(w, http.StatusOK, user, requestID)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	user, err := h.service.CreateUser(r.Context(), body.Username, body.Password, body.IsAdmin)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, user, requestID)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	h.writeJSON(w, http.StatusOK, users, requestID)
}

// writeError maps domain failures to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	var (
		authErr       *models.AuthError
		validationErr *models.ValidationError
	)

	switch {
	case errors.As(err, &authErr):
		h.writeErrorResponse(w, http.StatusUnauthorized, authErr.Error(), requestID)
	case errors.As(err, &validationErr):
		h.writeErrorResponse(w, http.StatusBadRequest, validationErr.Error(), requestID)
	default:
		h.logger.Error("request_failed", "Auth request failed", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}

// writeJSON writes a successful JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}
