package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Handler handles HTTP requests for orders
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register registers the order routes on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("GET /orders", h.ListActive)
	mux.HandleFunc("GET /orders/archived", h.ListArchived)
	mux.HandleFunc("PATCH /orders/{id}/status", h.SetStatus)
	mux.HandleFunc("POST /orders/{id}/archive", h.Archive)
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := h.service.CreateOrder(ctx, &req)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.logger.Debug("order_created", "Order created", requestID, map[string]interface{}{
		"order_id":     order.ID,
		"table_number": order.TableNumber,
	})

	h.writeJSON(w, http.StatusOK, order, requestID)
}

// ListActive handles GET /orders
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	orders, err := h.service.ListActive(r.Context())
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	h.writeJSON(w, http.StatusOK, orders, requestID)
}

// ListArchived handles GET /orders/archived
func (h *Handler) ListArchived(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	orders, err := h.service.ListArchived(r.Context())
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	h.writeJSON(w, http.StatusOK, orders, requestID)
}

// SetStatus handles PATCH /orders/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	order, err := h.service.SetStatus(r.Context(), id, models.OrderStatus(body.Status))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order, requestID)
}

// Archive handles POST /orders/{id}/archive
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	order, err := h.service.Archive(r.Context(), id)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, order, requestID)
}

// writeError maps domain failures to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		transitionErr *models.TransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		h.writeErrorResponse(w, http.StatusBadRequest, validationErr.Error(), requestID)
	case errors.As(err, &notFoundErr):
		h.writeErrorResponse(w, http.StatusNotFound, notFoundErr.Error(), requestID)
	case errors.As(err, &transitionErr):
		h.writeErrorResponse(w, http.StatusConflict, transitionErr.Error(), requestID)
	default:
		h.logger.Error("request_failed", "Order request failed", requestID, err, nil)
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
