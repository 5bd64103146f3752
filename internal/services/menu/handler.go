package menu

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Handler handles HTTP requests for the menu catalog
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new menu handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register registers the menu routes on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /menu", h.GetMenu)
	mux.HandleFunc("POST /menu", h.CreateMenuItem)
	mux.HandleFunc("PUT /menu/{id}", h.UpdateMenuItem)
	mux.HandleFunc("DELETE /menu/{id}", h.DeleteMenuItem)
	mux.HandleFunc("GET /menu/{id}/options", h.ListOptions)
	mux.HandleFunc("POST /menu/{id}/options", h.CreateOption)
	mux.HandleFunc("PUT /options/{id}", h.UpdateOption)
	mux.HandleFunc("DELETE /options/{id}", h.DeleteOption)
}

// GetMenu handles GET /menu. The response is a versioned snapshot so the
// client can order it against snapshots arriving over the fan-out channel.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot, requestID)
}

// CreateMenuItem handles POST /menu
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.service.CreateMenuItem(r.Context(), &item); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.logger.Debug("menu_item_created", "Menu item created", requestID, map[string]interface{}{
		"menu_item_id": item.ID,
	})

	h.writeJSON(w, http.StatusOK, item, requestID)
}

// UpdateMenuItem handles PUT /menu/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	item.ID = id

	if err := h.service.UpdateMenuItem(r.Context(), &item); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, item, requestID)
}

// DeleteMenuItem handles DELETE /menu/{id}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	if err := h.service.DeleteMenuItem(r.Context(), id); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true}, requestID)
}

// ListOptions handles GET /menu/{id}/options
func (h *Handler) ListOptions(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	options, err := h.service.ListOptions(r.Context(), id)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	if options == nil {
		options = []models.MenuOption{}
	}

	h.writeJSON(w, http.StatusOK, options, requestID)
}

// CreateOption handles POST /menu/{id}/options
func (h *Handler) CreateOption(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	var option models.MenuOption
	if err := json.NewDecoder(r.Body).Decode(&option); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	option.MenuItemID = id

	if err := h.service.CreateOption(r.Context(), &option); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, option, requestID)
}

// UpdateOption handles PUT /options/{id}
func (h *Handler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid option id", requestID)
		return
	}

	var option models.MenuOption
	if err := json.NewDecoder(r.Body).Decode(&option); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	option.ID = id

	if err := h.service.UpdateOption(r.Context(), &option); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, option, requestID)
}

// DeleteOption handles DELETE /options/{id}
func (h *Handler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid option id", requestID)
		return
	}

	if err := h.service.DeleteOption(r.Context(), id); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true}, requestID)
}

// writeError maps domain failures to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		h.writeErrorResponse(w, http.StatusBadRequest, validationErr.Error(), requestID)
	case errors.As(err, &notFoundErr):
		h.writeErrorResponse(w, http.StatusNotFound, notFoundErr.Error(), requestID)
	default:
		h.logger.Error("request_failed", "Menu request failed", requestID, err, nil)
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
