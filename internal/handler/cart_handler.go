package handler

import (
	"encoding/json"
	"net/http"

	"solestore/internal/middleware"
	"solestore/internal/model"
	"solestore/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	view, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(view))
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	var req model.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	view, err := h.service.AddItem(r.Context(), userID, &req)
	if err != nil {
		writeDomainError(w, err, "failed to add item to cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(view))
}

// RemoveItem handles DELETE /api/cart/items requests. Removing a line that
// does not exist succeeds quietly.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	var req model.RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, &req); err != nil {
		writeDomainError(w, err, "failed to remove item from cart", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CartResponse is a cart view with its totals materialised for the client.
type CartResponse struct {
	*model.CartView
	TotalPrice string `json:"totalPrice"`
	TotalItems int    `json:"totalItems"`
}

func cartResponse(view *model.CartView) CartResponse {
	return CartResponse{
		CartView:   view,
		TotalPrice: view.TotalPrice().String(),
		TotalItems: view.TotalItems(),
	}
}
