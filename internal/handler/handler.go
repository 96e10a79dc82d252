package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"solestore/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a business error to a status code and user-facing
// message, falling back to a generic 500 for anything unrecognised.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var stockErr *model.InsufficientStockError
	var transitionErr *model.InvalidTransitionError

	switch {
	case errors.As(err, &stockErr):
		writeError(w, http.StatusConflict, stockErr.Error(), logger)
	case errors.As(err, &transitionErr):
		writeError(w, http.StatusConflict, "order can no longer be cancelled", logger)
	case errors.Is(err, model.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found", logger)
	case errors.Is(err, model.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found", logger)
	case errors.Is(err, model.ErrCartNotFound):
		writeError(w, http.StatusNotFound, "cart not found", logger)
	case errors.Is(err, model.ErrCartEmpty):
		writeError(w, http.StatusBadRequest, "cart is empty", logger)
	case errors.Is(err, model.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid quantity", logger)
	default:
		writeError(w, http.StatusInternalServerError, fallback, logger)
	}
}
