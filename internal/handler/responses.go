package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/questdesk/gacha/internal/domain"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgUserNotFoundError    = "User not found"
	ErrMsgPoolNotFoundError    = "Pool not found"
	ErrMsgPoolInactiveError    = "That pool is not currently active"
	ErrMsgPoolAdminOnlyError   = "That pool is restricted"
	ErrMsgNotEnoughMoneyError  = "Not enough currency"
	ErrMsgNoItemsError         = "No items are available in this pool right now"
	ErrMsgNoRemainingItemsErr  = "No more items available to pull"
	ErrMsgProvidersDownError   = "Item sources are temporarily unavailable. Please try again."
	ErrMsgRarityConfigError    = "Rarity weights must cover every tier"
	ErrMsgInvalidWeightError   = "Rarity weights must be positive"
	ErrMsgInvalidRequestValues = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrPoolNotFound):
		return http.StatusNotFound, ErrMsgPoolNotFoundError
	case errors.Is(err, domain.ErrPoolInactive):
		return http.StatusForbidden, ErrMsgPoolInactiveError
	case errors.Is(err, domain.ErrPoolAdminOnly):
		return http.StatusForbidden, ErrMsgPoolAdminOnlyError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrNoItemsAvailable):
		return http.StatusConflict, ErrMsgNoItemsError
	case errors.Is(err, domain.ErrNoRemainingItems):
		return http.StatusConflict, ErrMsgNoRemainingItemsErr
	case errors.Is(err, domain.ErrAllProvidersFailed):
		return http.StatusBadGateway, ErrMsgProvidersDownError
	case errors.Is(err, domain.ErrIncompleteRarityConfig):
		return http.StatusBadRequest, ErrMsgRarityConfigError
	case errors.Is(err, domain.ErrInvalidWeight):
		return http.StatusBadRequest, ErrMsgInvalidWeightError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestValues
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	errMsg := err.Error()
	if errMsg != "" && len(errMsg) < 200 {
		return http.StatusInternalServerError, errMsg
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs the error and writes the mapped user-facing
// response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	slog.Error("Operation failed", "op", opName, "error", err)
	statusCode, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, statusCode, userMsg)
}
