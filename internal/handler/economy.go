package handler

import (
	"net/http"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/economy"
)

// EconomyHandler serves balance and ledger endpoints
type EconomyHandler struct {
	service economy.Service
}

// NewEconomyHandler creates a new EconomyHandler
func NewEconomyHandler(service economy.Service) *EconomyHandler {
	return &EconomyHandler{service: service}
}

// BalanceResponse is the response for balance queries
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// HandleGetBalance returns the user's currency balance
func (h *EconomyHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "Get balance", err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// HandleGetHistory returns the user's recent ledger entries
func (h *EconomyHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w, economy.DefaultHistoryLimit)
	if !ok {
		return
	}

	history, err := h.service.GetHistory(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, "Get transaction history", err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// GrantRequest is the body for admin currency grants
type GrantRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Amount      int    `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=200"`
}

// HandleGrant credits currency to a user
func (h *EconomyHandler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant currency"); err != nil {
		return
	}

	balance, err := h.service.Credit(r.Context(), req.UserID, req.Amount, domain.TxAdminGrant, req.Description)
	if err != nil {
		respondServiceError(w, r, "Grant currency", err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: req.UserID, Balance: balance})
}
