package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questdesk/gacha/internal/gacha"
	"github.com/questdesk/gacha/internal/logger"
)

// GachaHandler serves pull, history, collection, and pool listing endpoints
type GachaHandler struct {
	service gacha.Service
}

// NewGachaHandler creates a new GachaHandler
func NewGachaHandler(service gacha.Service) *GachaHandler {
	return &GachaHandler{service: service}
}

// PullRequest is the body for single and multi pulls
type PullRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Count  int    `json:"count" validate:"omitempty,min=1,max=10"`
}

// HandlePull executes pulls from a pool
// @Summary Execute gacha pulls
// @Tags gacha
// @Accept json
// @Produce json
// @Router /api/v1/gacha/pools/{poolID}/pull [post]
func (h *GachaHandler) HandlePull(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	var req PullRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Pull"); err != nil {
		return
	}

	if req.Count > 1 {
		results, err := h.service.PullMany(r.Context(), req.UserID, poolID, req.Count)
		if err != nil && len(results) == 0 {
			respondServiceError(w, r, "Multi pull", err)
			return
		}
		if err != nil {
			// Pulls that committed before the failure are returned; the
			// client sees what it paid for
			logger.FromContext(r.Context()).Warn("Multi pull ended early",
				"completed", len(results), "error", err)
		}
		respondJSON(w, http.StatusOK, results)
		return
	}

	result, err := h.service.Pull(r.Context(), req.UserID, poolID)
	if err != nil {
		respondServiceError(w, r, "Pull", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleListPools lists pools visible to the requesting user
func (h *GachaHandler) HandleListPools(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	pools, err := h.service.ListPools(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "List pools", err)
		return
	}

	respondJSON(w, http.StatusOK, pools)
}

// HandleGetHistory returns the user's recent pulls
func (h *GachaHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}
	limit, ok := GetLimitParam(r, w, gacha.DefaultHistoryLimit)
	if !ok {
		return
	}

	pulls, err := h.service.GetHistory(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, "Get pull history", err)
		return
	}

	respondJSON(w, http.StatusOK, pulls)
}

// HandleGetCollection returns the user's collected items
func (h *GachaHandler) HandleGetCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	collection, err := h.service.GetCollection(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "Get collection", err)
		return
	}

	respondJSON(w, http.StatusOK, collection)
}
