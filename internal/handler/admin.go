package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questdesk/gacha/internal/admin"
	"github.com/questdesk/gacha/internal/domain"
)

// AdminHandler serves pool management, rarity config, and provider endpoints
type AdminHandler struct {
	service admin.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service admin.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// HandleCreatePool creates a pool seeded with its type's default rarity profile
func (h *AdminHandler) HandleCreatePool(w http.ResponseWriter, r *http.Request) {
	var req admin.CreatePoolInput
	if err := DecodeAndValidateRequest(r, w, &req, "Create pool"); err != nil {
		return
	}

	pool, err := h.service.CreatePool(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "Create pool", err)
		return
	}

	respondJSON(w, http.StatusCreated, pool)
}

// HandleUpdatePool applies a partial update to a pool
func (h *AdminHandler) HandleUpdatePool(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	var req admin.UpdatePoolInput
	if err := DecodeAndValidateRequest(r, w, &req, "Update pool"); err != nil {
		return
	}

	pool, err := h.service.UpdatePool(r.Context(), poolID, req)
	if err != nil {
		respondServiceError(w, r, "Update pool", err)
		return
	}

	respondJSON(w, http.StatusOK, pool)
}

// HandleDeletePool removes a pool and its rarity configs
func (h *AdminHandler) HandleDeletePool(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	if err := h.service.DeletePool(r.Context(), poolID); err != nil {
		respondServiceError(w, r, "Delete pool", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Pool deleted"})
}

// HandleGetPool returns one pool including inactive ones
func (h *AdminHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	pool, err := h.service.GetPool(r.Context(), poolID)
	if err != nil {
		respondServiceError(w, r, "Get pool", err)
		return
	}

	respondJSON(w, http.StatusOK, pool)
}

// HandleListPools returns every pool including inactive and admin-only ones
func (h *AdminHandler) HandleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.service.ListPools(r.Context())
	if err != nil {
		respondServiceError(w, r, "List pools", err)
		return
	}

	respondJSON(w, http.StatusOK, pools)
}

// RarityConfigRequest is the body for rarity weight replacement. Every tier
// must be present.
type RarityConfigRequest struct {
	Weights map[string]int `json:"weights" validate:"required"`
}

// HandleGetRarityConfigs returns a pool's tier weights and probabilities
func (h *AdminHandler) HandleGetRarityConfigs(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	configs, err := h.service.GetRarityConfigs(r.Context(), poolID)
	if err != nil {
		respondServiceError(w, r, "Get rarity configs", err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

// HandleUpdateRarityConfigs replaces a pool's tier weights
func (h *AdminHandler) HandleUpdateRarityConfigs(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")

	var req RarityConfigRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update rarity configs"); err != nil {
		return
	}

	weights := make(map[domain.RarityTier]int, len(req.Weights))
	for name, weight := range req.Weights {
		tier, ok := domain.ParseRarity(name)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrMsgRarityConfigError)
			return
		}
		weights[tier] = weight
	}

	configs, err := h.service.UpdateRarityConfigs(r.Context(), poolID, weights)
	if err != nil {
		respondServiceError(w, r, "Update rarity configs", err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

// HandleProviderHealth probes all registered providers
func (h *AdminHandler) HandleProviderHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.ProviderHealth(r.Context()))
}

// HandleClearCache drops cached provider results; pool_id query param scopes
// the clear, empty clears everything
func (h *AdminHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	poolID := GetOptionalQueryParam(r, "pool_id", "")
	h.service.ClearCache(r.Context(), poolID)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Provider caches cleared"})
}
