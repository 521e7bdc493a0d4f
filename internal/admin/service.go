package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/event"
	"github.com/questdesk/gacha/internal/logger"
	"github.com/questdesk/gacha/internal/provider"
	"github.com/questdesk/gacha/internal/repository"
)

// CreatePoolInput is the validated input for pool creation
type CreatePoolInput struct {
	Name             string `json:"name" validate:"required,max=100"`
	Description      string `json:"description" validate:"max=500"`
	Type             string `json:"type" validate:"required,oneof=STANDARD PREMIUM"`
	Cost             int    `json:"cost" validate:"omitempty,min=1"`
	IsAdminOnly      bool   `json:"is_admin_only"`
	SearchTags       string `json:"search_tags" validate:"max=200"`
	EnableLocal      bool   `json:"enable_local"`
	EnableCloudinary bool   `json:"enable_cloudinary"`
	EnableWallhaven  bool   `json:"enable_wallhaven"`
}

// UpdatePoolInput is the validated input for pool updates; nil fields are
// left unchanged
type UpdatePoolInput struct {
	Name             *string `json:"name" validate:"omitempty,max=100"`
	Description      *string `json:"description" validate:"omitempty,max=500"`
	Cost             *int    `json:"cost" validate:"omitempty,min=1"`
	IsActive         *bool   `json:"is_active"`
	IsAdminOnly      *bool   `json:"is_admin_only"`
	SearchTags       *string `json:"search_tags" validate:"omitempty,max=200"`
	EnableLocal      *bool   `json:"enable_local"`
	EnableCloudinary *bool   `json:"enable_cloudinary"`
	EnableWallhaven  *bool   `json:"enable_wallhaven"`
}

// Service manages pool configuration, rarity weights, and provider operations
type Service interface {
	CreatePool(ctx context.Context, input CreatePoolInput) (*domain.GachaPool, error)
	UpdatePool(ctx context.Context, poolID string, input UpdatePoolInput) (*domain.GachaPool, error)
	DeletePool(ctx context.Context, poolID string) error
	GetPool(ctx context.Context, poolID string) (*domain.GachaPool, error)
	ListPools(ctx context.Context) ([]domain.GachaPool, error)

	GetRarityConfigs(ctx context.Context, poolID string) ([]domain.PoolRarityConfig, error)
	// UpdateRarityConfigs replaces a pool's tier weights. Every defined tier
	// must be present with a positive weight; probabilities are recomputed
	// from the new weights.
	UpdateRarityConfigs(ctx context.Context, poolID string, weights map[domain.RarityTier]int) ([]domain.PoolRarityConfig, error)

	ProviderHealth(ctx context.Context) map[string]provider.HealthStatus
	ClearCache(ctx context.Context, poolID string)
}

type service struct {
	repo     repository.Gacha
	registry *provider.Registry
	bus      event.Bus
}

// NewService creates an admin service
func NewService(repo repository.Gacha, registry *provider.Registry, bus event.Bus) Service {
	return &service{repo: repo, registry: registry, bus: bus}
}

func (s *service) CreatePool(ctx context.Context, input CreatePoolInput) (*domain.GachaPool, error) {
	poolType := domain.PoolType(input.Type)

	cost := input.Cost
	if cost <= 0 {
		cost = DefaultStandardCost
		if poolType == domain.PoolPremium {
			cost = DefaultPremiumCost
		}
	}

	now := time.Now()
	pool := &domain.GachaPool{
		ID:               uuid.NewString(),
		Name:             input.Name,
		Description:      input.Description,
		Type:             poolType,
		Cost:             cost,
		IsActive:         true,
		IsAdminOnly:      input.IsAdminOnly,
		SearchTags:       input.SearchTags,
		EnableLocal:      input.EnableLocal,
		EnableCloudinary: input.EnableCloudinary,
		EnableWallhaven:  input.EnableWallhaven,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// New pools start from the type's seed profile so they are pullable
	// immediately
	if _, err := s.UpdateRarityConfigs(ctx, pool.ID, seedProfiles[poolType]); err != nil {
		return nil, fmt.Errorf("failed to seed rarity configs: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgPoolCreated, "pool_id", pool.ID, "name", pool.Name, "type", pool.Type)
	return pool, nil
}

func (s *service) UpdatePool(ctx context.Context, poolID string, input UpdatePoolInput) (*domain.GachaPool, error) {
	pool, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		pool.Name = *input.Name
	}
	if input.Description != nil {
		pool.Description = *input.Description
	}
	if input.Cost != nil {
		pool.Cost = *input.Cost
	}
	if input.IsActive != nil {
		pool.IsActive = *input.IsActive
	}
	if input.IsAdminOnly != nil {
		pool.IsAdminOnly = *input.IsAdminOnly
	}
	if input.SearchTags != nil {
		pool.SearchTags = *input.SearchTags
	}
	if input.EnableLocal != nil {
		pool.EnableLocal = *input.EnableLocal
	}
	if input.EnableCloudinary != nil {
		pool.EnableCloudinary = *input.EnableCloudinary
	}
	if input.EnableWallhaven != nil {
		pool.EnableWallhaven = *input.EnableWallhaven
	}
	pool.UpdatedAt = time.Now()

	if err := s.repo.UpdatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to update pool: %w", err)
	}

	s.publishPoolUpdated(ctx, poolID)
	logger.FromContext(ctx).Info(LogMsgPoolUpdated, "pool_id", poolID)
	return pool, nil
}

func (s *service) DeletePool(ctx context.Context, poolID string) error {
	if err := s.repo.DeletePool(ctx, poolID); err != nil {
		return err
	}
	s.registry.ClearCache(poolID)
	s.publishPoolUpdated(ctx, poolID)
	logger.FromContext(ctx).Info(LogMsgPoolDeleted, "pool_id", poolID)
	return nil
}

func (s *service) GetPool(ctx context.Context, poolID string) (*domain.GachaPool, error) {
	return s.repo.GetPool(ctx, poolID)
}

func (s *service) ListPools(ctx context.Context) ([]domain.GachaPool, error) {
	return s.repo.ListPools(ctx, true)
}

func (s *service) GetRarityConfigs(ctx context.Context, poolID string) ([]domain.PoolRarityConfig, error) {
	return s.repo.GetRarityConfigs(ctx, poolID)
}

func (s *service) UpdateRarityConfigs(ctx context.Context, poolID string, weights map[domain.RarityTier]int) ([]domain.PoolRarityConfig, error) {
	if len(weights) != domain.RarityCount {
		return nil, domain.ErrIncompleteRarityConfig
	}

	total := 0
	for _, tier := range domain.AllRarities() {
		weight, ok := weights[tier]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", domain.ErrIncompleteRarityConfig, tier)
		}
		if weight <= 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidWeight, tier)
		}
		total += weight
	}

	configs := make([]domain.PoolRarityConfig, 0, domain.RarityCount)
	for _, tier := range domain.AllRarities() {
		configs = append(configs, domain.PoolRarityConfig{
			PoolID:      poolID,
			Rarity:      tier,
			Weight:      weights[tier],
			Probability: float64(weights[tier]) / float64(total),
		})
	}

	if err := s.repo.ReplaceRarityConfigs(ctx, poolID, configs); err != nil {
		return nil, fmt.Errorf("failed to replace rarity configs: %w", err)
	}

	s.publishPoolUpdated(ctx, poolID)
	logger.FromContext(ctx).Info(LogMsgRarityConfigUpdated, "pool_id", poolID, "total_weight", total)
	return configs, nil
}

func (s *service) ProviderHealth(ctx context.Context) map[string]provider.HealthStatus {
	return s.registry.HealthCheck(ctx)
}

func (s *service) ClearCache(ctx context.Context, poolID string) {
	s.registry.ClearCache(poolID)
	logger.FromContext(ctx).Info(LogMsgCacheCleared, "pool_id", poolID)
}

func (s *service) publishPoolUpdated(ctx context.Context, poolID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.NewPoolUpdatedEvent(poolID)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish pool update event", "pool_id", poolID, "error", err)
	}
}
