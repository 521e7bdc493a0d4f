package repository

import (
	"context"

	"github.com/questdesk/gacha/internal/domain"
)

// Gacha defines persistence for pools, rarity configs, and pull state
type Gacha interface {
	GetPool(ctx context.Context, poolID string) (*domain.GachaPool, error)
	ListPools(ctx context.Context, includeInactive bool) ([]domain.GachaPool, error)
	CreatePool(ctx context.Context, pool *domain.GachaPool) error
	UpdatePool(ctx context.Context, pool *domain.GachaPool) error
	DeletePool(ctx context.Context, poolID string) error

	GetRarityConfigs(ctx context.Context, poolID string) ([]domain.PoolRarityConfig, error)
	// ReplaceRarityConfigs upserts the full tier set in one transaction;
	// all rows succeed or none do.
	ReplaceRarityConfigs(ctx context.Context, poolID string, configs []domain.PoolRarityConfig) error

	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetPullHistory(ctx context.Context, userID string, limit int) ([]domain.GachaPull, error)
	GetCollection(ctx context.Context, userID string) ([]domain.CollectionEntry, error)

	BeginTx(ctx context.Context) (GachaTx, error)
}

// GachaTx is the unit of work for one pull: currency debit, pull log append,
// and collection upsert commit or roll back together.
type GachaTx interface {
	LedgerTx
	InsertPull(ctx context.Context, pull *domain.GachaPull) error
	// UpsertCollection increments the user's pull count for the item,
	// creating the entry on first pull. wasNew reports whether no entry
	// existed before the upsert.
	UpsertCollection(ctx context.Context, userID, itemID string) (wasNew bool, pullCount int, err error)
}
