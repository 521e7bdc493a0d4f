package gacha

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/event"
	"github.com/questdesk/gacha/internal/leveling"
	"github.com/questdesk/gacha/internal/logger"
	"github.com/questdesk/gacha/internal/repository"
)

// ItemSource supplies candidate items for a pool. Satisfied by
// provider.Registry.
type ItemSource interface {
	GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error)
}

// Ledger applies currency debits inside a caller-owned transaction scope.
// Satisfied by economy.Service.
type Ledger interface {
	Debit(ctx context.Context, scope repository.LedgerTx, userID string, amount int, txType domain.TransactionType, description string, metadata map[string]string) (balanceAfter int, err error)
}

// Service executes gacha pulls and exposes pull state
type Service interface {
	// Pull performs one pull: debit, pull log, and collection update commit
	// atomically.
	Pull(ctx context.Context, userID, poolID string) (*domain.PullResult, error)

	// PullMany performs up to count sequential pulls, excluding items already
	// drawn in the batch. Committed pulls are returned even when a later pull
	// fails, since they cannot be undone.
	PullMany(ctx context.Context, userID, poolID string, count int) ([]domain.PullResult, error)

	GetHistory(ctx context.Context, userID string, limit int) ([]domain.GachaPull, error)
	GetCollection(ctx context.Context, userID string) ([]domain.CollectionEntry, error)
	ListPools(ctx context.Context, userID string) ([]domain.GachaPool, error)
}

type service struct {
	repo     repository.Gacha
	items    ItemSource
	ledger   Ledger
	selector *Selector
	bus      event.Bus
}

// NewService creates a gacha service
func NewService(repo repository.Gacha, items ItemSource, ledger Ledger, selector *Selector, bus event.Bus) Service {
	return &service{
		repo:     repo,
		items:    items,
		ledger:   ledger,
		selector: selector,
		bus:      bus,
	}
}

// PullCost returns the level-scaled price of one pull from the pool.
// Formula: floor(baseCost * (1 + 0.05*level))
func PullCost(baseCost, level int) int {
	return int(math.Floor(float64(baseCost) * leveling.CurrencyMultiplier(level)))
}

func (s *service) Pull(ctx context.Context, userID, poolID string) (*domain.PullResult, error) {
	return s.pull(ctx, userID, poolID, nil)
}

func (s *service) PullMany(ctx context.Context, userID, poolID string, count int) ([]domain.PullResult, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxMultiPullCount {
		count = MaxMultiPullCount
	}

	results := make([]domain.PullResult, 0, count)
	drawn := make(map[string]bool, count)

	for i := 0; i < count; i++ {
		result, err := s.pull(ctx, userID, poolID, drawn)
		if err != nil {
			// Exhausting the candidate set ends the batch cleanly; the pulls
			// already committed stand on their own.
			if errors.Is(err, domain.ErrNoRemainingItems) {
				return results, nil
			}
			return results, err
		}
		drawn[result.Item.ID] = true
		results = append(results, *result)
	}
	return results, nil
}

func (s *service) pull(ctx context.Context, userID, poolID string, exclude map[string]bool) (*domain.PullResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPullStarted, "user_id", userID, "pool_id", poolID)

	pool, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if !pool.IsActive {
		return nil, domain.ErrPoolInactive
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pool.IsAdminOnly && !user.IsAdmin {
		return nil, domain.ErrPoolAdminOnly
	}

	cost := PullCost(pool.Cost, user.Level)
	// Early check before any provider work; the authoritative check happens
	// under the row lock inside the transaction.
	if user.Currency < cost {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientFunds, user.Currency, cost)
	}

	configs, err := s.repo.GetRarityConfigs(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rarity configs: %w", err)
	}

	items, err := s.items.GetItems(ctx, pool, CandidateBatchSize)
	if err != nil {
		return nil, err
	}

	item, err := s.selector.SelectTwoStage(items, configs, exclude)
	if err != nil {
		return nil, err
	}

	result, err := s.commitPull(ctx, user, pool, item, cost)
	if err != nil {
		log.Error(LogMsgPullFailed, "user_id", userID, "pool_id", poolID, "error", err)
		return nil, err
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, event.NewPullCompletedEvent(*result)); err != nil {
			log.Warn(LogMsgEventPublishSkipped, "pull_id", result.Pull.ID, "error", err)
		}
	}

	log.Info(LogMsgPullCompleted,
		"user_id", userID,
		"pool_id", poolID,
		"item_id", result.Pull.ItemID,
		"rarity", result.Pull.Rarity,
		"cost", cost,
		"is_new", result.IsNew)
	return result, nil
}

// commitPull applies the pull's persistent effects in one transaction:
// currency debit, pull log append, collection upsert. Any failure rolls back
// all three.
func (s *service) commitPull(ctx context.Context, user *domain.UserProfile, pool *domain.GachaPool, item *domain.AssetItem, cost int) (*domain.PullResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	balanceAfter, err := s.ledger.Debit(ctx, tx, user.ID, cost, domain.TxGachaPull,
		fmt.Sprintf("Pull from pool %s", pool.Name),
		map[string]string{
			"pool_id": pool.ID,
			"item_id": item.ID,
		})
	if err != nil {
		return nil, err
	}

	pull := domain.GachaPull{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		PoolID:   pool.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
		ImageURL: item.ImageURL,
		Rarity:   item.Rarity,
		Cost:     cost,
		PulledAt: time.Now(),
	}
	if err := tx.InsertPull(ctx, &pull); err != nil {
		return nil, fmt.Errorf("failed to record pull: %w", err)
	}

	wasNew, _, err := tx.UpsertCollection(ctx, user.ID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pull: %w", err)
	}

	return &domain.PullResult{
		Pull:    pull,
		Item:    *item,
		IsNew:   wasNew,
		Balance: balanceAfter,
	}, nil
}

func (s *service) GetHistory(ctx context.Context, userID string, limit int) ([]domain.GachaPull, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetPullHistory(ctx, userID, limit)
}

func (s *service) GetCollection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	return s.repo.GetCollection(ctx, userID)
}

// ListPools returns active pools visible to the user; admin-only pools are
// filtered out for non-admins
func (s *service) ListPools(ctx context.Context, userID string) ([]domain.GachaPool, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pools, err := s.repo.ListPools(ctx, false)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin {
		return pools, nil
	}
	visible := make([]domain.GachaPool, 0, len(pools))
	for _, pool := range pools {
		if !pool.IsAdminOnly {
			visible = append(visible, pool)
		}
	}
	return visible, nil
}
