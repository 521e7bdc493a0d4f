package gacha

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetPool(ctx context.Context, poolID string) (*domain.GachaPool, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GachaPool), args.Error(1)
}

func (m *MockRepository) ListPools(ctx context.Context, includeInactive bool) ([]domain.GachaPool, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GachaPool), args.Error(1)
}

func (m *MockRepository) CreatePool(ctx context.Context, pool *domain.GachaPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockRepository) UpdatePool(ctx context.Context, pool *domain.GachaPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockRepository) DeletePool(ctx context.Context, poolID string) error {
	args := m.Called(ctx, poolID)
	return args.Error(0)
}

func (m *MockRepository) GetRarityConfigs(ctx context.Context, poolID string) ([]domain.PoolRarityConfig, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PoolRarityConfig), args.Error(1)
}

func (m *MockRepository) ReplaceRarityConfigs(ctx context.Context, poolID string, configs []domain.PoolRarityConfig) error {
	args := m.Called(ctx, poolID, configs)
	return args.Error(0)
}

func (m *MockRepository) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockRepository) GetPullHistory(ctx context.Context, userID string, limit int) ([]domain.GachaPull, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GachaPull), args.Error(1)
}

func (m *MockRepository) GetCollection(ctx context.Context, userID string) ([]domain.CollectionEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionEntry), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.GachaTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.GachaTx), args.Error(1)
}

// MockGachaTx
type MockGachaTx struct {
	mock.Mock
}

func (m *MockGachaTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGachaTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGachaTx) GetBalanceForUpdate(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockGachaTx) UpdateBalance(ctx context.Context, userID string, balance int) error {
	args := m.Called(ctx, userID, balance)
	return args.Error(0)
}

func (m *MockGachaTx) InsertTransaction(ctx context.Context, txn domain.CurrencyTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockGachaTx) InsertPull(ctx context.Context, pull *domain.GachaPull) error {
	args := m.Called(ctx, pull)
	return args.Error(0)
}

func (m *MockGachaTx) UpsertCollection(ctx context.Context, userID, itemID string) (bool, int, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

// MockItemSource
type MockItemSource struct {
	mock.Mock
}

func (m *MockItemSource) GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	args := m.Called(ctx, pool, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetItem), args.Error(1)
}

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Debit(ctx context.Context, scope repository.LedgerTx, userID string, amount int, txType domain.TransactionType, description string, metadata map[string]string) (int, error) {
	args := m.Called(ctx, scope, userID, amount, txType, description, metadata)
	return args.Int(0), args.Error(1)
}
