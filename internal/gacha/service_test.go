package gacha

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/questdesk/gacha/internal/domain"
)

func activePool() *domain.GachaPool {
	return &domain.GachaPool{
		ID:          "pool1",
		Name:        "Standard Banner",
		Type:        domain.PoolStandard,
		Cost:        100,
		IsActive:    true,
		EnableLocal: true,
	}
}

func testUser() *domain.UserProfile {
	return &domain.UserProfile{ID: "user1", Username: "tester", Currency: 1000, Level: 0}
}

func commonItems(ids ...string) []domain.AssetItem {
	items := make([]domain.AssetItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, domain.AssetItem{ID: id, Name: "Item " + id, ImageURL: "http://img/" + id, Rarity: domain.RarityCommon})
	}
	return items
}

func newTestService(repo *MockRepository, items *MockItemSource, ledger *MockLedger) Service {
	return NewService(repo, items, ledger, NewSelectorWithRNG(seqRNG(0.0)), nil)
}

func TestPull_Success(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(900, nil)
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", "a").Return(true, 1, nil)
	tx.On("Commit", ctx).Return(nil)
	tx.On("Rollback", ctx).Return(errors.New(domain.ErrMsgTxClosed)).Maybe()

	result, err := s.Pull(ctx, "user1", "pool1")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "a", result.Pull.ItemID)
	assert.Equal(t, "user1", result.Pull.UserID)
	assert.Equal(t, 100, result.Pull.Cost)
	assert.Equal(t, domain.RarityCommon, result.Pull.Rarity)
	assert.NotEmpty(t, result.Pull.ID)
	assert.True(t, result.IsNew)
	assert.Equal(t, 900, result.Balance)
	repo.AssertExpectations(t)
	items.AssertExpectations(t)
	ledger.AssertExpectations(t)
	tx.AssertExpectations(t)
}

func TestPull_LevelScalesCost(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()
	user := testUser()
	user.Level = 10 // 100 * 1.5 = 150

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(user, nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 150, domain.TxGachaPull, mock.Anything, mock.Anything).Return(850, nil)
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", "a").Return(false, 3, nil)
	tx.On("Commit", ctx).Return(nil)
	tx.On("Rollback", ctx).Return(errors.New(domain.ErrMsgTxClosed)).Maybe()

	result, err := s.Pull(ctx, "user1", "pool1")

	require.NoError(t, err)
	assert.Equal(t, 150, result.Pull.Cost)
	assert.False(t, result.IsNew)
	ledger.AssertExpectations(t)
}

func TestPull_PoolInactive(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	pool := activePool()
	pool.IsActive = false
	repo.On("GetPool", ctx, "pool1").Return(pool, nil)

	result, err := s.Pull(ctx, "user1", "pool1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPoolInactive)
}

func TestPull_PoolNotFound(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	repo.On("GetPool", ctx, "missing").Return(nil, domain.ErrPoolNotFound)

	result, err := s.Pull(ctx, "user1", "missing")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestPull_AdminOnlyBlocksNonAdmin(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	pool := activePool()
	pool.IsAdminOnly = true
	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)

	result, err := s.Pull(ctx, "user1", "pool1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPoolAdminOnly)
}

func TestPull_InsufficientFunds(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	user := testUser()
	user.Currency = 50
	repo.On("GetPool", ctx, "pool1").Return(activePool(), nil)
	repo.On("GetUser", ctx, "user1").Return(user, nil)

	result, err := s.Pull(ctx, "user1", "pool1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "have 50, need 100")
}

func TestPull_ProviderFailurePropagates(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	s := newTestService(repo, items, new(MockLedger))

	ctx := context.Background()
	pool := activePool()
	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(nil, domain.ErrAllProvidersFailed)

	result, err := s.Pull(ctx, "user1", "pool1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAllProvidersFailed)
}

func TestPull_CommitFailureReturnsError(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(900, nil)
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", "a").Return(true, 1, nil)
	tx.On("Commit", ctx).Return(errors.New("connection lost"))
	tx.On("Rollback", ctx).Return(nil)

	result, err := s.Pull(ctx, "user1", "pool1")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit pull")
	tx.AssertCalled(t, "Rollback", ctx)
}

func TestPull_DebitFailureRollsBack(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(0, domain.ErrInsufficientFunds)
	tx.On("Rollback", ctx).Return(nil)

	result, err := s.Pull(ctx, "user1", "pool1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	tx.AssertCalled(t, "Rollback", ctx)
	tx.AssertNotCalled(t, "Commit", ctx)
}

func TestPullMany_ExcludesAlreadyDrawn(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a", "b", "c"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(900, nil)
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", mock.Anything).Return(true, 1, nil)
	tx.On("Commit", ctx).Return(nil)
	tx.On("Rollback", ctx).Return(errors.New(domain.ErrMsgTxClosed)).Maybe()

	results, err := s.PullMany(ctx, "user1", "pool1", 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	seen := make(map[string]bool)
	for _, r := range results {
		assert.False(t, seen[r.Pull.ItemID], "item %s drawn twice", r.Pull.ItemID)
		seen[r.Pull.ItemID] = true
	}
}

func TestPullMany_StopsCleanlyWhenPoolExhausted(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a", "b"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(900, nil)
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", mock.Anything).Return(true, 1, nil)
	tx.On("Commit", ctx).Return(nil)
	tx.On("Rollback", ctx).Return(errors.New(domain.ErrMsgTxClosed)).Maybe()

	results, err := s.PullMany(ctx, "user1", "pool1", 5)

	// Only two distinct items exist; the batch ends early without error
	assert.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestPullMany_PartialResultsOnMidBatchFailure(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems("a", "b", "c"), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(900, nil).Twice()
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(0, domain.ErrInsufficientFunds).Once()
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", mock.Anything).Return(true, 1, nil)
	tx.On("Commit", ctx).Return(nil)
	tx.On("Rollback", ctx).Return(nil)

	results, err := s.PullMany(ctx, "user1", "pool1", 3)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Len(t, results, 2)
}

func TestPullMany_ClampsCount(t *testing.T) {
	repo := new(MockRepository)
	items := new(MockItemSource)
	ledger := new(MockLedger)
	tx := new(MockGachaTx)
	s := newTestService(repo, items, ledger)

	ctx := context.Background()
	pool := activePool()

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}

	repo.On("GetPool", ctx, "pool1").Return(pool, nil)
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("GetRarityConfigs", ctx, "pool1").Return(standardConfigs(), nil)
	items.On("GetItems", ctx, pool, CandidateBatchSize).Return(commonItems(ids...), nil)
	repo.On("BeginTx", ctx).Return(tx, nil)
	ledger.On("Debit", ctx, tx, "user1", 100, domain.TxGachaPull, mock.Anything, mock.Anything).Return(900, nil)
	tx.On("InsertPull", ctx, mock.Anything).Return(nil)
	tx.On("UpsertCollection", ctx, "user1", mock.Anything).Return(true, 1, nil)
	tx.On("Commit", ctx).Return(nil)
	tx.On("Rollback", ctx).Return(errors.New(domain.ErrMsgTxClosed)).Maybe()

	results, err := s.PullMany(ctx, "user1", "pool1", 50)

	require.NoError(t, err)
	assert.Len(t, results, MaxMultiPullCount)
}

func TestPullCost(t *testing.T) {
	assert.Equal(t, 100, PullCost(100, 0))
	assert.Equal(t, 105, PullCost(100, 1))
	assert.Equal(t, 150, PullCost(100, 10))
	assert.Equal(t, 262, PullCost(250, 1))
	assert.Equal(t, 0, PullCost(0, 10))
}

func TestListPools_FiltersAdminOnlyForNonAdmins(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	pools := []domain.GachaPool{
		{ID: "p1", IsActive: true},
		{ID: "p2", IsActive: true, IsAdminOnly: true},
	}
	repo.On("GetUser", ctx, "user1").Return(testUser(), nil)
	repo.On("ListPools", ctx, false).Return(pools, nil)

	visible, err := s.ListPools(ctx, "user1")

	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "p1", visible[0].ID)
}

func TestListPools_AdminSeesAll(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	admin := testUser()
	admin.IsAdmin = true
	pools := []domain.GachaPool{
		{ID: "p1", IsActive: true},
		{ID: "p2", IsActive: true, IsAdminOnly: true},
	}
	repo.On("GetUser", ctx, "user1").Return(admin, nil)
	repo.On("ListPools", ctx, false).Return(pools, nil)

	visible, err := s.ListPools(ctx, "user1")

	require.NoError(t, err)
	assert.Len(t, visible, 2)
}

func TestGetHistory_DefaultLimit(t *testing.T) {
	repo := new(MockRepository)
	s := newTestService(repo, new(MockItemSource), new(MockLedger))

	ctx := context.Background()
	repo.On("GetPullHistory", ctx, "user1", DefaultHistoryLimit).Return([]domain.GachaPull{}, nil)

	_, err := s.GetHistory(ctx, "user1", 0)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
