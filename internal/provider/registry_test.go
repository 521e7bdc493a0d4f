package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questdesk/gacha/internal/domain"
)

// stubProvider is a configurable in-memory Provider for registry tests
type stubProvider struct {
	name    string
	source  domain.AssetSource
	cfg     Config
	items   []domain.AssetItem
	err     error
	calls   int
	cleared []string
}

func (s *stubProvider) Name() string               { return s.name }
func (s *stubProvider) Source() domain.AssetSource { return s.source }
func (s *stubProvider) Config() Config             { return s.cfg }

func (s *stubProvider) GetItems(_ context.Context, _ *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

func (s *stubProvider) ItemURL(item domain.AssetItem, _ *TransformOptions) string {
	return "stub://" + item.ID
}

func (s *stubProvider) ValidateItem(context.Context, domain.AssetItem) bool { return true }

func (s *stubProvider) HealthCheck(context.Context) HealthStatus {
	return HealthStatus{Healthy: s.err == nil}
}

func (s *stubProvider) ClearCache(poolID string) { s.cleared = append(s.cleared, poolID) }

func stubLocal(items ...domain.AssetItem) *stubProvider {
	return &stubProvider{
		name:   "local",
		source: domain.SourceLocal,
		cfg:    Config{Priority: PriorityLocal, Enabled: true, Timeout: LocalTimeout},
		items:  items,
	}
}

func stubWallhaven(items ...domain.AssetItem) *stubProvider {
	return &stubProvider{
		name:   "wallhaven",
		source: domain.SourceWallhaven,
		cfg:    Config{Priority: PriorityWallhaven, Enabled: true, Timeout: WallhavenTimeout},
		items:  items,
	}
}

func allSourcesPool() *domain.GachaPool {
	return &domain.GachaPool{ID: "pool1", EnableLocal: true, EnableCloudinary: true, EnableWallhaven: true}
}

func TestRegistry_OrdersByPriority(t *testing.T) {
	wh := stubWallhaven()
	local := stubLocal()

	r := NewRegistry(wh, local)

	providers := r.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "local", providers[0].Name())
	assert.Equal(t, "wallhaven", providers[1].Name())
}

func TestRegistry_GetItems_TagsProviderSource(t *testing.T) {
	local := stubLocal(domain.AssetItem{ID: "a"})
	r := NewRegistry(local)

	items, err := r.GetItems(context.Background(), allSourcesPool(), 10)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.SourceLocal, items[0].Metadata.ProviderSource)
}

func TestRegistry_GetItems_IsolatesFailingProvider(t *testing.T) {
	local := stubLocal()
	local.err = errors.New("disk on fire")
	wh := stubWallhaven(domain.AssetItem{ID: "w1"}, domain.AssetItem{ID: "w2"})

	r := NewRegistry(local, wh)

	items, err := r.GetItems(context.Background(), allSourcesPool(), 10)

	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRegistry_GetItems_AllProvidersFailed(t *testing.T) {
	local := stubLocal()
	local.err = errors.New("disk on fire")
	wh := stubWallhaven()
	wh.err = errors.New("rate limited")

	r := NewRegistry(local, wh)

	items, err := r.GetItems(context.Background(), allSourcesPool(), 10)

	assert.Nil(t, items)
	require.ErrorIs(t, err, domain.ErrAllProvidersFailed)
	assert.Contains(t, err.Error(), "local failed: disk on fire")
	assert.Contains(t, err.Error(), "wallhaven failed: rate limited")
}

func TestRegistry_GetItems_SkipsDisabledProvider(t *testing.T) {
	local := stubLocal(domain.AssetItem{ID: "a"})
	local.cfg.Enabled = false
	wh := stubWallhaven(domain.AssetItem{ID: "w1"})

	r := NewRegistry(local, wh)

	items, err := r.GetItems(context.Background(), allSourcesPool(), 10)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "w1", items[0].ID)
	assert.Zero(t, local.calls)
}

func TestRegistry_GetItems_SkipsSourceDisabledOnPool(t *testing.T) {
	local := stubLocal(domain.AssetItem{ID: "a"})
	wh := stubWallhaven(domain.AssetItem{ID: "w1"})

	r := NewRegistry(local, wh)
	pool := &domain.GachaPool{ID: "pool1", EnableLocal: true} // wallhaven off

	items, err := r.GetItems(context.Background(), pool, 10)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Zero(t, wh.calls)
}

func TestRegistry_GetItems_EmptyResultsWithoutErrorsIsNotFailure(t *testing.T) {
	r := NewRegistry(stubLocal())

	items, err := r.GetItems(context.Background(), allSourcesPool(), 10)

	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestRegistry_GetItems_TruncatesToLimit(t *testing.T) {
	local := stubLocal(
		domain.AssetItem{ID: "a"},
		domain.AssetItem{ID: "b"},
		domain.AssetItem{ID: "c"},
	)
	wh := stubWallhaven(domain.AssetItem{ID: "w1"})

	r := NewRegistry(local, wh)

	items, err := r.GetItems(context.Background(), allSourcesPool(), 3)

	require.NoError(t, err)
	assert.Len(t, items, 3)
	// local filled the budget, wallhaven was never consulted
	assert.Zero(t, wh.calls)
}

func TestRegistry_ItemURL_DispatchesBySource(t *testing.T) {
	local := stubLocal()
	r := NewRegistry(local)

	item := domain.AssetItem{ID: "a", Metadata: domain.ItemMetadata{ProviderSource: domain.SourceLocal}}
	assert.Equal(t, "stub://a", r.ItemURL(item, nil))

	orphan := domain.AssetItem{ID: "b", ImageURL: "http://direct/b.jpg", Metadata: domain.ItemMetadata{ProviderSource: "unknown"}}
	assert.Equal(t, "http://direct/b.jpg", r.ItemURL(orphan, nil))
}

func TestRegistry_HealthCheck_CoversAllProviders(t *testing.T) {
	local := stubLocal()
	wh := stubWallhaven()
	wh.err = errors.New("down")

	r := NewRegistry(local, wh)

	statuses := r.HealthCheck(context.Background())

	require.Len(t, statuses, 2)
	assert.True(t, statuses["local"].Healthy)
	assert.False(t, statuses["wallhaven"].Healthy)
}

func TestRegistry_ClearCache_DispatchesToCacheableProviders(t *testing.T) {
	local := stubLocal()
	r := NewRegistry(local)

	r.ClearCache("pool1")

	assert.Equal(t, []string{"pool1"}, local.cleared)
}
