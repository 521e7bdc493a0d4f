package gacha

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questdesk/gacha/internal/domain"
)

// seqRNG returns a rng that replays the given values in order
func seqRNG(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func standardConfigs() []domain.PoolRarityConfig {
	return []domain.PoolRarityConfig{
		{Rarity: domain.RarityCommon, Weight: 60, Probability: 0.60},
		{Rarity: domain.RarityUncommon, Weight: 25, Probability: 0.25},
		{Rarity: domain.RarityRare, Weight: 10, Probability: 0.10},
		{Rarity: domain.RarityEpic, Weight: 4, Probability: 0.04},
		{Rarity: domain.RarityLegendary, Weight: 1, Probability: 0.01},
	}
}

func oneItemPerTier() []domain.AssetItem {
	return []domain.AssetItem{
		{ID: "c1", Rarity: domain.RarityCommon},
		{ID: "u1", Rarity: domain.RarityUncommon},
		{ID: "r1", Rarity: domain.RarityRare},
		{ID: "e1", Rarity: domain.RarityEpic},
		{ID: "l1", Rarity: domain.RarityLegendary},
	}
}

func TestSelectTwoStage_TierDistribution(t *testing.T) {
	src := rand.New(rand.NewSource(42))
	s := NewSelectorWithRNG(src.Float64)
	items := oneItemPerTier()
	configs := standardConfigs()

	const draws = 10000
	counts := make(map[domain.RarityTier]int)
	for i := 0; i < draws; i++ {
		item, err := s.SelectTwoStage(items, configs, nil)
		require.NoError(t, err)
		counts[item.Rarity]++
	}

	for _, cfg := range configs {
		rate := float64(counts[cfg.Rarity]) / draws
		assert.InDelta(t, cfg.Probability, rate, 0.03, "tier %s drawn at %.4f, want %.2f", cfg.Rarity, rate, cfg.Probability)
	}
}

func TestSelectTwoStage_DrawsPinnedTier(t *testing.T) {
	// 0.999 of total weight 100 lands past every lower tier
	s := NewSelectorWithRNG(seqRNG(0.999, 0.0))

	item, err := s.SelectTwoStage(oneItemPerTier(), standardConfigs(), nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.RarityLegendary, item.Rarity)
}

func TestSelectTwoStage_EmptyTierFallsBackToCommon(t *testing.T) {
	s := NewSelectorWithRNG(seqRNG(0.999, 0.0))
	items := []domain.AssetItem{
		{ID: "c1", Rarity: domain.RarityCommon},
		{ID: "c2", Rarity: domain.RarityCommon},
	}

	item, err := s.SelectTwoStage(items, standardConfigs(), nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.RarityCommon, item.Rarity)
}

func TestSelectTwoStage_EmptyTierAndNoCommonFallsBackToPool(t *testing.T) {
	s := NewSelectorWithRNG(seqRNG(0.999, 0.0))
	items := []domain.AssetItem{
		{ID: "r1", Rarity: domain.RarityRare},
	}

	item, err := s.SelectTwoStage(items, standardConfigs(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "r1", item.ID)
}

func TestSelectTwoStage_NoItems(t *testing.T) {
	s := NewSelector()

	item, err := s.SelectTwoStage(nil, standardConfigs(), nil)

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrNoItemsAvailable)
}

func TestSelectTwoStage_AllExcluded(t *testing.T) {
	s := NewSelector()
	items := oneItemPerTier()
	exclude := map[string]bool{"c1": true, "u1": true, "r1": true, "e1": true, "l1": true}

	item, err := s.SelectTwoStage(items, standardConfigs(), exclude)

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrNoRemainingItems)
}

func TestSelectTwoStage_ExcludedItemNeverDrawn(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	s := NewSelectorWithRNG(src.Float64)
	items := []domain.AssetItem{
		{ID: "c1", Rarity: domain.RarityCommon},
		{ID: "c2", Rarity: domain.RarityCommon},
	}
	exclude := map[string]bool{"c1": true}

	for i := 0; i < 100; i++ {
		item, err := s.SelectTwoStage(items, standardConfigs(), exclude)
		require.NoError(t, err)
		assert.Equal(t, "c2", item.ID)
	}
}

func TestDrawTier_ZeroTotalWeight(t *testing.T) {
	s := NewSelectorWithRNG(seqRNG(0.5))

	tier := s.drawTier([]domain.PoolRarityConfig{
		{Rarity: domain.RarityCommon, Weight: 0},
		{Rarity: domain.RarityLegendary, Weight: 0},
	})

	assert.Equal(t, domain.RarityCommon, tier)
}

func TestSelectFullyWeighted_BiasFollowsCombinedWeight(t *testing.T) {
	src := rand.New(rand.NewSource(11))
	s := NewSelectorWithRNG(src.Float64)
	// common weight 60 * item 1 = 60, legendary 1 * item 1 = 1
	items := []domain.AssetItem{
		{ID: "c1", Rarity: domain.RarityCommon, Weight: 1},
		{ID: "l1", Rarity: domain.RarityLegendary, Weight: 1},
	}
	configs := standardConfigs()

	const draws = 10000
	commons := 0
	for i := 0; i < draws; i++ {
		item, err := s.SelectFullyWeighted(items, configs, nil)
		require.NoError(t, err)
		if item.ID == "c1" {
			commons++
		}
	}

	rate := float64(commons) / draws
	assert.InDelta(t, 60.0/61.0, rate, 0.02)
}

func TestSelectFullyWeighted_ZeroWeightsTreatedAsOne(t *testing.T) {
	s := NewSelectorWithRNG(seqRNG(0.0))
	items := []domain.AssetItem{
		{ID: "a", Rarity: domain.RarityCommon, Weight: 0},
	}

	item, err := s.SelectFullyWeighted(items, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, "a", item.ID)
}

func TestSelectFullyWeighted_FloatEdgeFallsToLastItem(t *testing.T) {
	s := NewSelectorWithRNG(seqRNG(0.9999999999999999))
	items := []domain.AssetItem{
		{ID: "a", Rarity: domain.RarityCommon, Weight: 1},
		{ID: "b", Rarity: domain.RarityCommon, Weight: 1},
	}
	configs := []domain.PoolRarityConfig{{Rarity: domain.RarityCommon, Weight: 1}}

	item, err := s.SelectFullyWeighted(items, configs, nil)

	assert.NoError(t, err)
	assert.Equal(t, "b", item.ID)
}
