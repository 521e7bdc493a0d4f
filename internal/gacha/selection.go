package gacha

import (
	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/utils"
)

// Selector draws items from a candidate set according to a pool's rarity
// weights. The rng is injectable so tests can pin every draw.
type Selector struct {
	rng func() float64
}

// NewSelector creates a selector backed by the default randomness source
func NewSelector() *Selector {
	return &Selector{rng: utils.RandomFloat}
}

// NewSelectorWithRNG creates a selector with a caller-supplied uniform [0,1)
// source
func NewSelectorWithRNG(rng func() float64) *Selector {
	return &Selector{rng: rng}
}

// SelectTwoStage picks an item by first drawing a rarity tier from the pool's
// weights, then drawing uniformly within that tier. Items whose IDs appear in
// exclude are removed before the draw.
//
// A drawn tier with no candidates degrades to COMMON, then to the full
// remaining pool, so a sparse tier never kills the pull.
func (s *Selector) SelectTwoStage(items []domain.AssetItem, configs []domain.PoolRarityConfig, exclude map[string]bool) (*domain.AssetItem, error) {
	pool, err := filterExcluded(items, exclude)
	if err != nil {
		return nil, err
	}

	tier := s.drawTier(configs)

	candidates := itemsOfRarity(pool, tier)
	if len(candidates) == 0 {
		candidates = itemsOfRarity(pool, domain.RarityCommon)
	}
	if len(candidates) == 0 {
		candidates = pool
	}

	pick := candidates[int(s.rng()*float64(len(candidates)))%len(candidates)]
	return &pick, nil
}

// SelectFullyWeighted picks an item over a single cumulative distribution
// where each item's effective weight is rarityWeight * itemWeight. Used for
// pools whose items carry curated per-item weights.
func (s *Selector) SelectFullyWeighted(items []domain.AssetItem, configs []domain.PoolRarityConfig, exclude map[string]bool) (*domain.AssetItem, error) {
	pool, err := filterExcluded(items, exclude)
	if err != nil {
		return nil, err
	}

	tierWeights := make(map[domain.RarityTier]int, len(configs))
	for _, cfg := range configs {
		tierWeights[cfg.Rarity] = cfg.Weight
	}

	cumulative := make([]int, len(pool))
	total := 0
	for i, item := range pool {
		itemWeight := item.Weight
		if itemWeight <= 0 {
			itemWeight = 1
		}
		tierWeight := tierWeights[item.Rarity]
		if tierWeight <= 0 {
			tierWeight = 1
		}
		total += tierWeight * itemWeight
		cumulative[i] = total
	}

	r := int(s.rng() * float64(total))
	for i, bound := range cumulative {
		if r < bound {
			return &pool[i], nil
		}
	}
	// Unreachable for r in [0,total); guards float edge cases
	return &pool[len(pool)-1], nil
}

// drawTier draws a rarity from the pool's tier weights. Iteration follows
// AllRarities order with LEGENDARY as the terminal fallback, so a draw always
// lands on a defined tier even if weights are malformed.
func (s *Selector) drawTier(configs []domain.PoolRarityConfig) domain.RarityTier {
	weights := make(map[domain.RarityTier]int, len(configs))
	total := 0
	for _, cfg := range configs {
		weights[cfg.Rarity] = cfg.Weight
		total += cfg.Weight
	}
	if total <= 0 {
		return domain.RarityCommon
	}

	r := s.rng() * float64(total)
	for _, tier := range domain.AllRarities() {
		r -= float64(weights[tier])
		if r < 0 {
			return tier
		}
	}
	return domain.RarityLegendary
}

func filterExcluded(items []domain.AssetItem, exclude map[string]bool) ([]domain.AssetItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrNoItemsAvailable
	}
	if len(exclude) == 0 {
		return items, nil
	}

	pool := make([]domain.AssetItem, 0, len(items))
	for _, item := range items {
		if !exclude[item.ID] {
			pool = append(pool, item)
		}
	}
	if len(pool) == 0 {
		return nil, domain.ErrNoRemainingItems
	}
	return pool, nil
}

func itemsOfRarity(items []domain.AssetItem, tier domain.RarityTier) []domain.AssetItem {
	var matched []domain.AssetItem
	for _, item := range items {
		if item.Rarity == tier {
			matched = append(matched, item)
		}
	}
	return matched
}
