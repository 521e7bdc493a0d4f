package admin

import "github.com/questdesk/gacha/internal/domain"

// Default pull costs by pool type
const (
	DefaultStandardCost = 100
	DefaultPremiumCost  = 500
)

// seedProfiles are the initial rarity weights applied to a new pool.
// Standard pools favor commons heavily; premium pools flatten the curve.
var seedProfiles = map[domain.PoolType]map[domain.RarityTier]int{
	domain.PoolStandard: {
		domain.RarityCommon:    60,
		domain.RarityUncommon:  25,
		domain.RarityRare:      10,
		domain.RarityEpic:      4,
		domain.RarityLegendary: 1,
	},
	domain.PoolPremium: {
		domain.RarityCommon:    30,
		domain.RarityUncommon:  30,
		domain.RarityRare:      25,
		domain.RarityEpic:      10,
		domain.RarityLegendary: 5,
	},
}

// Log message constants
const (
	LogMsgPoolCreated         = "Pool created"
	LogMsgPoolUpdated         = "Pool updated"
	LogMsgPoolDeleted         = "Pool deleted"
	LogMsgRarityConfigUpdated = "Rarity config updated"
	LogMsgCacheCleared        = "Provider caches cleared"
)
