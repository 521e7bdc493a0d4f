package domain

import "time"

// PoolType distinguishes standard from premium pools. It informs the default
// cost tier and seed profile, not the selection algorithm.
type PoolType string

const (
	PoolStandard PoolType = "STANDARD"
	PoolPremium  PoolType = "PREMIUM"
)

// GachaPool is a named, priced collection of obtainable items
type GachaPool struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Type             PoolType  `json:"type"`
	Cost             int       `json:"cost"`
	IsActive         bool      `json:"is_active"`
	IsAdminOnly      bool      `json:"is_admin_only"`
	SearchTags       string    `json:"search_tags,omitempty"` // wallhaven query string
	EnableLocal      bool      `json:"enable_local"`
	EnableCloudinary bool      `json:"enable_cloudinary"`
	EnableWallhaven  bool      `json:"enable_wallhaven"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EnabledSources returns the provider sources this pool allows, in priority order
func (p *GachaPool) EnabledSources() []AssetSource {
	var sources []AssetSource
	if p.EnableLocal {
		sources = append(sources, SourceLocal)
	}
	if p.EnableCloudinary {
		sources = append(sources, SourceCloudinary)
	}
	if p.EnableWallhaven {
		sources = append(sources, SourceWallhaven)
	}
	return sources
}

// PoolRarityConfig is one row of a pool's tier weighting. Probability is
// denormalized as weight/Σweights and recomputed on every weight mutation.
type PoolRarityConfig struct {
	PoolID      string     `json:"pool_id"`
	Rarity      RarityTier `json:"rarity"`
	Weight      int        `json:"weight"`
	Probability float64    `json:"probability"`
}
