package domain

import "time"

// GachaPull is one immutable record of an executed pull. Item display data is
// snapshotted because AssetItems are ephemeral and cannot be joined later.
type GachaPull struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id"`
	PoolID   string     `json:"pool_id"`
	ItemID   string     `json:"item_id"`
	ItemName string     `json:"item_name"`
	ImageURL string     `json:"image_url"`
	Rarity   RarityTier `json:"rarity"`
	Cost     int        `json:"cost"`
	PulledAt time.Time  `json:"pulled_at"`
}

// CollectionEntry tracks a user's ownership of an item. PullCount increments
// on repeat pulls; the first pull of an item is "new".
type CollectionEntry struct {
	UserID     string    `json:"user_id"`
	ItemID     string    `json:"item_id"`
	PullCount  int       `json:"pull_count"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// PullResult is what the engine hands back to the caller after a committed pull
type PullResult struct {
	Pull    GachaPull `json:"pull"`
	Item    AssetItem `json:"item"`
	IsNew   bool      `json:"is_new"`
	Balance int       `json:"balance"` // balance after the debit
}
