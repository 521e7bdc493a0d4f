package domain

// Event type names shared between the event bus and the SSE surface
const (
	EventGachaPullCompleted = "gacha.pull.completed"
	EventPoolUpdated        = "gacha.pool.updated"
	EventCurrencyChanged    = "economy.currency.changed"
)

// PullCompletedPayload is the typed payload for gacha.pull.completed events
type PullCompletedPayload struct {
	UserID    string     `json:"user_id"`
	PoolID    string     `json:"pool_id"`
	PullID    string     `json:"pull_id"`
	ItemID    string     `json:"item_id"`
	ItemName  string     `json:"item_name"`
	ImageURL  string     `json:"image_url"`
	Rarity    RarityTier `json:"rarity"`
	Cost      int        `json:"cost"`
	IsNew     bool       `json:"is_new"`
	Balance   int        `json:"balance"`
	Timestamp int64      `json:"timestamp"`
}

// CurrencyChangedPayload is the typed payload for economy.currency.changed events
type CurrencyChangedPayload struct {
	UserID       string          `json:"user_id"`
	Amount       int             `json:"amount"`
	BalanceAfter int             `json:"balance_after"`
	Type         TransactionType `json:"type"`
	Timestamp    int64           `json:"timestamp"`
}
