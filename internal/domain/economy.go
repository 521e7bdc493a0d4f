package domain

import "time"

// TransactionType classifies ledger entries
type TransactionType string

const (
	TxGachaPull  TransactionType = "GACHA_PULL"
	TxAdminGrant TransactionType = "ADMIN_GRANT"
	TxRefund     TransactionType = "REFUND"
)

// CurrencyTransaction is one append-only ledger entry. Amount is signed:
// debits are negative, credits positive. Before/after balances are snapshotted
// so the ledger can be audited without replaying.
type CurrencyTransaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Amount        int               `json:"amount"`
	Type          TransactionType   `json:"type"`
	Description   string            `json:"description,omitempty"`
	BalanceBefore int               `json:"balance_before"`
	BalanceAfter  int               `json:"balance_after"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// UserProfile is the slice of user state the engine needs: balance for the
// debit, level for cost scaling, and the admin flag for pool gating.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Currency int    `json:"currency"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	IsAdmin  bool   `json:"is_admin"`
}
