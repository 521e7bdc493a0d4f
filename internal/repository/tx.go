package repository

import (
	"context"

	"github.com/questdesk/gacha/internal/domain"
)

// Tx is the base interface for transactional units of work
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// LedgerTx is the transaction scope the economy ledger participates in.
// Collaborators invoked inside an outer scope must use it and never open
// their own transaction.
type LedgerTx interface {
	Tx
	// GetBalanceForUpdate reads the user's balance under a row lock held for
	// the remainder of the transaction.
	GetBalanceForUpdate(ctx context.Context, userID string) (int, error)
	UpdateBalance(ctx context.Context, userID string, balance int) error
	InsertTransaction(ctx context.Context, txn domain.CurrencyTransaction) error
}
