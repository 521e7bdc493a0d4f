package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/questdesk/gacha/internal/domain"
)

// ledgerTx implements repository.LedgerTx over a pgx transaction
type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *ledgerTx) GetBalanceForUpdate(ctx context.Context, userID string) (int, error) {
	var balance int
	query := `SELECT currency FROM users WHERE user_id = $1 FOR UPDATE`
	err := t.tx.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to lock user balance: %w", err)
	}
	return balance, nil
}

func (t *ledgerTx) UpdateBalance(ctx context.Context, userID string, balance int) error {
	query := `UPDATE users SET currency = $1, updated_at = NOW() WHERE user_id = $2`
	tag, err := t.tx.Exec(ctx, query, balance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, txn domain.CurrencyTransaction) error {
	var metadata []byte
	if txn.Metadata != nil {
		data, err := json.Marshal(txn.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
		metadata = data
	}

	query := `
		INSERT INTO currency_transactions
			(transaction_id, user_id, amount, tx_type, description, balance_before, balance_after, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := t.tx.Exec(ctx, query,
		txn.ID, txn.UserID, txn.Amount, txn.Type, txn.Description,
		txn.BalanceBefore, txn.BalanceAfter, metadata, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
