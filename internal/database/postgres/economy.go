package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/repository"
)

// EconomyRepository implements the economy repository for PostgreSQL
type EconomyRepository struct {
	db *pgxpool.Pool
}

// NewEconomyRepository creates a new EconomyRepository
func NewEconomyRepository(db *pgxpool.Pool) *EconomyRepository {
	return &EconomyRepository{db: db}
}

func (r *EconomyRepository) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return getUser(ctx, r.db, userID)
}

func (r *EconomyRepository) GetTransactionHistory(ctx context.Context, userID string, limit int) ([]domain.CurrencyTransaction, error) {
	query := `
		SELECT transaction_id, user_id, amount, tx_type, COALESCE(description, ''),
		       balance_before, balance_after, metadata, created_at
		FROM currency_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction history: %w", err)
	}
	defer rows.Close()

	var history []domain.CurrencyTransaction
	for rows.Next() {
		var txn domain.CurrencyTransaction
		var metadata []byte
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Amount, &txn.Type, &txn.Description,
			&txn.BalanceBefore, &txn.BalanceAfter, &metadata, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &txn.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}
		history = append(history, txn)
	}
	return history, rows.Err()
}

func (r *EconomyRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ledgerTx{tx: tx}, nil
}

// getUser is shared between the economy and gacha repositories
func getUser(ctx context.Context, db *pgxpool.Pool, userID string) (*domain.UserProfile, error) {
	query := `
		SELECT user_id, username, currency, level, xp, is_admin
		FROM users
		WHERE user_id = $1
	`
	var user domain.UserProfile
	err := db.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.Currency, &user.Level, &user.XP, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
