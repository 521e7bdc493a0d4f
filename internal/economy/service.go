package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/event"
	"github.com/questdesk/gacha/internal/logger"
	"github.com/questdesk/gacha/internal/repository"
)

// Service manages user currency balances and the transaction ledger
type Service interface {
	GetBalance(ctx context.Context, userID string) (int, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]domain.CurrencyTransaction, error)

	// Debit runs inside the caller's transaction scope. The caller owns
	// commit and rollback; Debit never opens its own transaction.
	Debit(ctx context.Context, scope repository.LedgerTx, userID string, amount int, txType domain.TransactionType, description string, metadata map[string]string) (balanceAfter int, err error)

	// Credit grants currency in its own transaction
	Credit(ctx context.Context, userID string, amount int, txType domain.TransactionType, description string) (balanceAfter int, err error)
}

type service struct {
	repo repository.Economy
	bus  event.Bus
}

// NewService creates an economy service
func NewService(repo repository.Economy, bus event.Bus) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) GetBalance(ctx context.Context, userID string) (int, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Currency, nil
}

func (s *service) GetHistory(ctx context.Context, userID string, limit int) ([]domain.CurrencyTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetTransactionHistory(ctx, userID, limit)
}

func (s *service) Debit(ctx context.Context, scope repository.LedgerTx, userID string, amount int, txType domain.TransactionType, description string, metadata map[string]string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidInput)
	}

	balance, err := scope.GetBalanceForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock balance: %w", err)
	}
	if balance < amount {
		return 0, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientFunds, balance, amount)
	}

	balanceAfter := balance - amount
	if err := scope.UpdateBalance(ctx, userID, balanceAfter); err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	txn := domain.CurrencyTransaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        -amount,
		Type:          txType,
		Description:   description,
		BalanceBefore: balance,
		BalanceAfter:  balanceAfter,
		Metadata:      metadata,
		CreatedAt:     time.Now(),
	}
	if err := scope.InsertTransaction(ctx, txn); err != nil {
		return 0, fmt.Errorf("failed to record transaction: %w", err)
	}

	logger.FromContext(ctx).Debug(LogMsgDebitApplied,
		"user_id", userID,
		"amount", amount,
		"balance_after", balanceAfter)
	return balanceAfter, nil
}

func (s *service) Credit(ctx context.Context, userID string, amount int, txType domain.TransactionType, description string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidInput)
	}
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	balance, err := tx.GetBalanceForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock balance: %w", err)
	}

	balanceAfter := balance + amount
	if err := tx.UpdateBalance(ctx, userID, balanceAfter); err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	txn := domain.CurrencyTransaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        amount,
		Type:          txType,
		Description:   description,
		BalanceBefore: balance,
		BalanceAfter:  balanceAfter,
		CreatedAt:     time.Now(),
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return 0, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit credit: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, event.NewCurrencyChangedEvent(userID, amount, balanceAfter, txType)); err != nil {
			log.Warn("Failed to publish currency change event", "error", err)
		}
	}

	log.Info(LogMsgCreditApplied,
		"user_id", userID,
		"amount", amount,
		"balance_after", balanceAfter)
	return balanceAfter, nil
}
