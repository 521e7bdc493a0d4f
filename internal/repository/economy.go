package repository

import (
	"context"

	"github.com/questdesk/gacha/internal/domain"
)

// Economy defines the interface for economy persistence
type Economy interface {
	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetTransactionHistory(ctx context.Context, userID string, limit int) ([]domain.CurrencyTransaction, error)
	BeginTx(ctx context.Context) (LedgerTx, error)
}
