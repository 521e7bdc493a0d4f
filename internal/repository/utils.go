package repository

import (
	"context"
	"strings"

	"github.com/questdesk/gacha/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error.
// Rolling back an already-committed tx is the normal deferred path and is
// not logged.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		if !strings.Contains(err.Error(), "closed") {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
