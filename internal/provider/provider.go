package provider

import (
	"context"
	"time"

	"github.com/questdesk/gacha/internal/domain"
)

// Config declares a provider's registry-facing parameters
type Config struct {
	Priority      int // lower = checked first
	Enabled       bool
	Timeout       time.Duration
	RetryAttempts int
}

// HealthStatus is the result of a provider availability probe
type HealthStatus struct {
	Healthy     bool      `json:"healthy"`
	Latency     int64     `json:"latency_ms"`
	LastChecked time.Time `json:"last_checked"`
	Error       string    `json:"error,omitempty"`
}

// TransformOptions are optional delivery-URL transform hints. Providers that
// cannot transform ignore them.
type TransformOptions struct {
	Width   int
	Height  int
	Quality int    // 1-100
	Format  string // "webp", "jpg", "png"; empty = source format
}

// Provider fetches candidate items for a pool from one source.
//
// GetItems never errors for "no items"; it returns an empty slice. Errors are
// reserved for hard provider failures and are isolated by the registry.
type Provider interface {
	Name() string
	Source() domain.AssetSource
	Config() Config

	GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error)
	ItemURL(item domain.AssetItem, opts *TransformOptions) string
	ValidateItem(ctx context.Context, item domain.AssetItem) bool
	HealthCheck(ctx context.Context) HealthStatus
}

// Cacheable is an optional capability for providers that cache fetch results.
// An empty poolID clears everything.
type Cacheable interface {
	ClearCache(poolID string)
}
