package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/logger"
	"github.com/questdesk/gacha/internal/metrics"
	"github.com/questdesk/gacha/internal/utils"
)

// Registry aggregates items across providers in priority order, isolating
// per-provider failures. It fails hard only when every enabled provider
// errored and nothing was collected.
type Registry struct {
	providers []Provider
	rng       func() float64
}

// NewRegistry creates a registry over the given providers, ordered by their
// configured priority
func NewRegistry(providers ...Provider) *Registry {
	sorted := make([]Provider, len(providers))
	copy(sorted, providers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Config().Priority < sorted[j].Config().Priority
	})
	return &Registry{providers: sorted, rng: utils.RandomFloat}
}

// Providers returns the registered providers in priority order
func (r *Registry) Providers() []Provider {
	return r.providers
}

// bySource finds the provider serving the given source
func (r *Registry) bySource(source domain.AssetSource) (Provider, bool) {
	for _, p := range r.providers {
		if p.Source() == source {
			return p, true
		}
	}
	return nil, false
}

// GetItems collects candidate items from the pool's enabled sources. Each
// provider runs under its own timeout; one failing provider does not block
// the rest. Results are shuffled across sources before truncation so no
// single provider dominates the head of the slice.
func (r *Registry) GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	enabled := pool.EnabledSources()
	collected := make([]domain.AssetItem, 0, limit)
	var failures []string

	for _, p := range r.providers {
		if len(collected) >= limit {
			break
		}
		if !p.Config().Enabled {
			log.Debug(LogMsgProviderDisabled, "provider", p.Name())
			continue
		}
		if !sourceEnabled(enabled, p.Source()) {
			continue
		}

		items, err := r.fetchOne(ctx, p, pool, limit-len(collected))
		if err != nil {
			log.Error("Provider fetch failed", "provider", p.Name(), "pool_id", pool.ID, "error", err)
			metrics.ProviderFetchErrors.WithLabelValues(p.Name()).Inc()
			failures = append(failures, fmt.Sprintf("%s failed: %s", p.Name(), err.Error()))
			continue
		}

		for i := range items {
			items[i].Metadata.ProviderSource = p.Source()
		}
		collected = append(collected, items...)
	}

	if len(collected) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrAllProvidersFailed, strings.Join(failures, "\n"))
	}

	utils.Shuffle(collected, r.rng)
	if len(collected) > limit {
		collected = collected[:limit]
	}
	return collected, nil
}

func (r *Registry) fetchOne(ctx context.Context, p Provider, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Config().Timeout)
	defer cancel()

	start := time.Now()
	items, err := p.GetItems(ctx, pool, limit)
	metrics.ProviderFetchDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	return items, err
}

// ItemURL dispatches to the item's originating provider; unknown sources
// fall back to the stored URL
func (r *Registry) ItemURL(item domain.AssetItem, opts *TransformOptions) string {
	p, ok := r.bySource(item.Metadata.ProviderSource)
	if !ok {
		return item.ImageURL
	}
	return p.ItemURL(item, opts)
}

// ValidateItem checks an item against its originating provider
func (r *Registry) ValidateItem(ctx context.Context, item domain.AssetItem) bool {
	p, ok := r.bySource(item.Metadata.ProviderSource)
	if !ok {
		return false
	}
	return p.ValidateItem(ctx, item)
}

// HealthCheck probes every provider, including disabled ones, keyed by name
func (r *Registry) HealthCheck(ctx context.Context) map[string]HealthStatus {
	statuses := make(map[string]HealthStatus, len(r.providers))
	for _, p := range r.providers {
		statuses[p.Name()] = p.HealthCheck(ctx)
	}
	return statuses
}

// ClearCache instructs caching providers to drop their entries for the pool;
// an empty poolID clears everything
func (r *Registry) ClearCache(poolID string) {
	for _, p := range r.providers {
		if c, ok := p.(Cacheable); ok {
			c.ClearCache(poolID)
		}
	}
}

func sourceEnabled(enabled []domain.AssetSource, source domain.AssetSource) bool {
	for _, s := range enabled {
		if s == source {
			return true
		}
	}
	return false
}
