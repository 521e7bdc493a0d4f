package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/logger"
	"github.com/questdesk/gacha/internal/metrics"
	"github.com/questdesk/gacha/internal/utils"
)

// wallhavenWallpaper is one result from the search API
type wallhavenWallpaper struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Path       string `json:"path"`
	Resolution string `json:"resolution"`
	FileType   string `json:"file_type"`
	Thumbs     struct {
		Large string `json:"large"`
		Small string `json:"small"`
	} `json:"thumbs"`
}

type wallhavenSearchResponse struct {
	Data []wallhavenWallpaper `json:"data"`
}

// wallhavenRarityCutoffs is the cumulative distribution used to assign tiers
// to search results: 60% common, 25% uncommon, 10% rare, 4% epic, 1% legendary
var wallhavenRarityCutoffs = []struct {
	cutoff float64
	tier   domain.RarityTier
}{
	{0.60, domain.RarityCommon},
	{0.85, domain.RarityUncommon},
	{0.95, domain.RarityRare},
	{0.99, domain.RarityEpic},
}

// WallhavenProvider sources items from the Wallhaven search API. Results are
// cached per (pool, tags, limit) with a TTL; on upstream failure an expired
// cache entry is served rather than dropping the source entirely.
type WallhavenProvider struct {
	apiKey string
	apiURL string
	cfg    Config
	client *http.Client
	cache  *fetchCache
	rng    func() float64
}

// NewWallhavenProvider creates a search-API provider. The API key is
// optional; without one only SFW results rank.
func NewWallhavenProvider(apiKey string) (*WallhavenProvider, error) {
	cache, err := newFetchCache(WallhavenCacheSize, WallhavenCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallhaven cache: %w", err)
	}
	return &WallhavenProvider{
		apiKey: apiKey,
		apiURL: WallhavenAPIURL,
		cfg: Config{
			Priority:      PriorityWallhaven,
			Enabled:       true,
			Timeout:       WallhavenTimeout,
			RetryAttempts: 3,
		},
		client: &http.Client{Timeout: WallhavenTimeout},
		cache:  cache,
		rng:    utils.RandomFloat,
	}, nil
}

func (p *WallhavenProvider) Name() string               { return "WallhavenProvider" }
func (p *WallhavenProvider) Source() domain.AssetSource { return domain.SourceWallhaven }
func (p *WallhavenProvider) Config() Config             { return p.cfg }

// GetItems searches for wallpapers matching the pool's tags. Fresh cache hits
// skip the network; a failed search falls back to an expired entry when one
// exists.
func (p *WallhavenProvider) GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	log := logger.FromContext(ctx)

	tags := pool.SearchTags
	if tags == "" {
		tags = WallhavenDefaultTags
	}
	key := cacheKey{PoolID: pool.ID, Tags: tags, Limit: limit}

	if items, fresh, ok := p.cache.Get(key); ok && fresh {
		log.Debug("Wallhaven cache hit", "pool_id", pool.ID, "tags", tags)
		metrics.ProviderCacheHits.WithLabelValues(p.Name()).Inc()
		return items, nil
	}

	items, err := p.search(ctx, pool.ID, tags, limit)
	if err != nil {
		if stale, _, ok := p.cache.Get(key); ok {
			log.Warn(LogMsgServingStaleCache, "pool_id", pool.ID, "error", err)
			return stale, nil
		}
		return nil, err
	}

	p.cache.Put(key, items)
	log.Debug("Loaded wallhaven assets", "pool_id", pool.ID, "tags", tags, "count", len(items))
	return items, nil
}

func (p *WallhavenProvider) search(ctx context.Context, poolID, tags string, limit int) ([]domain.AssetItem, error) {
	params := url.Values{}
	params.Set("q", tags)
	params.Set("sorting", "random")
	params.Set("purity", "100")
	params.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build wallhaven request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallhaven request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallhaven API returned status %d", resp.StatusCode)
	}

	var result wallhavenSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode wallhaven response: %w", err)
	}

	count := len(result.Data)
	if count > limit {
		count = limit
	}
	items := make([]domain.AssetItem, 0, count)
	for _, wp := range result.Data[:count] {
		items = append(items, p.toItem(wp, poolID))
	}
	return items, nil
}

func (p *WallhavenProvider) toItem(wp wallhavenWallpaper, poolID string) domain.AssetItem {
	return domain.AssetItem{
		ID:       "wallhaven-" + wp.ID,
		Name:     "Wallpaper " + wp.ID,
		ImageURL: wp.Path,
		Rarity:   p.rollRarity(),
		Weight:   1,
		Metadata: domain.ItemMetadata{
			PoolID:      poolID,
			OriginalURL: wp.URL,
			Format:      wp.FileType,
			Resolution:  wp.Resolution,
		},
	}
}

// rollRarity assigns a tier to a search result. The external API carries no
// rarity concept, so each fetch draws from a fixed distribution.
func (p *WallhavenProvider) rollRarity() domain.RarityTier {
	r := p.rng()
	for _, band := range wallhavenRarityCutoffs {
		if r < band.cutoff {
			return band.tier
		}
	}
	return domain.RarityLegendary
}

// ItemURL returns the full-size image path; transforms are not supported
func (p *WallhavenProvider) ItemURL(item domain.AssetItem, _ *TransformOptions) string {
	return item.ImageURL
}

// ValidateItem issues a HEAD request against the image path
func (p *WallhavenProvider) ValidateItem(ctx context.Context, item domain.AssetItem) bool {
	if item.ImageURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, ValidateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, item.ImageURL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// HealthCheck runs a minimal search against the API
func (p *WallhavenProvider) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{LastChecked: time.Now()}

	ctx, cancel := context.WithTimeout(ctx, HealthProbeTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"?q=test&page=1", nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	status.Latency = time.Since(start).Milliseconds()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("search returned status %d", resp.StatusCode)
		return status
	}
	status.Healthy = true
	return status
}

// ClearCache drops cached search results for the pool; empty clears all
func (p *WallhavenProvider) ClearCache(poolID string) {
	p.cache.ClearPool(poolID)
}
