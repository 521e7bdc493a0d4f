package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/logger"
)

// cloudinaryResource is one asset in the admin API listing response
type cloudinaryResource struct {
	AssetID  string `json:"asset_id"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	URL      string `json:"secure_url"`
	Context  struct {
		Custom map[string]string `json:"custom"`
	} `json:"context"`
}

type cloudinaryListResponse struct {
	Resources []cloudinaryResource `json:"resources"`
}

// CloudinaryConfig carries the account credentials; any empty field
// leaves the provider unconfigured
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudinaryConfig) configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// CloudinaryProvider serves assets hosted on a Cloudinary account via the
// admin API. An unconfigured provider returns empty results instead of
// failing, so pools can run on the other sources alone.
type CloudinaryProvider struct {
	creds   CloudinaryConfig
	cfg     Config
	client  *http.Client
	apiBase string
}

// NewCloudinaryProvider creates a CDN-backed provider; disabled when the
// credentials are incomplete
func NewCloudinaryProvider(creds CloudinaryConfig) *CloudinaryProvider {
	return &CloudinaryProvider{
		creds: creds,
		cfg: Config{
			Priority:      PriorityCloudinary,
			Enabled:       creds.configured(),
			Timeout:       CloudinaryTimeout,
			RetryAttempts: 3,
		},
		client:  &http.Client{Timeout: CloudinaryTimeout},
		apiBase: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s", creds.CloudName),
	}
}

func (p *CloudinaryProvider) Name() string               { return "CloudinaryProvider" }
func (p *CloudinaryProvider) Source() domain.AssetSource { return domain.SourceCloudinary }
func (p *CloudinaryProvider) Config() Config             { return p.cfg }

// GetItems lists assets under <folder>/<poolID> on the account. Rarity,
// weight and display name come from the asset's contextual metadata.
func (p *CloudinaryProvider) GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	if !p.creds.configured() {
		logger.FromContext(ctx).Debug("Cloudinary not configured, skipping", "pool_id", pool.ID)
		return nil, nil
	}

	prefix := pool.ID
	if p.creds.Folder != "" {
		prefix = p.creds.Folder + "/" + pool.ID
	}

	params := url.Values{}
	params.Set("type", "upload")
	params.Set("prefix", prefix+"/")
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("context", "true")

	reqURL := fmt.Sprintf("%s/resources/image?%s", p.apiBase, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cloudinary request: %w", err)
	}
	req.SetBasicAuth(p.creds.APIKey, p.creds.APISecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudinary API returned status %d", resp.StatusCode)
	}

	var listing cloudinaryListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode cloudinary response: %w", err)
	}

	items := make([]domain.AssetItem, 0, len(listing.Resources))
	for _, res := range listing.Resources {
		items = append(items, p.toItem(res, pool.ID))
	}

	logger.FromContext(ctx).Debug("Loaded cloudinary assets", "pool_id", pool.ID, "count", len(items))
	return items, nil
}

func (p *CloudinaryProvider) toItem(res cloudinaryResource, poolID string) domain.AssetItem {
	custom := res.Context.Custom

	name := custom["name"]
	if name == "" {
		name = res.PublicID
	}

	rarity, ok := domain.ParseRarity(custom["rarity"])
	if !ok {
		rarity = domain.RarityCommon
	}

	weight := 1
	if w, err := strconv.Atoi(custom["weight"]); err == nil && w > 0 {
		weight = w
	}

	item := domain.AssetItem{
		ID:     "cloudinary-" + res.AssetID,
		Name:   name,
		Rarity: rarity,
		Weight: weight,
		Metadata: domain.ItemMetadata{
			PoolID:      poolID,
			PublicID:    res.PublicID,
			Format:      res.Format,
			OriginalURL: res.URL,
			Resolution:  fmt.Sprintf("%dx%d", res.Width, res.Height),
		},
	}
	item.ImageURL = p.ItemURL(item, nil)
	return item
}

// ItemURL builds a delivery URL, applying on-the-fly transforms when
// requested
func (p *CloudinaryProvider) ItemURL(item domain.AssetItem, opts *TransformOptions) string {
	if item.Metadata.PublicID == "" {
		return item.ImageURL
	}

	transform := ""
	if opts != nil {
		parts := make([]string, 0, 4)
		if opts.Width > 0 {
			parts = append(parts, fmt.Sprintf("w_%d", opts.Width))
		}
		if opts.Height > 0 {
			parts = append(parts, fmt.Sprintf("h_%d", opts.Height))
		}
		if opts.Quality > 0 {
			parts = append(parts, fmt.Sprintf("q_%d", opts.Quality))
		}
		if opts.Format != "" {
			parts = append(parts, "f_"+opts.Format)
		}
		if len(parts) > 0 {
			transform = strings.Join(parts, ",") + "/"
		}
	}

	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s%s",
		p.creds.CloudName, transform, item.Metadata.PublicID)
}

// ValidateItem issues a HEAD request against the delivery URL
func (p *CloudinaryProvider) ValidateItem(ctx context.Context, item domain.AssetItem) bool {
	if !p.creds.configured() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, ValidateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.ItemURL(item, nil), nil)
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

// HealthCheck pings the admin API; unconfigured accounts report unhealthy
// with an explanatory error rather than probing
func (p *CloudinaryProvider) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{LastChecked: time.Now()}
	if !p.creds.configured() {
		status.Error = "cloudinary not configured"
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, HealthProbeTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/ping", nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	req.SetBasicAuth(p.creds.APIKey, p.creds.APISecret)

	resp, err := p.client.Do(req)
	status.Latency = time.Since(start).Milliseconds()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("ping returned status %d", resp.StatusCode)
		return status
	}
	status.Healthy = true
	return status
}
