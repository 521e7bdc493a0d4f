package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/logger"
)

// imageExtensions are the file types the local provider recognizes
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// localItemMeta is one entry of a pool directory's metadata.json sidecar
type localItemMeta struct {
	Name   string `json:"name,omitempty"`
	Rarity string `json:"rarity,omitempty"`
	Weight int    `json:"weight,omitempty"`
}

// LocalProvider serves assets from a per-pool directory on disk
type LocalProvider struct {
	basePath string
	baseURL  string
	cfg      Config
}

// NewLocalProvider creates a local filesystem provider rooted at basePath
func NewLocalProvider(basePath, baseURL string) *LocalProvider {
	return &LocalProvider{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		cfg: Config{
			Priority:      PriorityLocal,
			Enabled:       true,
			Timeout:       LocalTimeout,
			RetryAttempts: 2,
		},
	}
}

func (p *LocalProvider) Name() string               { return "LocalAssetProvider" }
func (p *LocalProvider) Source() domain.AssetSource { return domain.SourceLocal }
func (p *LocalProvider) Config() Config             { return p.cfg }

// GetItems lists image files in the pool's directory, enriched with sidecar
// metadata when present. Filesystem failures soft-fail to an empty result.
func (p *LocalProvider) GetItems(ctx context.Context, pool *domain.GachaPool, limit int) ([]domain.AssetItem, error) {
	log := logger.FromContext(ctx)
	poolPath := filepath.Join(p.basePath, pool.ID)

	if err := os.MkdirAll(poolPath, 0o755); err != nil {
		log.Error("Failed to create pool asset directory", "pool_id", pool.ID, "error", err)
		return nil, nil
	}

	entries, err := os.ReadDir(poolPath)
	if err != nil {
		log.Error("Failed to read pool asset directory", "pool_id", pool.ID, "error", err)
		return nil, nil
	}

	meta := p.loadSidecar(ctx, poolPath, pool.ID)

	items := make([]domain.AssetItem, 0, limit)
	for i, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if len(items) >= limit {
			break
		}

		filename := entry.Name()
		fm := meta[filename]

		name := fm.Name
		if name == "" {
			name = fmt.Sprintf("Item #%d", i+1)
		}

		rarity, ok := domain.ParseRarity(fm.Rarity)
		if !ok {
			rarity = inferRarityFromFilename(filename)
		}

		weight := fm.Weight
		if weight <= 0 {
			weight = 1
		}

		item := domain.AssetItem{
			ID:     fmt.Sprintf("local-%s-%s", pool.ID, filename),
			Name:   name,
			Rarity: rarity,
			Weight: weight,
			Metadata: domain.ItemMetadata{
				PoolID:   pool.ID,
				Filename: filename,
			},
		}
		item.ImageURL = p.ItemURL(item, nil)
		items = append(items, item)
	}

	log.Debug("Loaded local assets", "pool_id", pool.ID, "count", len(items))
	return items, nil
}

// ItemURL builds the static-file URL for the item; local assets have no
// on-the-fly transforms
func (p *LocalProvider) ItemURL(item domain.AssetItem, _ *TransformOptions) string {
	poolID := item.Metadata.PoolID
	if poolID == "" {
		poolID = "default"
	}
	filename := item.Metadata.Filename
	if filename == "" {
		filename = item.ImageURL
	}
	return fmt.Sprintf("%s/gacha/%s/%s", p.baseURL, poolID, filename)
}

// ValidateItem checks the backing file still exists
func (p *LocalProvider) ValidateItem(_ context.Context, item domain.AssetItem) bool {
	if item.Metadata.Filename == "" {
		return false
	}
	path := filepath.Join(p.basePath, item.Metadata.PoolID, item.Metadata.Filename)
	_, err := os.Stat(path)
	return err == nil
}

// HealthCheck reports whether the base asset directory is accessible
func (p *LocalProvider) HealthCheck(_ context.Context) HealthStatus {
	start := time.Now()
	status := HealthStatus{LastChecked: time.Now()}

	if _, err := os.Stat(p.basePath); err != nil {
		status.Error = err.Error()
	} else {
		status.Healthy = true
	}
	status.Latency = time.Since(start).Milliseconds()
	return status
}

// SaveSidecar writes the pool's metadata.json, creating the directory if needed
func (p *LocalProvider) SaveSidecar(poolID string, meta map[string]localItemMeta) error {
	poolPath := filepath.Join(p.basePath, poolID)
	if err := os.MkdirAll(poolPath, 0o755); err != nil {
		return fmt.Errorf("failed to create pool directory: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(poolPath, LocalMetadataFile), data, 0o644)
}

func (p *LocalProvider) loadSidecar(ctx context.Context, poolPath, poolID string) map[string]localItemMeta {
	data, err := os.ReadFile(filepath.Join(poolPath, LocalMetadataFile))
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgNoSidecarMetadata, "pool_id", poolID)
		return nil
	}
	var meta map[string]localItemMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		logger.FromContext(ctx).Warn("Malformed metadata.json, using defaults", "pool_id", poolID, "error", err)
		return nil
	}
	return meta
}

// inferRarityFromFilename maps filename substrings to tiers
// (e.g. "legendary_item_01.jpg")
func inferRarityFromFilename(filename string) domain.RarityTier {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "legendary"):
		return domain.RarityLegendary
	case strings.Contains(lower, "epic"):
		return domain.RarityEpic
	case strings.Contains(lower, "uncommon"):
		return domain.RarityUncommon
	case strings.Contains(lower, "rare"):
		return domain.RarityRare
	default:
		return domain.RarityCommon
	}
}
