package domain

// AssetSource identifies which provider produced an item
type AssetSource string

const (
	SourceLocal      AssetSource = "local"
	SourceCloudinary AssetSource = "cloudinary"
	SourceWallhaven  AssetSource = "wallhaven"
)

// ItemMetadata carries provider-specific identifiers needed for URL resolution
// and cache scoping. Fields are known and typed rather than an open map so the
// registry can dispatch without reflection.
type ItemMetadata struct {
	ProviderSource AssetSource `json:"provider_source,omitempty"`
	PoolID         string      `json:"pool_id,omitempty"`
	Filename       string      `json:"filename,omitempty"`     // local provider
	PublicID       string      `json:"public_id,omitempty"`    // cloudinary provider
	Format         string      `json:"format,omitempty"`       // cloudinary provider
	OriginalURL    string      `json:"original_url,omitempty"` // wallhaven provider
	Resolution     string      `json:"resolution,omitempty"`   // wallhaven provider
}

// AssetItem is a candidate item offered by a provider. Items are ephemeral:
// they are rebuilt on every fetch and only the chosen item's ID is persisted
// via the pull log and collection.
//
// ID uniqueness holds only within one provider fetch; cross-provider
// collisions are prevented by the provider-tag prefix in the ID.
type AssetItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	ImageURL string       `json:"image_url"`
	Rarity   RarityTier   `json:"rarity"`
	Weight   int          `json:"weight"` // item-level weight, used by the fully-weighted draw
	Metadata ItemMetadata `json:"metadata"`
}
