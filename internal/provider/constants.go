package provider

import "time"

// Default fetch limit when a caller does not specify one
const DefaultFetchLimit = 24

// Provider priorities; lower is checked first
const (
	PriorityLocal      = 1
	PriorityCloudinary = 2
	PriorityWallhaven  = 3
)

// Provider timeouts
const (
	LocalTimeout       = 5 * time.Second
	CloudinaryTimeout  = 10 * time.Second
	WallhavenTimeout   = 10 * time.Second
	ValidateTimeout    = 5 * time.Second
	HealthProbeTimeout = 5 * time.Second
)

// Wallhaven cache settings
const (
	WallhavenCacheTTL  = 30 * time.Minute
	WallhavenCacheSize = 128
)

// Wallhaven search defaults
const (
	WallhavenAPIURL      = "https://wallhaven.cc/api/v1/search"
	WallhavenDefaultTags = "anime"
)

// Metadata file name for the local provider's sidecar
const LocalMetadataFile = "metadata.json"

// Log messages
const (
	LogMsgProviderDisabled  = "Provider is disabled"
	LogMsgProviderNotFound  = "Provider not found for source"
	LogMsgServingStaleCache = "Serving expired cache as fallback"
	LogMsgNoSidecarMetadata = "No metadata.json found for pool, using defaults"
)
