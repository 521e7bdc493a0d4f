package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNamePullsTotal            = "gacha_pulls_total"
	MetricNameCurrencySpent         = "gacha_currency_spent_total"
	MetricNameNewItemsObtained      = "gacha_new_items_total"
	MetricNameProviderFetchErrors   = "provider_fetch_errors_total"
	MetricNameProviderFetchDuration = "provider_fetch_duration_seconds"
	MetricNameProviderCacheHits     = "provider_cache_hits_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextPullsTotal            = "Total number of gacha pulls performed"
	HelpTextCurrencySpent         = "Total currency spent on gacha pulls"
	HelpTextNewItemsObtained      = "Total number of first-time item acquisitions"
	HelpTextProviderFetchErrors   = "Total number of asset provider fetch failures"
	HelpTextProviderFetchDuration = "Asset provider fetch latency in seconds"
	HelpTextProviderCacheHits     = "Total number of provider cache hits"
)

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelPool     = "pool"
	LabelRarity   = "rarity"
	LabelProvider = "provider"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ProviderLatencyBuckets covers provider fetches, which include remote API
// round trips, so the range extends further than the HTTP buckets
var ProviderLatencyBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15}
