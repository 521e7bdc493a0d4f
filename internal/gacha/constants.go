package gacha

// CandidateBatchSize is how many items are fetched from providers per pull
const CandidateBatchSize = 100

// MaxMultiPullCount caps a single multi-pull request
const MaxMultiPullCount = 10

// DefaultHistoryLimit bounds pull history queries when no limit is given
const DefaultHistoryLimit = 50

// Log message constants
const (
	LogMsgPullStarted         = "Pull started"
	LogMsgPullCompleted       = "Pull completed"
	LogMsgPullFailed          = "Pull failed"
	LogMsgEventPublishSkipped = "Pull event publish failed, result already committed"
)
