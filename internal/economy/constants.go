package economy

// DefaultHistoryLimit bounds transaction history queries when no limit is given
const DefaultHistoryLimit = 50

// Log message constants
const (
	LogMsgDebitApplied  = "Debit applied"
	LogMsgCreditApplied = "Credit applied"
)
