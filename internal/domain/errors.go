package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Pool errors
	ErrMsgPoolNotFound  = "pool not found"
	ErrMsgPoolInactive  = "pool is not active"
	ErrMsgPoolAdminOnly = "pool is restricted to admins"

	// User errors
	ErrMsgUserNotFound = "user not found"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Selection errors
	ErrMsgNoItemsAvailable = "no items available in this pool"
	ErrMsgNoRemainingItems = "no remaining items available"

	// Provider errors
	ErrMsgAllProvidersFailed = "all asset providers failed"
	ErrMsgProviderNotFound   = "provider not found"

	// Rarity config errors
	ErrMsgIncompleteRarityConfig = "weights must cover every rarity tier"
	ErrMsgInvalidWeight          = "weight must be a positive integer"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Transaction errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors.
// These are used consistently across all layers; wrap with
// fmt.Errorf("%w: ...", domain.ErrXxx) for additional context.
var (
	// Pool errors
	ErrPoolNotFound  = errors.New(ErrMsgPoolNotFound)
	ErrPoolInactive  = errors.New(ErrMsgPoolInactive)
	ErrPoolAdminOnly = errors.New(ErrMsgPoolAdminOnly)

	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Selection errors: both are terminal for the attempt but must stay
	// distinguishable so callers can react differently (retry with a
	// different pool vs. clear the exclusion list).
	ErrNoItemsAvailable = errors.New(ErrMsgNoItemsAvailable)
	ErrNoRemainingItems = errors.New(ErrMsgNoRemainingItems)

	// Provider errors
	ErrAllProvidersFailed = errors.New(ErrMsgAllProvidersFailed)
	ErrProviderNotFound   = errors.New(ErrMsgProviderNotFound)

	// Rarity config errors
	ErrIncompleteRarityConfig = errors.New(ErrMsgIncompleteRarityConfig)
	ErrInvalidWeight          = errors.New(ErrMsgInvalidWeight)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
