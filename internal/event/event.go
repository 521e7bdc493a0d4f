package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/questdesk/gacha/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types emitted by the pull engine
const (
	GachaPullCompleted Type = domain.EventGachaPullCompleted
	GachaPoolUpdated   Type = domain.EventPoolUpdated
	CurrencyChanged    Type = domain.EventCurrencyChanged
)

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // schema version, e.g. "1.0"
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata interface{} `json:"metadata"`
}

// NewPullCompletedEvent creates a pull completion event with a typed payload
func NewPullCompletedEvent(result domain.PullResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GachaPullCompleted,
		Payload: domain.PullCompletedPayload{
			UserID:    result.Pull.UserID,
			PoolID:    result.Pull.PoolID,
			PullID:    result.Pull.ID,
			ItemID:    result.Pull.ItemID,
			ItemName:  result.Pull.ItemName,
			ImageURL:  result.Pull.ImageURL,
			Rarity:    result.Pull.Rarity,
			Cost:      result.Pull.Cost,
			IsNew:     result.IsNew,
			Balance:   result.Balance,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewPoolUpdatedEvent creates a pool configuration change event
func NewPoolUpdatedEvent(poolID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GachaPoolUpdated,
		Payload: map[string]interface{}{
			"pool_id":   poolID,
			"timestamp": time.Now().Unix(),
		},
	}
}

// NewCurrencyChangedEvent creates a balance change event with a typed payload
func NewCurrencyChangedEvent(userID string, amount, balanceAfter int, txType domain.TransactionType) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CurrencyChanged,
		Payload: domain.CurrencyChangedPayload{
			UserID:       userID,
			Amount:       amount,
			BalanceAfter: balanceAfter,
			Type:         txType,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish delivers an event to all subscribers synchronously. Handler errors
// are collected so one failing subscriber cannot suppress the rest.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
