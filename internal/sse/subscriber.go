package sse

import (
	"context"
	"log/slog"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.GachaPullCompleted, s.handlePullCompleted)
	s.bus.Subscribe(event.GachaPoolUpdated, s.handlePoolUpdated)

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			string(event.GachaPullCompleted),
			string(event.GachaPoolUpdated),
		})
}

// handlePullCompleted forwards a committed pull to the pulling user's own
// connections only; pull results are private to the puller
func (s *Subscriber) handlePullCompleted(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[domain.PullCompletedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid pull completed event payload", "error", err)
		return nil
	}

	s.hub.BroadcastToUser(payload.UserID, EventTypePullCompleted, payload)

	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypePullCompleted,
		"user_id", payload.UserID,
		"rarity", payload.Rarity,
		"is_new", payload.IsNew)
	return nil
}

// handlePoolUpdated notifies every client that pool configuration changed
func (s *Subscriber) handlePoolUpdated(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(EventTypePoolUpdated, evt.Payload)

	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypePoolUpdated)
	return nil
}
