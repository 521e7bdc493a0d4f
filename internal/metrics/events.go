package metrics

import (
	"context"

	"github.com/questdesk/gacha/internal/domain"
	"github.com/questdesk/gacha/internal/event"
	"github.com/questdesk/gacha/internal/logger"
)

// EventMetricsCollector subscribes to events and records business metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types the collector tracks
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range []event.Type{
		event.GachaPullCompleted,
		event.GachaPoolUpdated,
		event.CurrencyChanged,
	} {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.GachaPullCompleted:
		payload, err := event.DecodePayload[domain.PullCompletedPayload](evt.Payload)
		if err != nil {
			log.Debug("Failed to decode pull payload for metrics", "error", err)
			return nil
		}
		PullsTotal.WithLabelValues(payload.PoolID, string(payload.Rarity)).Inc()
		CurrencySpent.Add(float64(payload.Cost))
		if payload.IsNew {
			NewItemsObtained.WithLabelValues(payload.PoolID).Inc()
		}
	}

	return nil
}
