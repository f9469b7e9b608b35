package metrics

import (
	"context"

	"github.com/forumkit/wagerhall/internal/event"
	"github.com/forumkit/wagerhall/internal/logger"
)

// EventMetricsCollector subscribes to bus events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types the collector cares about
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.WagerPlaced,
		event.EventActivated,
		event.EventFinished,
		event.WinnerSet,
		event.EventSettled,
		event.EventCancelled,
		event.RecordResettled,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.EventSettled:
		payload, ok := evt.Payload.(event.EventSettledPayloadV1)
		if !ok {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type)
			return nil
		}
		EventsSettled.Inc()
		PointsPaidOut.Add(float64(payload.TotalPayout))
		PlatformFee.Add(float64(payload.PlatformFee))

	case event.EventCancelled:
		payload, ok := evt.Payload.(event.EventCancelledPayloadV1)
		if !ok {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type)
			return nil
		}
		EventsCancelled.Inc()
		RefundsIssued.Add(float64(payload.RefundCount))
		PointsRefunded.Add(float64(payload.TotalRefunded))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
