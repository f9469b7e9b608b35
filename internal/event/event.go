package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forumkit/wagerhall/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Wagering event types
const (
	WagerPlaced     Type = "wager.placed"
	EventActivated  Type = "event.activated"
	EventFinished   Type = "event.finished"
	WinnerSet       Type = "event.winner_set"
	EventSettled    Type = "event.settled"
	EventCancelled  Type = "event.cancelled"
	RecordResettled Type = "record.resettled"
)

// Typed event payloads for type safety

// WagerPlacedPayloadV1 is the typed payload for wager placement events
type WagerPlacedPayloadV1 struct {
	RecordID    string  `json:"record_id"`
	EventID     string  `json:"event_id"`
	UserID      string  `json:"user_id"`
	OptionID    int     `json:"option_id"`
	WagerAmount int64   `json:"wager_amount"`
	OddsAtWager float64 `json:"odds_at_wager"`
	TotalPool   int64   `json:"total_pool"`
	Timestamp   int64   `json:"timestamp"`
}

// LifecyclePayloadV1 is the typed payload for event lifecycle transitions
type LifecyclePayloadV1 struct {
	EventID   string `json:"event_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// WinnerSetPayloadV1 is the typed payload for winner declaration events
type WinnerSetPayloadV1 struct {
	EventID        string `json:"event_id"`
	WinnerOptionID int    `json:"winner_option_id"`
	Timestamp      int64  `json:"timestamp"`
}

// EventSettledPayloadV1 is the typed payload for settlement completion events
type EventSettledPayloadV1 struct {
	EventID        string `json:"event_id"`
	WinnerOptionID int    `json:"winner_option_id"`
	TotalPool      int64  `json:"total_pool"`
	PlatformFee    int64  `json:"platform_fee"`
	TotalPayout    int64  `json:"total_payout"`
	WinnerCount    int    `json:"winner_count"`
	LoserCount     int    `json:"loser_count"`
	Timestamp      int64  `json:"timestamp"`
}

// EventCancelledPayloadV1 is the typed payload for cancellation events
type EventCancelledPayloadV1 struct {
	EventID       string `json:"event_id"`
	RefundCount   int    `json:"refund_count"`
	TotalRefunded int64  `json:"total_refunded"`
	Timestamp     int64  `json:"timestamp"`
}

// RecordResettledPayloadV1 is the typed payload for late settlement events
type RecordResettledPayloadV1 struct {
	RecordID  string `json:"record_id"`
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	WinAmount int64  `json:"win_amount"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewWagerPlacedEvent creates a new wager placed event
func NewWagerPlacedEvent(record *domain.Record, totalPool int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WagerPlaced,
		Payload: WagerPlacedPayloadV1{
			RecordID:    record.ID.String(),
			EventID:     record.EventID.String(),
			UserID:      record.UserID,
			OptionID:    record.OptionID,
			WagerAmount: record.WagerAmount,
			OddsAtWager: record.OddsAtWager,
			TotalPool:   totalPool,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewLifecycleEvent creates an event for a lifecycle status transition
func NewLifecycleEvent(eventType Type, eventID uuid.UUID, status domain.EventStatus) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: LifecyclePayloadV1{
			EventID:   eventID.String(),
			Status:    string(status),
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewWinnerSetEvent creates a new winner declared event
func NewWinnerSetEvent(eventID uuid.UUID, winnerOptionID int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WinnerSet,
		Payload: WinnerSetPayloadV1{
			EventID:        eventID.String(),
			WinnerOptionID: winnerOptionID,
			Timestamp:      time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewEventSettledEvent creates a new settlement completed event
func NewEventSettledEvent(summary *domain.SettlementSummary) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EventSettled,
		Payload: EventSettledPayloadV1{
			EventID:        summary.EventID.String(),
			WinnerOptionID: summary.WinnerOptionID,
			TotalPool:      summary.TotalPool,
			PlatformFee:    summary.PlatformFee,
			TotalPayout:    summary.TotalPayout,
			WinnerCount:    summary.WinnerCount,
			LoserCount:     summary.LoserCount,
			Timestamp:      time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewEventCancelledEvent creates a new cancellation event
func NewEventCancelledEvent(summary *domain.CancellationSummary) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EventCancelled,
		Payload: EventCancelledPayloadV1{
			EventID:       summary.EventID.String(),
			RefundCount:   summary.RefundCount,
			TotalRefunded: summary.TotalRefunded,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewRecordResettledEvent creates a new late-settlement event
func NewRecordResettledEvent(record *domain.Record) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RecordResettled,
		Payload: RecordResettledPayloadV1{
			RecordID:  record.ID.String(),
			EventID:   record.EventID.String(),
			UserID:    record.UserID,
			Status:    string(record.Status),
			WinAmount: record.WinAmount,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
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

// Publish publishes an event to all subscribers synchronously
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

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
