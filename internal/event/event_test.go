package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forumkit/wagerhall/internal/domain"
)

func TestMemoryBus_PublishDeliversToSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	var received []Event

	bus.Subscribe(WagerPlaced, func(ctx context.Context, evt Event) error {
		received = append(received, evt)
		return nil
	})

	record := &domain.Record{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		UserID:      uuid.NewString(),
		OptionID:    1,
		WagerAmount: 100,
		OddsAtWager: 2.0,
	}

	err := bus.Publish(context.Background(), NewWagerPlacedEvent(record, 100))

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, WagerPlaced, received[0].Type)

	payload, ok := received[0].Payload.(WagerPlacedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, record.ID.String(), payload.RecordID)
	assert.Equal(t, int64(100), payload.TotalPool)
}

func TestMemoryBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewMemoryBus()

	err := bus.Publish(context.Background(), NewLifecycleEvent(EventActivated, uuid.New(), domain.EventStatusActive))

	assert.NoError(t, err)
}

func TestMemoryBus_AggregatesHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()
	handlerErr := errors.New("handler exploded")
	calls := 0

	bus.Subscribe(EventSettled, func(ctx context.Context, evt Event) error {
		calls++
		return handlerErr
	})
	bus.Subscribe(EventSettled, func(ctx context.Context, evt Event) error {
		calls++
		return nil
	})

	summary := &domain.SettlementSummary{EventID: uuid.New()}
	err := bus.Publish(context.Background(), NewEventSettledEvent(summary))

	// One failing handler must not stop the others
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second

	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 16*time.Second, CalculateRetryDelay(base, 4))
}

// failingBus fails the first n publishes, then succeeds
type failingBus struct {
	failures  int
	published []Event
}

func (b *failingBus) Publish(ctx context.Context, evt Event) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("bus unavailable")
	}
	b.published = append(b.published, evt)
	return nil
}

func (b *failingBus) Subscribe(eventType Type, handler Handler) {}

func TestResilientPublisher_RetriesUntilSuccess(t *testing.T) {
	inner := &failingBus{failures: 2}
	publisher := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: t.TempDir() + "/deadletter.jsonl",
	})

	evt := NewLifecycleEvent(EventFinished, uuid.New(), domain.EventStatusFinished)

	// The caller never sees the failure; retries happen in the background
	require.NoError(t, publisher.Publish(context.Background(), evt))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, publisher.Shutdown(ctx))

	require.Len(t, inner.published, 1)
	assert.Equal(t, EventFinished, inner.published[0].Type)
}

func TestResilientPublisher_DeadLettersAfterExhaustion(t *testing.T) {
	inner := &failingBus{failures: 10}
	path := t.TempDir() + "/deadletter.jsonl"
	publisher := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: path,
	})

	require.NoError(t, publisher.Publish(context.Background(), NewLifecycleEvent(EventCancelled, uuid.New(), domain.EventStatusCancelled)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, publisher.Shutdown(ctx))

	assert.Empty(t, inner.published)
	assert.FileExists(t, path)
}

func TestResilientPublisher_SuccessPathSkipsRetry(t *testing.T) {
	inner := &failingBus{}
	publisher := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: t.TempDir() + "/deadletter.jsonl",
	})

	require.NoError(t, publisher.Publish(context.Background(), NewWinnerSetEvent(uuid.New(), 1)))
	require.Len(t, inner.published, 1)
}
