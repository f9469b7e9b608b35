package event

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/forumkit/wagerhall/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// ResilientPublisher wraps a Bus to add retry logic and dead letter queuing
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
	mu     sync.Mutex // Protects dead-letter file writes
	wg     sync.WaitGroup
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	return &ResilientPublisher{
		inner:  inner,
		config: config,
	}
}

// Publish attempts to publish an event. On failure it launches a background
// retry loop and returns nil immediately, decoupling the caller from the
// retry mechanism.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event)

	return nil
}

// Shutdown waits for in-flight retry loops to finish or the context to expire
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ResilientPublisher) retryLoop(event Event) {
	defer p.wg.Done()

	// The original request context may already be cancelled
	ctx := context.Background()

	for i := 1; i <= p.config.MaxRetries; i++ {
		time.Sleep(CalculateRetryDelay(p.config.RetryDelay, i))

		err := p.inner.Publish(ctx, event)
		if err == nil {
			logger.Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", i)
			return
		}

		logger.Warn(LogMsgEventRetryFailed,
			"event_type", event.Type,
			"attempt", i,
			"error", err)
	}

	p.writeToDeadLetter(event)
}

func (p *ResilientPublisher) writeToDeadLetter(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.config.DeadLetterPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		logger.Error(LogMsgDeadLetterOpenFailed, "error", err, "path", p.config.DeadLetterPath)
		return
	}
	defer f.Close()

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		Event:         event,
		Attempts:      p.config.MaxRetries,
	}

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	} else {
		logger.Info(LogMsgEventDeadLettered, "event_type", event.Type)
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
