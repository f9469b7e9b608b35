package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Retry configuration constants
const (
	// RetryInitialDelay is the initial delay between publish retries
	RetryInitialDelay = 2 * time.Second

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Log message constants
const (
	LogMsgEventPublishFailed    = "Failed to publish event, initiating async retry"
	LogMsgEventRetrySucceeded   = "Successfully published event after retry"
	LogMsgEventRetryFailed      = "Event retry failed"
	LogMsgEventDeadLettered     = "Event written to dead letter queue"
	LogMsgDeadLetterOpenFailed  = "Failed to open dead letter file"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter file"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay returns the exponential backoff delay for an attempt.
// Formula: baseDelay * 2^(attempt-1), i.e. 2s, 4s, 8s, 16s, 32s.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
