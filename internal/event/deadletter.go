package event

import "time"

// DeadLetterSchemaVersion is the current version of the dead-letter log format.
// Increment this when changing the DeadLetterEntry structure.
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry represents an event that failed to publish after all retries
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}
