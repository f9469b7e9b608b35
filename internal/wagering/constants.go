package wagering

import "time"

// ============================================================================
// Event Validation Bounds
// ============================================================================

// MinOptionsPerEvent is the smallest allowed number of outcome options
const MinOptionsPerEvent = 2

// MaxOptionsPerEvent is the largest allowed number of outcome options
const MaxOptionsPerEvent = 10

// MaxTitleLength bounds event titles to the schema column width
const MaxTitleLength = 200

// ============================================================================
// Listing Cache
// ============================================================================

// ListCacheSize is the maximum number of distinct filter results cached
const ListCacheSize = 64

// ListCacheTTL is how long a cached listing stays valid. Listings are also
// purged on every mutation, so the TTL only covers writes from other
// processes.
const ListCacheTTL = 5 * time.Second

// ============================================================================
// Log Messages
// ============================================================================

// Log operation identifiers
const (
	LogMsgCreateEventCalled   = "CreateEvent called"
	LogMsgDeleteEventCalled   = "DeleteEvent called"
	LogMsgActivateEventCalled = "ActivateEvent called"
	LogMsgFinishEventCalled   = "FinishEvent called"
	LogMsgSetWinnerCalled     = "SetWinner called"
	LogMsgPlaceWagerCalled    = "PlaceWager called"
)

// Warning/Info messages
const (
	LogMsgWagerAccepted        = "Wager accepted"
	LogMsgEventCreated         = "Event created"
	LogMsgFailedToPublishEvent = "Failed to publish event"
)

// ============================================================================
// Error Messages (local to wagering service)
// ============================================================================

// Error context messages for wrapped errors
const (
	ErrContextFailedToCreateEvent  = "failed to create event"
	ErrContextFailedToGetEvent     = "failed to get event"
	ErrContextFailedToListEvents   = "failed to list events"
	ErrContextFailedToDeleteEvent  = "failed to delete event"
	ErrContextFailedToCountRecords = "failed to count records"
	ErrContextFailedToGetRecord    = "failed to get record"
	ErrContextFailedToGetBalance   = "failed to get balance"
	ErrContextFailedToSetWinner    = "failed to set winner"
	ErrContextFailedToBeginTx      = "failed to begin transaction"
	ErrContextFailedToCommitTx     = "failed to commit transaction"
	ErrContextFailedToInsertRecord = "failed to insert record"
	ErrContextFailedToDebit        = "failed to debit stake"
	ErrContextFailedToApplyWager   = "failed to apply wager aggregates"
	ErrContextFailedToUpdateOdds   = "failed to update odds"
	ErrContextFailedToUpdateStatus = "failed to update event status"
)
