package settlement

// ============================================================================
// Log Messages
// ============================================================================

// Log operation identifiers
const (
	LogMsgSettleCalled         = "Settle called"
	LogMsgCancelCalled         = "Cancel called"
	LogMsgResettleRecordCalled = "ResettleRecord called"
)

// Warning/Info messages
const (
	LogMsgEventSettled         = "Event settled"
	LogMsgEventCancelled       = "Event cancelled"
	LogMsgRecordResettled      = "Record resettled"
	LogMsgChunkSettled         = "Settlement chunk committed"
	LogMsgFailedToPublishEvent = "Failed to publish event"
)

// ============================================================================
// Error Messages (local to settlement service)
// ============================================================================

// Error context messages for wrapped errors
const (
	ErrContextFailedToGetEvent       = "failed to get event"
	ErrContextFailedToGetRecord      = "failed to get record"
	ErrContextFailedToListPending    = "failed to list pending records"
	ErrContextFailedToBeginTx        = "failed to begin transaction"
	ErrContextFailedToCommitTx       = "failed to commit transaction"
	ErrContextFailedToSettleRecord   = "failed to settle record"
	ErrContextFailedToCreditWinner   = "failed to credit winner"
	ErrContextFailedToCreditRefund   = "failed to credit refund"
	ErrContextFailedToMarkSettled    = "failed to mark event settled"
	ErrContextFailedToUpdateStatus   = "failed to update event status"
)
