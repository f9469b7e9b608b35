package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Not-found errors
	ErrMsgEventNotFound  = "event not found"
	ErrMsgOptionNotFound = "option not found"
	ErrMsgRecordNotFound = "record not found"
	ErrMsgUserNotFound   = "user not found"

	// Validation errors
	ErrMsgInvalidInput       = "invalid input"
	ErrMsgInvalidOptionCount = "option count must be between 2 and 10"
	ErrMsgAmountBelowMinimum = "wager amount is below the event minimum"
	ErrMsgAmountNotPositive  = "wager amount must be positive"
	ErrMsgWrongEventKind     = "operation not valid for this event kind"

	// State errors
	ErrMsgEventNotBettable    = "event is not open for wagers"
	ErrMsgEventNotPending     = "event is not pending"
	ErrMsgEventNotStarted     = "event start time has not been reached"
	ErrMsgEventEnded          = "event end time has passed"
	ErrMsgEventNotFinished    = "event is not finished"
	ErrMsgEventNotFinishable  = "event cannot be finished in its current status"
	ErrMsgEventNotCancellable = "event cannot be cancelled in its current status"
	ErrMsgEventAlreadySettled = "event has already been settled"
	ErrMsgEventNotSettled     = "event has not been settled yet"
	ErrMsgWinnerNotSet        = "winner option has not been set"
	ErrMsgRecordNotPending    = "record is not pending"
	ErrMsgEventHasRecords     = "event has wager records and cannot be deleted"

	// Conflict errors
	ErrMsgAlreadyParticipated = "user has already participated in this event"

	// Ledger errors
	ErrMsgInsufficientBalance = "insufficient balance"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Not-found errors
	ErrEventNotFound  = errors.New(ErrMsgEventNotFound)
	ErrOptionNotFound = errors.New(ErrMsgOptionNotFound)
	ErrRecordNotFound = errors.New(ErrMsgRecordNotFound)
	ErrUserNotFound   = errors.New(ErrMsgUserNotFound)

	// Validation errors
	ErrInvalidInput       = errors.New(ErrMsgInvalidInput)
	ErrInvalidOptionCount = errors.New(ErrMsgInvalidOptionCount)
	ErrAmountBelowMinimum = errors.New(ErrMsgAmountBelowMinimum)
	ErrAmountNotPositive  = errors.New(ErrMsgAmountNotPositive)
	ErrWrongEventKind     = errors.New(ErrMsgWrongEventKind)

	// State errors
	ErrEventNotBettable    = errors.New(ErrMsgEventNotBettable)
	ErrEventNotPending     = errors.New(ErrMsgEventNotPending)
	ErrEventNotStarted     = errors.New(ErrMsgEventNotStarted)
	ErrEventEnded          = errors.New(ErrMsgEventEnded)
	ErrEventNotFinished    = errors.New(ErrMsgEventNotFinished)
	ErrEventNotFinishable  = errors.New(ErrMsgEventNotFinishable)
	ErrEventNotCancellable = errors.New(ErrMsgEventNotCancellable)
	ErrEventAlreadySettled = errors.New(ErrMsgEventAlreadySettled)
	ErrEventNotSettled     = errors.New(ErrMsgEventNotSettled)
	ErrWinnerNotSet        = errors.New(ErrMsgWinnerNotSet)
	ErrRecordNotPending    = errors.New(ErrMsgRecordNotPending)
	ErrEventHasRecords     = errors.New(ErrMsgEventHasRecords)

	// Conflict errors
	ErrAlreadyParticipated = errors.New(ErrMsgAlreadyParticipated)

	// Ledger errors
	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
)
