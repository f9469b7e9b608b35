package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to a pooled buffer first so a marshalling failure never sends
	// a half-written body
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing error
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error("Operation failed", "operation", opName, "error", err)
	statusCode, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, statusCode, userMsg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	// Not-found messages
	ErrMsgEventNotFoundError  = "Event not found"
	ErrMsgOptionNotFoundError = "Option not found"
	ErrMsgRecordNotFoundError = "Wager record not found"
	ErrMsgUserNotFoundError   = "User not found"

	// Validation messages
	ErrMsgInvalidInputError  = "Invalid request. Please check your inputs."
	ErrMsgOptionCountError   = "Events must have between 2 and 10 options"
	ErrMsgBelowMinimumError  = "Wager amount is below the event minimum"
	ErrMsgNotPositiveError   = "Wager amount must be positive"
	ErrMsgWrongKindError     = "That operation is not valid for this event kind"

	// State messages
	ErrMsgNotBettableError     = "This event is not open for wagers"
	ErrMsgNotPendingError      = "Event is not pending"
	ErrMsgNotStartedError      = "Event has not started yet"
	ErrMsgEndedError           = "Event has already ended"
	ErrMsgNotFinishedError     = "Event must be finished first"
	ErrMsgNotFinishableError   = "Event cannot be finished in its current state"
	ErrMsgNotCancellableError  = "Event cannot be cancelled in its current state"
	ErrMsgAlreadySettledError  = "Event has already been settled"
	ErrMsgNotSettledError      = "Event has not been settled yet"
	ErrMsgWinnerNotSetError    = "Set the winning option before settling"
	ErrMsgRecordNotPendingErr  = "Record has already been settled"
	ErrMsgEventHasRecordsError = "Event has wagers and cannot be deleted"

	// Conflict messages
	ErrMsgAlreadyParticipatedErr = "You have already wagered on this event"

	// Ledger messages
	ErrMsgInsufficientBalanceErr = "Not enough points"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	// Not found
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, ErrMsgEventNotFoundError
	case errors.Is(err, domain.ErrOptionNotFound):
		return http.StatusNotFound, ErrMsgOptionNotFoundError
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, ErrMsgRecordNotFoundError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError

	// Validation
	case errors.Is(err, domain.ErrInvalidOptionCount):
		return http.StatusBadRequest, ErrMsgOptionCountError
	case errors.Is(err, domain.ErrAmountBelowMinimum):
		return http.StatusBadRequest, ErrMsgBelowMinimumError
	case errors.Is(err, domain.ErrAmountNotPositive):
		return http.StatusBadRequest, ErrMsgNotPositiveError
	case errors.Is(err, domain.ErrWrongEventKind):
		return http.StatusBadRequest, ErrMsgWrongKindError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError

	// Lifecycle state conflicts
	case errors.Is(err, domain.ErrEventNotBettable):
		return http.StatusConflict, ErrMsgNotBettableError
	case errors.Is(err, domain.ErrEventNotPending):
		return http.StatusConflict, ErrMsgNotPendingError
	case errors.Is(err, domain.ErrEventNotStarted):
		return http.StatusConflict, ErrMsgNotStartedError
	case errors.Is(err, domain.ErrEventEnded):
		return http.StatusConflict, ErrMsgEndedError
	case errors.Is(err, domain.ErrEventNotFinished):
		return http.StatusConflict, ErrMsgNotFinishedError
	case errors.Is(err, domain.ErrEventNotFinishable):
		return http.StatusConflict, ErrMsgNotFinishableError
	case errors.Is(err, domain.ErrEventNotCancellable):
		return http.StatusConflict, ErrMsgNotCancellableError
	case errors.Is(err, domain.ErrEventAlreadySettled):
		return http.StatusConflict, ErrMsgAlreadySettledError
	case errors.Is(err, domain.ErrEventNotSettled):
		return http.StatusConflict, ErrMsgNotSettledError
	case errors.Is(err, domain.ErrWinnerNotSet):
		return http.StatusConflict, ErrMsgWinnerNotSetError
	case errors.Is(err, domain.ErrRecordNotPending):
		return http.StatusConflict, ErrMsgRecordNotPendingErr
	case errors.Is(err, domain.ErrEventHasRecords):
		return http.StatusConflict, ErrMsgEventHasRecordsError

	// Conflicts
	case errors.Is(err, domain.ErrAlreadyParticipated):
		return http.StatusConflict, ErrMsgAlreadyParticipatedErr

	// Ledger
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest, ErrMsgInsufficientBalanceErr
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
