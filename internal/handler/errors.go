package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query/path parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidEventID    = "Invalid event ID"
	ErrMsgInvalidRecordID   = "Invalid record ID"
	ErrMsgInvalidUserID     = "Invalid user ID"
	ErrMsgInvalidOptionID   = "Invalid option ID"
	ErrMsgInvalidStatus     = "Invalid status filter"
	ErrMsgInvalidKind       = "Invalid kind filter"
)
