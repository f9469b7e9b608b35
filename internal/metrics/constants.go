package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameWagersPlaced    = "wagers_placed_total"
	MetricNamePointsStaked    = "points_staked_total"
	MetricNameEventsSettled   = "wager_events_settled_total"
	MetricNameEventsCancelled = "wager_events_cancelled_total"
	MetricNamePointsPaidOut   = "points_paid_out_total"
	MetricNamePlatformFee     = "platform_fee_total"
	MetricNameRefundsIssued   = "refunds_issued_total"
	MetricNamePointsRefunded  = "points_refunded_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextWagersPlaced    = "Total number of wagers placed"
	HelpTextPointsStaked    = "Total points staked across all wagers"
	HelpTextEventsSettled   = "Total number of wagering events settled"
	HelpTextEventsCancelled = "Total number of wagering events cancelled"
	HelpTextPointsPaidOut   = "Total points paid out to winners"
	HelpTextPlatformFee     = "Total points collected as platform fee"
	HelpTextRefundsIssued   = "Total number of refunds issued"
	HelpTextPointsRefunded  = "Total points returned by refunds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelKind   = "kind"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected type, skipping business metrics"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
