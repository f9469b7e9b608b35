package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPLatencyBuckets covers the expected latency range of the API
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	WagersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersPlaced,
			Help: HelpTextWagersPlaced,
		},
		[]string{LabelKind},
	)

	PointsStaked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsStaked,
			Help: HelpTextPointsStaked,
		},
	)

	EventsSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventsSettled,
			Help: HelpTextEventsSettled,
		},
	)

	EventsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventsCancelled,
			Help: HelpTextEventsCancelled,
		},
	)

	PointsPaidOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsPaidOut,
			Help: HelpTextPointsPaidOut,
		},
	)

	PlatformFee = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePlatformFee,
			Help: HelpTextPlatformFee,
		},
	)

	RefundsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRefundsIssued,
			Help: HelpTextRefundsIssued,
		},
	)

	PointsRefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsRefunded,
			Help: HelpTextPointsRefunded,
		},
	)
)
