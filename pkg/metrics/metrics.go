package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Intake flow metrics
	SessionsOpened prometheus.Counter
	SessionsClosed *prometheus.CounterVec
	StepAdvances   *prometheus.CounterVec

	// Document metrics
	RenderLatency  prometheus.Histogram
	RenderFailures prometheus.Counter
	DocumentPages  prometheus.Histogram

	// Submission metrics
	Submissions   *prometheus.CounterVec
	RelayAttempts *prometheus.CounterVec
	PayloadBytes  prometheus.Histogram
}

// NewMetrics creates all application metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		SessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intake_sessions_opened_total",
			Help:      "Total number of intake flows opened",
		}),
		SessionsClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intake_sessions_closed_total",
			Help:      "Total number of intake flows closed, by reason",
		}, []string{"reason"}),
		StepAdvances: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intake_step_advances_total",
			Help:      "Forward step transitions, by the step left",
		}, []string{"step"}),

		RenderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "document_render_duration_seconds",
			Help:      "Time spent rendering intake documents",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		RenderFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "document_render_failures_total",
			Help:      "Total number of failed document renders",
		}),
		DocumentPages: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "document_pages",
			Help:      "Page count of rendered intake documents",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15},
		}),

		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submissions_total",
			Help:      "Total number of submissions, by delivery path",
		}, []string{"delivery"}),
		RelayAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "relay_attempts_total",
			Help:      "Relay send attempts",
		}, []string{"relay", "attachment", "status"}),
		PayloadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "relay_payload_bytes",
			Help:      "Encoded size of relay payloads",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 10),
		}),
	}
}

// NewNop builds metrics on a private registry so tests can construct as many
// as they like.
func NewNop() *Metrics {
	return NewMetrics("test", "", prometheus.NewRegistry())
}
