package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Metrics holds all Prometheus metrics. It implements
// usecase.TransferObserver and usecase.SchedulerObserver.
type Metrics struct {
	// Transfer metrics
	Transfers        *prometheus.CounterVec
	TransferFailures *prometheus.CounterVec
	TransferAmount   prometheus.Histogram

	// Scheduler metrics
	SchedulerTicks       *prometheus.CounterVec
	SchedulerTickSeconds prometheus.Histogram
	RecurringExecutions  *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Authentication metrics
	AuthAttempts  *prometheus.CounterVec
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transfers_total",
				Help: "Total number of committed transfers by origin",
			},
			[]string{"origin"},
		),
		TransferFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transfer_failures_total",
				Help: "Total number of rejected or failed transfers by reason",
			},
			[]string{"reason"},
		),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		SchedulerTicks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_scheduler_ticks_total",
				Help: "Total scheduler ticks by result",
			},
			[]string{"result"},
		),
		SchedulerTickSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_scheduler_tick_duration_seconds",
			Help:    "Duration of scheduler ticks",
			Buckets: prometheus.DefBuckets,
		}),
		RecurringExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_recurring_executions_total",
				Help: "Recurring transfer definitions processed by outcome",
			},
			[]string{"outcome"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_auth_attempts_total",
				Help: "Sign-in attempts by result",
			},
			[]string{"result"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rate_limit_hits_total",
				Help: "Requests rejected by a rate limiter",
			},
			[]string{"limiter"},
		),
	}
}

// TransferSucceeded records a committed transfer.
func (m *Metrics) TransferSucceeded(origin domain.TransferOrigin, amount decimal.Decimal) {
	m.Transfers.WithLabelValues(string(origin)).Inc()
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// TransferFailed records a transfer that did not commit.
func (m *Metrics) TransferFailed(_ domain.TransferOrigin, reason string) {
	m.TransferFailures.WithLabelValues(reason).Inc()
}

// TickCompleted records a scheduler tick.
func (m *Metrics) TickCompleted(result string, duration time.Duration) {
	m.SchedulerTicks.WithLabelValues(result).Inc()
	m.SchedulerTickSeconds.Observe(duration.Seconds())
}

// RecurringExecuted records the outcome of one definition.
func (m *Metrics) RecurringExecuted(outcome string) {
	m.RecurringExecutions.WithLabelValues(outcome).Inc()
}

// AuthAttempted records a sign-in attempt.
func (m *Metrics) AuthAttempted(result string) {
	m.AuthAttempts.WithLabelValues(result).Inc()
}

// RateLimited records a request rejected by limiter.
func (m *Metrics) RateLimited(limiter string) {
	m.RateLimitHits.WithLabelValues(limiter).Inc()
}
