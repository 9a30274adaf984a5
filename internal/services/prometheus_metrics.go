package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics.
const (
	MetricTransactionsImported  = "transactions.imported"
	MetricTransactionsSkipped   = "transactions.skipped"
	MetricTransactionsDuplicate = "transactions.duplicate"
	MetricCategorization        = "categorization"
	MetricRulesApplied          = "rules.applied"
	MetricQuoteRequest          = "quote.request"
	MetricQuoteCache            = "quote.cache"
	MetricWorkspaceAction       = "workspace.action"
	MetricAuthEvent             = "authentication_event"
	MetricMonteCarloDuration    = "montecarlo"
	MetricImportDuration        = "transactions.import"
	MetricQuoteDuration         = "quote.fetch"
	MetricCircuitBreakerState   = "circuit_breaker.state"
)

type PrometheusMetrics struct {
	transactionsImported *prometheus.CounterVec
	categorizations      *prometheus.CounterVec
	rulesApplied         prometheus.Counter
	quoteRequests        *prometheus.CounterVec
	quoteCache           *prometheus.CounterVec
	workspaceActions     *prometheus.CounterVec
	authEvents           *prometheus.CounterVec
	monteCarloDuration   prometheus.Histogram
	importDuration       prometheus.Histogram
	quoteDuration        prometheus.Histogram
	circuitBreakerState  *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the collectors with reg. A nil reg uses the
// default registry served on /metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		transactionsImported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfm_transactions_imported_total",
				Help: "Imported transaction rows by outcome",
			},
			[]string{"status"},
		),
		categorizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfm_categorizations_total",
				Help: "Transactions categorized by method",
			},
			[]string{"method"},
		),
		rulesApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pfm_rule_applications_total",
				Help: "Number of apply-rules runs",
			},
		),
		quoteRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfm_quote_requests_total",
				Help: "Upstream quote feed requests by status",
			},
			[]string{"status"},
		),
		quoteCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfm_quote_cache_total",
				Help: "Quote cache lookups by result",
			},
			[]string{"result"},
		),
		workspaceActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfm_workspace_actions_total",
				Help: "Workspace actions dispatched by type",
			},
			[]string{"action"},
		),
		authEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfm_authentication_events_total",
				Help: "Authentication events by type",
			},
			[]string{"event_type"},
		),
		monteCarloDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pfm_montecarlo_duration_milliseconds",
				Help:    "Monte Carlo simulation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pfm_import_duration_milliseconds",
				Help:    "Transaction import duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		quoteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pfm_quote_fetch_duration_seconds",
				Help:    "Upstream quote fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pfm_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricTransactionsImported:
		m.transactionsImported.WithLabelValues("imported").Inc()
	case MetricTransactionsDuplicate:
		m.transactionsImported.WithLabelValues("duplicate").Inc()
	case MetricTransactionsSkipped:
		m.transactionsImported.WithLabelValues("skipped").Inc()
	case MetricCategorization:
		if method := tags["method"]; method != "" {
			m.categorizations.WithLabelValues(method).Inc()
		}
	case MetricRulesApplied:
		m.rulesApplied.Inc()
	case MetricQuoteRequest:
		if status := tags["status"]; status != "" {
			m.quoteRequests.WithLabelValues(status).Inc()
		}
	case MetricQuoteCache:
		if result := tags["result"]; result != "" {
			m.quoteCache.WithLabelValues(result).Inc()
		}
	case MetricWorkspaceAction:
		if action := tags["action"]; action != "" {
			m.workspaceActions.WithLabelValues(action).Inc()
		}
	case MetricAuthEvent:
		if eventType := tags["event_type"]; eventType != "" {
			m.authEvents.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricMonteCarloDuration:
		m.monteCarloDuration.Observe(float64(duration.Milliseconds()))
	case MetricImportDuration:
		m.importDuration.Observe(float64(duration.Milliseconds()))
	case MetricQuoteDuration:
		m.quoteDuration.Observe(duration.Seconds())
	}
}

// RecordGauge sets gauges. Counts of a batch (for example rows imported) can
// also be reported here and are added to the matching counter.
func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricCircuitBreakerState:
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	case MetricTransactionsImported:
		m.transactionsImported.WithLabelValues("imported").Add(value)
	case MetricTransactionsDuplicate:
		m.transactionsImported.WithLabelValues("duplicate").Add(value)
	case MetricTransactionsSkipped:
		m.transactionsImported.WithLabelValues("skipped").Add(value)
	case MetricCategorization:
		if method := tags["method"]; method != "" {
			m.categorizations.WithLabelValues(method).Add(value)
		}
	}
}
