package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name, labelName, labelValue string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := labelName == ""
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelName && label.GetValue() == labelValue {
					matched = true
				}
			}
			if !matched {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, labelName, labelValue)
	return 0
}

func TestPrometheusMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	metrics.IncrementCounter(MetricAuthEvent, map[string]string{"event_type": "login"})
	metrics.IncrementCounter(MetricAuthEvent, map[string]string{"event_type": "login"})
	metrics.IncrementCounter(MetricQuoteCache, map[string]string{"result": "hit"})
	metrics.IncrementCounter(MetricRulesApplied, nil)
	metrics.IncrementCounter(MetricWorkspaceAction, map[string]string{"action": "reset_all"})
	metrics.IncrementCounter("unknown.metric", nil)

	assert.Equal(t, 2.0, gatherValue(t, reg, "pfm_authentication_events_total", "event_type", "login"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "pfm_quote_cache_total", "result", "hit"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "pfm_rule_applications_total", "", ""))
	assert.Equal(t, 1.0, gatherValue(t, reg, "pfm_workspace_actions_total", "action", "reset_all"))
}

func TestPrometheusMetrics_BatchCountsAndGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	metrics.RecordGauge(MetricTransactionsImported, 12, nil)
	metrics.RecordGauge(MetricTransactionsDuplicate, 3, nil)
	metrics.RecordGauge(MetricCategorization, 5, map[string]string{"method": "RULE"})
	metrics.RecordGauge(MetricCircuitBreakerState, 1, map[string]string{"service": "quote_feed"})

	assert.Equal(t, 12.0, gatherValue(t, reg, "pfm_transactions_imported_total", "status", "imported"))
	assert.Equal(t, 3.0, gatherValue(t, reg, "pfm_transactions_imported_total", "status", "duplicate"))
	assert.Equal(t, 5.0, gatherValue(t, reg, "pfm_categorizations_total", "method", "RULE"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "pfm_circuit_breaker_state", "service", "quote_feed"))
}

func TestPrometheusMetrics_Durations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	metrics.RecordProcessingTime(MetricMonteCarloDuration, 120*time.Millisecond)
	metrics.RecordProcessingTime(MetricQuoteDuration, 300*time.Millisecond)
	metrics.RecordProcessingTime(MetricQuoteDuration, 200*time.Millisecond)

	assert.Equal(t, 1.0, gatherValue(t, reg, "pfm_montecarlo_duration_milliseconds", "", ""))
	assert.Equal(t, 2.0, gatherValue(t, reg, "pfm_quote_fetch_duration_seconds", "", ""))
}
