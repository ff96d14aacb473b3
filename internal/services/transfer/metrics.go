package transfer

import (
	"time"

	"ledgerpay/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration)            {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)                     {}
func (n *NoopMetricsCollector) RecordError(string, string)                               {}
func (n *NoopMetricsCollector) RecordTransactionVolume(domain.Currency, decimal.Decimal) {}

// PrometheusMetricsCollector exports the orchestrator measurements.
type PrometheusMetricsCollector struct {
	results  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	volume   *prometheus.CounterVec
}

// NewPrometheusMetricsCollector registers the ledger metrics with reg.
func NewPrometheusMetricsCollector(reg prometheus.Registerer) *PrometheusMetricsCollector {
	factory := promauto.With(reg)
	return &PrometheusMetricsCollector{
		results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of money movement operations by result",
			},
			[]string{"operation", "result"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operation_errors_total",
				Help: "Total number of failed operations by error code",
			},
			[]string{"operation", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of money movement operations",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		volume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transaction_volume_total",
				Help: "Amount moved by committed operations",
			},
			[]string{"currency"},
		),
	}
}

func (m *PrometheusMetricsCollector) RecordOperationDuration(operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *PrometheusMetricsCollector) RecordOperationResult(operation, result string) {
	m.results.WithLabelValues(operation, result).Inc()
}

func (m *PrometheusMetricsCollector) RecordError(operation, code string) {
	m.errors.WithLabelValues(operation, code).Inc()
}

func (m *PrometheusMetricsCollector) RecordTransactionVolume(currency domain.Currency, amount decimal.Decimal) {
	m.volume.WithLabelValues(string(currency)).Add(amount.InexactFloat64())
}
