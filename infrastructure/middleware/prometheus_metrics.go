// Package middleware provides cross-cutting concerns for the evaluation engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-slueval/internal/ports"
)

// EvaluationMetrics implements the MetricsCollector interface using
// Prometheus. All metrics live in the registry passed to the constructor,
// so building one never touches the global default registry.
type EvaluationMetrics struct {
	registry         *prometheus.Registry
	recordsRead      *prometheus.CounterVec
	recordsSkipped   *prometheus.CounterVec
	alignmentMisses  prometheus.Counter
	pairsProcessed   prometheus.Counter
	recordsConverted prometheus.Counter
	operationCounter *prometheus.CounterVec
	executionLatency *prometheus.HistogramVec
	valueHistogram   *prometheus.HistogramVec
	runGauges        *prometheus.GaugeVec
}

// NewEvaluationMetrics creates an EvaluationMetrics backed by a fresh
// private registry.
func NewEvaluationMetrics() *EvaluationMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &EvaluationMetrics{
		registry: reg,
		recordsRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slueval_records_read_total",
				Help: "Non-blank JSONL lines read, by source file role.",
			},
			[]string{"source"},
		),
		recordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slueval_records_skipped_total",
				Help: "Lines excluded from the run, by source and reason.",
			},
			[]string{"source", "reason"},
		),
		alignmentMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "slueval_alignment_misses_total",
				Help: "Prediction records whose id is absent from ground truth.",
			},
		),
		pairsProcessed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "slueval_pairs_processed_total",
				Help: "Prediction records aligned with a ground-truth sample.",
			},
		),
		recordsConverted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "slueval_records_converted_total",
				Help: "Annotation records written by the SFT converter.",
			},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slueval_operations_total",
				Help: "Other counted events, by metric name.",
			},
			[]string{"operation"},
		),
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slueval_operation_duration_seconds",
				Help:    "Wall time of evaluation phases.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		valueHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slueval_observed_values",
				Help:    "Distributions such as frames per sample.",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 13},
			},
			[]string{"metric", "source"},
		),
		runGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "slueval_run_state",
				Help: "Final values of the last run, such as index size and scores.",
			},
			[]string{"metric"},
		),
	}
}

// Registry exposes the private registry for gathering or text export.
func (m *EvaluationMetrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes every metric in the text exposition format.
func (m *EvaluationMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return ports.NewMetricsError("*", "WriteToTextfile", err)
	}
	return nil
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (m *EvaluationMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	_ map[string]string,
) {
	m.executionLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (m *EvaluationMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricRecordsRead:
		m.recordsRead.WithLabelValues(labelOr(labels, "source")).Add(value)
	case ports.MetricRecordsSkipped:
		m.recordsSkipped.WithLabelValues(labelOr(labels, "source"), labelOr(labels, "reason")).Add(value)
	case ports.MetricAlignmentMisses:
		m.alignmentMisses.Add(value)
	case ports.MetricPairsProcessed:
		m.pairsProcessed.Add(value)
	case ports.MetricRecordsConverted:
		m.recordsConverted.Add(value)
	default:
		m.operationCounter.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (m *EvaluationMetrics) RecordGauge(
	metric string, value float64, _ map[string]string,
) {
	m.runGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (m *EvaluationMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	m.valueHistogram.WithLabelValues(metric, labelOr(labels, "source")).Observe(value)
}

func labelOr(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// Compile-time verification that EvaluationMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*EvaluationMetrics)(nil)
