package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-slueval/infrastructure/jsonl"
	"github.com/ahrav/go-slueval/infrastructure/normalize"
	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

// Evaluator scores a prediction file against a ground-truth file.
//
// Missing or unreadable files abort the run. Malformed lines are skipped
// with a diagnostic, and predictions whose id has no ground truth are
// ignored. When nothing aligns, Run returns a degenerate report together
// with domain.ErrNoAlignedSamples.
type Evaluator struct {
	config    EvalConfig
	text      *normalize.TextNormalizer
	semantics *normalize.SemanticsNormalizer
	logger    *slog.Logger
	metrics   ports.MetricsCollector
	sinks     []ports.SkipSink
	tracer    trace.Tracer
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the logger used for progress and skip warnings.
func WithLogger(l *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) { e.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m ports.MetricsCollector) EvaluatorOption {
	return func(e *Evaluator) { e.metrics = m }
}

// WithSkipSink adds a sink that receives every skip diagnostic in
// addition to the log.
func WithSkipSink(s ports.SkipSink) EvaluatorOption {
	return func(e *Evaluator) { e.sinks = append(e.sinks, s) }
}

// NewEvaluator validates config and builds the normalizers it describes.
func NewEvaluator(config EvalConfig, opts ...EvaluatorOption) (*Evaluator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	text, err := normalize.NewTextNormalizer(config.Normalization)
	if err != nil {
		return nil, fmt.Errorf("text normalizer: %w", err)
	}
	semantics, err := normalize.NewSemanticsNormalizer(text)
	if err != nil {
		return nil, fmt.Errorf("semantics normalizer: %w", err)
	}

	e := &Evaluator{
		config:    config,
		text:      text,
		semantics: semantics,
		logger:    discardLogger(),
		metrics:   ports.NopMetrics{},
		tracer:    otel.Tracer("slueval-evaluator"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run opens both files and evaluates them. Ground truth is indexed in full
// before the first prediction is read.
func (e *Evaluator) Run(ctx context.Context, predictionPath, groundTruthPath string) (domain.MetricReport, error) {
	gt, err := jsonl.Open(groundTruthPath, e.config.Scan.MaxLineBytes)
	if err != nil {
		return domain.MetricReport{}, fmt.Errorf("ground truth: %w", err)
	}
	defer gt.Close()

	pred, err := jsonl.Open(predictionPath, e.config.Scan.MaxLineBytes)
	if err != nil {
		return domain.MetricReport{}, fmt.Errorf("prediction: %w", err)
	}
	defer pred.Close()

	return e.Evaluate(ctx, pred, gt)
}

// Evaluate scores predictions against groundTruth.
func (e *Evaluator) Evaluate(ctx context.Context, predictions, groundTruth *jsonl.Reader) (domain.MetricReport, error) {
	ctx, span := e.tracer.Start(ctx, "Evaluator.Evaluate",
		trace.WithAttributes(
			attribute.Bool("config.lowercase", e.config.Normalization.Lowercase),
			attribute.Int("config.numerals", len(e.config.Normalization.Numerals)),
			attribute.Bool("config.query_cer", e.config.QueryCER.Enabled),
		),
	)
	defer span.End()

	start := time.Now()
	aligner := NewAligner(e.skipSink(), e.metrics)

	idx, err := aligner.BuildIndex(ctx, groundTruth)
	if err != nil {
		span.RecordError(err)
		return domain.MetricReport{}, fmt.Errorf("build ground truth index: %w", err)
	}
	e.metrics.RecordLatency("build_index", time.Since(start), nil)
	e.metrics.RecordGauge("ground_truth_index_size", float64(idx.Len()), nil)
	e.logger.Info("ground truth indexed",
		slog.Int("samples", idx.Len()),
		slog.Int("overwritten", idx.Overwritten),
	)

	var aggOpts []AggregatorOption
	if e.config.QueryCER.Enabled {
		var text ports.TextNormalizer
		if e.config.QueryCER.Normalize {
			text = e.text
		}
		aggOpts = append(aggOpts, WithQueryCER(text))
	}
	agg, err := NewAggregator(e.semantics, aggOpts...)
	if err != nil {
		return domain.MetricReport{}, err
	}

	alignStart := time.Now()
	stats, err := aligner.Align(ctx, idx, predictions, func(p domain.AlignedPair) error {
		score := agg.Add(p)
		if !score.ExactMatch {
			e.logger.Debug("exact match failed",
				slog.String("id", p.Prediction.ID),
				slog.Bool("intent_match", score.IntentMatch),
				slog.Int("slot_fp", score.FP),
				slog.Int("slot_fn", score.FN),
			)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.MetricReport{}, fmt.Errorf("align predictions: %w", err)
	}
	e.metrics.RecordLatency("align", time.Since(alignStart), nil)

	report := agg.Report()
	e.recordReport(report)
	span.SetAttributes(
		attribute.Int("eval.processed", report.Processed),
		attribute.Int("eval.prediction_lines", stats.Read),
		attribute.Int("eval.skipped", stats.Skipped),
		attribute.Int("eval.misses", stats.Misses),
		attribute.Float64("eval.overall_accuracy", report.OverallAccuracy),
		attribute.Float64("eval.slot_f1", report.SlotF1),
		attribute.Int64("eval.latency_ms", time.Since(start).Milliseconds()),
	)
	e.logger.Info("evaluation finished",
		slog.Int("processed", report.Processed),
		slog.Int("skipped", stats.Skipped),
		slog.Int("misses", stats.Misses),
		slog.Duration("elapsed", time.Since(start)),
	)

	if report.Degenerate {
		span.RecordError(domain.ErrNoAlignedSamples)
		return report, domain.ErrNoAlignedSamples
	}
	return report, nil
}

func (e *Evaluator) recordReport(r domain.MetricReport) {
	e.metrics.RecordGauge("overall_accuracy", r.OverallAccuracy, nil)
	e.metrics.RecordGauge("intent_accuracy", r.IntentAccuracy, nil)
	e.metrics.RecordGauge("slot_precision", r.SlotPrecision, nil)
	e.metrics.RecordGauge("slot_recall", r.SlotRecall, nil)
	e.metrics.RecordGauge("slot_f1", r.SlotF1, nil)
	if r.QueryCER != nil {
		e.metrics.RecordGauge("query_cer", r.QueryCER.CER, nil)
	}
}

func (e *Evaluator) skipSink() ports.SkipSink {
	sinks := FanoutSink{LogSink{Logger: e.logger}, MetricsSink{Metrics: e.metrics}}
	return append(sinks, e.sinks...)
}
