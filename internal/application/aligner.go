package application

import (
	"context"
	"errors"

	"github.com/ahrav/go-slueval/infrastructure/jsonl"
	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

// Source names used in skip diagnostics and metric labels.
const (
	SourceGroundTruth = "ground_truth"
	SourcePrediction  = "prediction"
	SourceAnnotation  = "annotation"
)

// GroundTruthIndex holds every usable ground-truth sample keyed by id.
type GroundTruthIndex struct {
	samples map[string]domain.Sample

	// Overwritten counts records replaced by a later record with the same id.
	Overwritten int
}

// NewGroundTruthIndex returns an empty index.
func NewGroundTruthIndex() *GroundTruthIndex {
	return &GroundTruthIndex{samples: make(map[string]domain.Sample)}
}

// Put stores s, replacing any earlier sample with the same id.
func (g *GroundTruthIndex) Put(s domain.Sample) {
	if _, ok := g.samples[s.ID]; ok {
		g.Overwritten++
	}
	g.samples[s.ID] = s
}

// Lookup returns the sample stored under id.
func (g *GroundTruthIndex) Lookup(id string) (domain.Sample, bool) {
	s, ok := g.samples[id]
	return s, ok
}

// Len returns the number of distinct ids.
func (g *GroundTruthIndex) Len() int { return len(g.samples) }

// AlignStats summarizes one pass over the prediction stream.
type AlignStats struct {
	// Read counts non-blank prediction lines.
	Read int
	// Skipped counts lines rejected with a diagnostic.
	Skipped int
	// Misses counts predictions whose id has no ground truth. They are
	// excluded without a diagnostic so partial runs can be scored.
	Misses int
	// Aligned counts emitted pairs.
	Aligned int
}

// Aligner joins prediction records to ground truth by sample id.
//
// Ground truth is loaded completely before any prediction is read;
// predictions are then streamed and discarded one at a time. Every
// rejected line is reported to the SkipSink and the pass continues.
type Aligner struct {
	sink    ports.SkipSink
	metrics ports.MetricsCollector
}

// NewAligner creates an Aligner. A nil metrics collector is replaced with
// ports.NopMetrics.
func NewAligner(sink ports.SkipSink, metrics ports.MetricsCollector) *Aligner {
	if sink == nil {
		sink = ports.SkipSinkFunc(func(domain.Skip) {})
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Aligner{sink: sink, metrics: metrics}
}

// BuildIndex reads every ground-truth record from r. Lines with invalid
// JSON or without an id are skipped; later duplicates overwrite earlier
// ones. Only read errors and context cancellation are returned.
func (a *Aligner) BuildIndex(ctx context.Context, r *jsonl.Reader) (*GroundTruthIndex, error) {
	idx := NewGroundTruthIndex()
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := r.Line()
		a.count(ports.MetricRecordsRead, SourceGroundTruth)

		sample, err := domain.ParseSample(line.Data)
		if err != nil {
			a.skip(SourceGroundTruth, line.Number, err)
			continue
		}
		a.metrics.RecordHistogram("frames_per_sample", float64(len(sample.Semantics)),
			map[string]string{"source": SourceGroundTruth})
		idx.Put(sample)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Align streams predictions from r and calls emit for each one whose id is
// present in idx. Lines with invalid JSON are skipped with a diagnostic;
// predictions without an id, or with an unknown one, are alignment misses.
// An error from emit stops the pass and is returned.
func (a *Aligner) Align(
	ctx context.Context,
	idx *GroundTruthIndex,
	r *jsonl.Reader,
	emit func(domain.AlignedPair) error,
) (AlignStats, error) {
	var stats AlignStats
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := r.Line()
		stats.Read++
		a.count(ports.MetricRecordsRead, SourcePrediction)

		pred, err := domain.ParseSample(line.Data)
		switch {
		case errors.Is(err, domain.ErrMissingID):
			stats.Misses++
			a.count(ports.MetricAlignmentMisses, SourcePrediction)
			continue
		case err != nil:
			stats.Skipped++
			a.skip(SourcePrediction, line.Number, err)
			continue
		}

		gt, ok := idx.Lookup(pred.ID)
		if !ok {
			stats.Misses++
			a.count(ports.MetricAlignmentMisses, SourcePrediction)
			continue
		}

		stats.Aligned++
		a.count(ports.MetricPairsProcessed, SourcePrediction)
		if err := emit(domain.AlignedPair{Prediction: pred, GroundTruth: gt}); err != nil {
			return stats, err
		}
	}
	return stats, r.Err()
}

func (a *Aligner) skip(source string, line int, err error) {
	a.sink.Skip(domain.NewRecordError(source, line, err).Skip())
}

func (a *Aligner) count(metric, source string) {
	a.metrics.RecordCounter(metric, 1, map[string]string{"source": source})
}
