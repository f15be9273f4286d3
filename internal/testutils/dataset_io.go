package testutils

import (
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-slueval/infrastructure/jsonl"
	"github.com/ahrav/go-slueval/internal/domain"
)

// sampleRecord is the JSONL shape of a prediction or ground-truth line.
type sampleRecord struct {
	ID        string                 `json:"id"`
	Query     string                 `json:"query"`
	Semantics []domain.SemanticFrame `json:"semantics"`
}

// SaveSamples writes samples to path, one record per line.
func SaveSamples(path string, samples []domain.Sample) error {
	w, err := jsonl.Create(path)
	if err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.Write(sampleRecord{ID: s.ID, Query: s.Query, Semantics: s.Semantics}); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

// Save writes the ground truth and predictions to the given paths. The two
// files are written concurrently.
func (d *EvalDataset) Save(groundTruthPath, predictionPath string) error {
	var g errgroup.Group
	g.Go(func() error { return SaveSamples(groundTruthPath, d.GroundTruth) })
	g.Go(func() error { return SaveSamples(predictionPath, d.Predictions) })
	return g.Wait()
}

// CorruptionCounts tallies predictions per corruption kind.
func (d *EvalDataset) CorruptionCounts() map[string]int {
	counts := make(map[string]int)
	for _, kind := range d.Corruptions {
		counts[kind]++
	}
	return counts
}
