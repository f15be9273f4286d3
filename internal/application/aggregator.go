package application

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

// ErrNilNormalizer is returned when an Aggregator is built without a frame
// normalizer.
var ErrNilNormalizer = errors.New("frame normalizer cannot be nil")

// PairScore is the contribution of one aligned pair.
type PairScore struct {
	ExactMatch  bool
	IntentMatch bool
	TP, FP, FN  int
}

// Aggregator accumulates the three metric families over aligned pairs.
//
// Each pair is normalized on both sides, then scored:
//   - exact match: the frame lists are equal as ordered sequences, so two
//     frames of a multi-intent utterance in swapped order do not match;
//   - intent match: the sorted (domain, intent) lists are equal, which is
//     order-insensitive but counts duplicates;
//   - slots: the (name, value) pairs of all frames form one set per side.
//     The owning frame is not part of the key, so a pair moved between
//     frames of the same utterance scores the same.
//
// Slot TP/FP/FN are pooled across pairs (micro-averaging).
//
// Aggregator is not safe for concurrent use.
type Aggregator struct {
	normalizer ports.FrameNormalizer
	counts     domain.MetricCounts

	cerEnabled bool
	cerText    ports.TextNormalizer
	cer        domain.CERStats
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithQueryCER enables query character error rate scoring. When text is
// non-nil both queries are normalized before the edit distance is taken.
func WithQueryCER(text ports.TextNormalizer) AggregatorOption {
	return func(a *Aggregator) {
		a.cerEnabled = true
		a.cerText = text
	}
}

// NewAggregator creates an Aggregator that normalizes frames with
// normalizer.
func NewAggregator(normalizer ports.FrameNormalizer, opts ...AggregatorOption) (*Aggregator, error) {
	if normalizer == nil {
		return nil, ErrNilNormalizer
	}
	a := &Aggregator{normalizer: normalizer}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Add scores pair and folds it into the running counts.
func (a *Aggregator) Add(pair domain.AlignedPair) PairScore {
	pred := a.normalizer.NormalizeFrames(pair.Prediction.Semantics)
	gt := a.normalizer.NormalizeFrames(pair.GroundTruth.Semantics)

	var score PairScore
	score.ExactMatch = domain.FramesEqual(pred, gt)
	score.IntentMatch = slices.Equal(intentKeys(pred), intentKeys(gt))

	predSlots, gtSlots := slotSet(pred), slotSet(gt)
	for p := range predSlots {
		if _, ok := gtSlots[p]; ok {
			score.TP++
		} else {
			score.FP++
		}
	}
	for p := range gtSlots {
		if _, ok := predSlots[p]; !ok {
			score.FN++
		}
	}

	a.counts.Processed++
	if score.ExactMatch {
		a.counts.ExactMatches++
	}
	if score.IntentMatch {
		a.counts.IntentMatches++
	}
	a.counts.SlotTP += score.TP
	a.counts.SlotFP += score.FP
	a.counts.SlotFN += score.FN

	if a.cerEnabled {
		a.addCER(pair.Prediction.Query, pair.GroundTruth.Query)
	}
	return score
}

// Counts returns the raw counters accumulated so far.
func (a *Aggregator) Counts() domain.MetricCounts { return a.counts }

// Report derives the final ratios. With no pairs the report is degenerate
// and every ratio is 0.0.
func (a *Aggregator) Report() domain.MetricReport {
	r := domain.Finalize(a.counts)
	if a.cerEnabled {
		cer := a.cer
		if cer.ReferenceRunes > 0 {
			cer.CER = float64(cer.Edits) / float64(cer.ReferenceRunes)
		}
		r.QueryCER = &cer
	}
	return r
}

func (a *Aggregator) addCER(hyp, ref string) {
	if a.cerText != nil {
		hyp, ref = a.cerText.Normalize(hyp), a.cerText.Normalize(ref)
	}
	a.cer.Edits += levenshtein.ComputeDistance(hyp, ref)
	a.cer.ReferenceRunes += utf8.RuneCountInString(ref)
}

type intentKey struct{ domain, intent string }

func intentKeys(frames []domain.SemanticFrame) []intentKey {
	keys := make([]intentKey, len(frames))
	for i, f := range frames {
		keys[i] = intentKey{f.Domain, f.Intent}
	}
	slices.SortFunc(keys, func(x, y intentKey) int {
		if c := strings.Compare(x.domain, y.domain); c != 0 {
			return c
		}
		return strings.Compare(x.intent, y.intent)
	})
	return keys
}

type slotPair struct{ name, value string }

func slotSet(frames []domain.SemanticFrame) map[slotPair]struct{} {
	set := make(map[slotPair]struct{})
	for _, f := range frames {
		f.Slots.Range(func(name, value string) bool {
			set[slotPair{name, value}] = struct{}{}
			return true
		})
	}
	return set
}
