// Package testutils provides synthetic evaluation datasets for tests and
// for the dataset generator command. Every generated prediction carries a
// known corruption, so the metric counts of a run are known in advance.
package testutils

import (
	"fmt"
	"math/rand"

	"github.com/ahrav/go-slueval/internal/domain"
)

// GeneratorConfig controls synthetic dataset generation.
type GeneratorConfig struct {
	// Size is the number of ground-truth samples.
	Size int

	// Seed makes generation reproducible.
	Seed int64

	// CorruptRate is the probability that a prediction is altered.
	CorruptRate float64

	// MissRate is the probability that a prediction's id is replaced with
	// one absent from ground truth.
	MissRate float64
}

// EvalDataset is a paired ground-truth and prediction set together with
// the counts an evaluation of it must produce.
type EvalDataset struct {
	GroundTruth []domain.Sample
	Predictions []domain.Sample

	// Corruptions maps prediction id to the corruption applied to it.
	Corruptions map[string]string

	// Expected are the raw counts of scoring Predictions against
	// GroundTruth.
	Expected domain.MetricCounts
}

// GenerateEvalDataset builds a dataset of in-car utterances with one or
// two frames each.
func GenerateEvalDataset(cfg GeneratorConfig) *EvalDataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	ds := &EvalDataset{
		GroundTruth: make([]domain.Sample, 0, cfg.Size),
		Predictions: make([]domain.Sample, 0, cfg.Size),
		Corruptions: make(map[string]string, cfg.Size),
	}

	for i := 0; i < cfg.Size; i++ {
		gt := generateSample(rng, fmt.Sprintf("gen-%05d", i))
		ds.GroundTruth = append(ds.GroundTruth, gt)

		if rng.Float64() < cfg.MissRate {
			orphan := cloneSample(gt)
			orphan.ID = fmt.Sprintf("orphan-%05d", i)
			ds.Predictions = append(ds.Predictions, orphan)
			continue
		}

		kind := CorruptNone
		if rng.Float64() < cfg.CorruptRate {
			kind = pickCorruption(rng, len(gt.Semantics))
		}
		pred := corrupt(rng, cloneSample(gt), kind)
		ds.Predictions = append(ds.Predictions, pred)
		ds.Corruptions[pred.ID] = kind
		ds.Expected = addExpected(ds.Expected, kind, slotCount(gt))
	}
	return ds
}

func generateSample(rng *rand.Rand, id string) domain.Sample {
	n := 1 + rng.Intn(2)
	picks := rng.Perm(len(frameTemplates))[:n]

	s := domain.Sample{ID: id, Semantics: make([]domain.SemanticFrame, 0, n)}
	for _, p := range picks {
		tpl := frameTemplates[p]
		f := domain.NewFrame(tpl.Domain, tpl.Intents[rng.Intn(len(tpl.Intents))])
		for _, slot := range tpl.Slots {
			f.Slots.Set(slot.Name, slot.Values[rng.Intn(len(slot.Values))])
		}
		s.Semantics = append(s.Semantics, f)
		s.Query += f.Intent
	}
	return s
}

func pickCorruption(rng *rand.Rand, frames int) string {
	kinds := []string{CorruptNoise, CorruptValue, CorruptDrop, CorruptIntent}
	if frames > 1 {
		kinds = append(kinds, CorruptReorder)
	}
	return kinds[rng.Intn(len(kinds))]
}

// corrupt applies kind to s. Only the first frame is altered, except for
// reordering.
func corrupt(rng *rand.Rand, s domain.Sample, kind string) domain.Sample {
	if kind == CorruptNone {
		return s
	}
	f := &s.Semantics[0]
	tpl := templateFor(f.Domain)

	switch kind {
	case CorruptNoise:
		f.Domain += "。"
		slots := domain.NewSlots()
		f.Slots.Range(func(name, value string) bool {
			slots.Set(name, "《"+value+"》！")
			return true
		})
		f.Slots = slots
	case CorruptValue:
		slot := tpl.Slots[rng.Intn(len(tpl.Slots))]
		current, _ := f.Slots.Get(slot.Name)
		f.Slots.Set(slot.Name, otherThan(rng, slot.Values, current))
	case CorruptDrop:
		drop := tpl.Slots[rng.Intn(len(tpl.Slots))].Name
		slots := domain.NewSlots()
		f.Slots.Range(func(name, value string) bool {
			if name != drop {
				slots.Set(name, value)
			}
			return true
		})
		f.Slots = slots
	case CorruptIntent:
		f.Intent = otherThan(rng, tpl.Intents, f.Intent)
	case CorruptReorder:
		s.Semantics[0], s.Semantics[1] = s.Semantics[1], s.Semantics[0]
	}
	return s
}

func addExpected(c domain.MetricCounts, kind string, slots int) domain.MetricCounts {
	c.Processed++
	switch kind {
	case CorruptNone, CorruptNoise:
		c.ExactMatches++
		c.IntentMatches++
		c.SlotTP += slots
	case CorruptValue:
		c.IntentMatches++
		c.SlotTP += slots - 1
		c.SlotFP++
		c.SlotFN++
	case CorruptDrop:
		c.IntentMatches++
		c.SlotTP += slots - 1
		c.SlotFN++
	case CorruptIntent:
		c.SlotTP += slots
	case CorruptReorder:
		c.IntentMatches++
		c.SlotTP += slots
	}
	return c
}

func templateFor(domainName string) frameTemplate {
	for _, t := range frameTemplates {
		if t.Domain == domainName {
			return t
		}
	}
	panic("testutils: no template for domain " + domainName)
}

func otherThan(rng *rand.Rand, options []string, current string) string {
	for {
		if v := options[rng.Intn(len(options))]; v != current {
			return v
		}
	}
}

func slotCount(s domain.Sample) int {
	n := 0
	for _, f := range s.Semantics {
		n += f.Slots.Len()
	}
	return n
}

func cloneSample(s domain.Sample) domain.Sample {
	out := domain.Sample{ID: s.ID, Query: s.Query, Semantics: make([]domain.SemanticFrame, len(s.Semantics))}
	for i, f := range s.Semantics {
		nf := domain.NewFrame(f.Domain, f.Intent)
		f.Slots.Range(func(name, value string) bool {
			nf.Slots.Set(name, value)
			return true
		})
		out.Semantics[i] = nf
	}
	return out
}
