package domain

// MetricCounts are the raw counters accumulated over one evaluation run.
type MetricCounts struct {
	// Processed counts aligned pairs, the denominator of both accuracies.
	Processed int `json:"processed_count"`

	// ExactMatches counts pairs whose normalized frame lists are equal.
	ExactMatches int `json:"exact_match_count"`

	// IntentMatches counts pairs with equal sorted (domain, intent) lists.
	IntentMatches int `json:"intent_match_count"`

	// SlotTP, SlotFP and SlotFN are pooled over all pairs.
	SlotTP int `json:"slot_tp"`
	SlotFP int `json:"slot_fp"`
	SlotFN int `json:"slot_fn"`
}

// CERStats reports the character error rate of prediction queries against
// ground-truth queries, pooled over all aligned pairs.
type CERStats struct {
	Edits          int     `json:"edits"`
	ReferenceRunes int     `json:"reference_runes"`
	CER            float64 `json:"cer"`
}

// MetricReport is the finalized outcome of one evaluation run. All ratios
// lie in [0, 1].
type MetricReport struct {
	MetricCounts

	OverallAccuracy float64 `json:"overall_accuracy"`
	IntentAccuracy  float64 `json:"intent_accuracy"`
	SlotPrecision   float64 `json:"slot_precision"`
	SlotRecall      float64 `json:"slot_recall"`
	SlotF1          float64 `json:"slot_f1"`

	// Degenerate is set when no pair was aligned. Every ratio is then 0.0,
	// which distinguishes the run from one that genuinely scored zero.
	Degenerate bool `json:"degenerate"`

	// QueryCER is present only when query CER scoring was enabled.
	QueryCER *CERStats `json:"query_cer,omitempty"`
}

// Finalize derives the report ratios from raw counts.
func Finalize(c MetricCounts) MetricReport {
	r := MetricReport{MetricCounts: c}
	if c.Processed == 0 {
		r.Degenerate = true
		return r
	}

	r.OverallAccuracy = float64(c.ExactMatches) / float64(c.Processed)
	r.IntentAccuracy = float64(c.IntentMatches) / float64(c.Processed)

	if d := c.SlotTP + c.SlotFP; d > 0 {
		r.SlotPrecision = float64(c.SlotTP) / float64(d)
	}
	if d := c.SlotTP + c.SlotFN; d > 0 {
		r.SlotRecall = float64(c.SlotTP) / float64(d)
	}
	if s := r.SlotPrecision + r.SlotRecall; s > 0 {
		r.SlotF1 = 2 * r.SlotPrecision * r.SlotRecall / s
	}
	return r
}
