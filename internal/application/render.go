package application

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ahrav/go-slueval/internal/domain"
)

const rule = "------------------------------------------------------------"

// reportWriter remembers the first write error so rendering code can
// print unconditionally.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

// RenderText writes the human-readable report: a header and the overall,
// intent and slot blocks, plus the query CER block when present.
func RenderText(w io.Writer, r domain.MetricReport, cfg ReportConfig) error {
	rw := &reportWriter{w: w}
	ratio := func(v float64) string {
		return fmt.Sprintf("%.*f (%.*f%%)", cfg.RatioPrecision, v, cfg.PercentPrecision, v*100)
	}

	rw.printf("%s\n", rule)
	rw.printf("Evaluation Results (Normalization Enabled: Case/Punct/Num)\n")
	rw.printf("%s\n", rule)
	rw.printf("Total Records Processed: %d\n", r.Processed)
	if r.Degenerate {
		rw.printf("Warning:         no aligned samples; all ratios forced to 0\n")
	}

	rw.printf("\n--- Overall Accuracy (Semantics Exact Match) ---\n")
	rw.printf("Exact Matches:   %d\n", r.ExactMatches)
	rw.printf("Accuracy:        %s\n", ratio(r.OverallAccuracy))
	rw.printf("Note:            frame order is significant for exact match\n")

	rw.printf("\n--- Intent Accuracy (All Intents Correct) ---\n")
	rw.printf("Intent Matches:  %d\n", r.IntentMatches)
	rw.printf("Accuracy:        %s\n", ratio(r.IntentAccuracy))

	rw.printf("\n--- Slot Filling F1-Score (Global Aggregation) ---\n")
	rw.printf("TP / FP / FN:    %d / %d / %d\n", r.SlotTP, r.SlotFP, r.SlotFN)
	rw.printf("Precision:       %s\n", ratio(r.SlotPrecision))
	rw.printf("Recall:          %s\n", ratio(r.SlotRecall))
	rw.printf("F1 Score:        %s\n", ratio(r.SlotF1))

	if r.QueryCER != nil {
		rw.printf("\n--- Query Character Error Rate ---\n")
		rw.printf("Edits / Chars:   %d / %d\n", r.QueryCER.Edits, r.QueryCER.ReferenceRunes)
		rw.printf("CER:             %s\n", ratio(r.QueryCER.CER))
	}
	rw.printf("%s\n", rule)
	return rw.err
}

// RenderJSON writes the report as one indented JSON object.
func RenderJSON(w io.Writer, r domain.MetricReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Render dispatches on format, which is "text" or "json".
func Render(w io.Writer, r domain.MetricReport, format string, cfg ReportConfig) error {
	switch strings.ToLower(format) {
	case "", "text":
		return RenderText(w, r, cfg)
	case "json":
		return RenderJSON(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
