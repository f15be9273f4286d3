package domain

import "fmt"

// SkipReason classifies why an input line was excluded from a run.
type SkipReason string

// Skip reasons reported through the skip side channel.
const (
	SkipInvalidJSON     SkipReason = "invalid_json"
	SkipMissingID       SkipReason = "missing_id"
	SkipMalformedRecord SkipReason = "malformed_record"
	SkipTransformFailed SkipReason = "transform_failed"
)

// Skip is a per-record diagnostic: one input line that could not be used.
type Skip struct {
	// Source names the input, for example "ground_truth" or "prediction".
	Source string

	// Line is the 1-based line number within the source.
	Line int

	Reason SkipReason

	// Err is the underlying decode or transform error.
	Err error
}

func (s Skip) String() string {
	return fmt.Sprintf("%s line %d skipped (%s): %v", s.Source, s.Line, s.Reason, s.Err)
}

// ReasonFor maps a record error to its skip reason.
func ReasonFor(err error) SkipReason {
	switch {
	case isErr(err, ErrInvalidJSON):
		return SkipInvalidJSON
	case isErr(err, ErrMissingID):
		return SkipMissingID
	case isErr(err, ErrMalformedAnnotation), isErr(err, ErrMissingSlotValue):
		return SkipTransformFailed
	default:
		return SkipMalformedRecord
	}
}
