// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"github.com/ahrav/go-slueval/internal/domain"
)

// TextNormalizer canonicalizes a single string.
// Implementations must be pure: equal inputs produce equal outputs, and
// applying Normalize twice equals applying it once.
type TextNormalizer interface {
	Normalize(text string) string
}

// FrameNormalizer canonicalizes a frame list before scoring.
// The returned list keeps the input order and must not alias the input's
// slot mappings.
type FrameNormalizer interface {
	NormalizeFrames(frames []domain.SemanticFrame) []domain.SemanticFrame
}

// FrameTransformer converts a nested raw annotation into standard frames.
//
// A MalformedAnnotation, or a well-formed one that violates the
// transformer's missing-value policy, yields an error that the caller
// treats as a per-record failure.
type FrameTransformer interface {
	Transform(annotation domain.RawAnnotation) ([]domain.SemanticFrame, error)
}

// SkipSink receives per-record diagnostics. Readers report every line they
// exclude to the sink and keep going; what the sink does with a skip
// (log it, count it, collect it) never changes the run's control flow.
type SkipSink interface {
	Skip(s domain.Skip)
}

// SkipSinkFunc adapts a function to the SkipSink interface.
type SkipSinkFunc func(domain.Skip)

// Skip calls f(s).
func (f SkipSinkFunc) Skip(s domain.Skip) { f(s) }
