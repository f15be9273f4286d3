package normalize

import (
	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

var _ ports.FrameNormalizer = (*SemanticsNormalizer)(nil)

// SemanticsNormalizer applies a TextNormalizer to every domain, intent,
// slot name and slot value of a frame list.
type SemanticsNormalizer struct {
	text ports.TextNormalizer
}

// NewSemanticsNormalizer creates a SemanticsNormalizer over text.
func NewSemanticsNormalizer(text ports.TextNormalizer) (*SemanticsNormalizer, error) {
	if text == nil {
		return nil, ErrNilTextNormalizer
	}
	return &SemanticsNormalizer{text: text}, nil
}

// NormalizeFrames returns a new frame list in the same order. Slots are
// rebuilt in their original order; when two names collide after
// normalization the later value wins. Frames whose slots were not a
// mapping keep that value verbatim; their domain and intent are still
// normalized.
func (n *SemanticsNormalizer) NormalizeFrames(frames []domain.SemanticFrame) []domain.SemanticFrame {
	out := make([]domain.SemanticFrame, 0, len(frames))
	for _, f := range frames {
		nf := domain.SemanticFrame{
			Domain: n.text.Normalize(f.Domain),
			Intent: n.text.Normalize(f.Intent),
		}
		if !f.HasSlotMapping() {
			nf.Opaque = f.Opaque
			out = append(out, nf)
			continue
		}
		nf.Slots = domain.NewSlots()
		f.Slots.Range(func(name, value string) bool {
			nf.Slots.Set(n.text.Normalize(name), n.text.Normalize(value))
			return true
		})
		out = append(out, nf)
	}
	return out
}
