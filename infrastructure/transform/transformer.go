// Package transform converts nested dataset annotations into the standard
// semantic frame list used by prediction and ground-truth files.
package transform

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

var _ ports.FrameTransformer = (*Transformer)(nil)

var validate = validator.New()

// MissingValuePolicy decides what happens to a non-intent slot item that
// has no value.
type MissingValuePolicy string

const (
	// MissingValueSkipRecord fails the whole record. This is the default.
	MissingValueSkipRecord MissingValuePolicy = "skip_record"

	// MissingValueEmpty stores the slot with an empty value.
	MissingValueEmpty MissingValuePolicy = "empty"
)

// Config controls the transformer.
type Config struct {
	MissingValue MissingValuePolicy `yaml:"missing_value" json:"missing_value" validate:"required,oneof=skip_record empty"`
}

// DefaultConfig returns a Config that rejects records with value-less slots.
func DefaultConfig() Config {
	return Config{MissingValue: MissingValueSkipRecord}
}

// Transformer turns a RawAnnotation into one SemanticFrame per
// (intent key, domain) combination, in document order.
//
// Within a combination the items are scanned left to right. The item named
// "intent" sets the frame's intent, defaulting to "" when it has no value.
// Every other item sets slots[name] = value and a repeated name keeps its
// last value.
type Transformer struct {
	config Config
}

// New validates config and returns a Transformer.
func New(config Config) (*Transformer, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &Transformer{config: config}, nil
}

// Transform converts annotation. A MalformedAnnotation is returned as the
// error; a value-less slot item fails with domain.ErrMissingSlotValue
// unless the policy is MissingValueEmpty.
func (t *Transformer) Transform(annotation domain.RawAnnotation) ([]domain.SemanticFrame, error) {
	switch a := annotation.(type) {
	case domain.MalformedAnnotation:
		return nil, a
	case domain.WellFormedAnnotation:
		return t.transform(a)
	default:
		return nil, fmt.Errorf("%w: unsupported annotation %T", domain.ErrMalformedAnnotation, annotation)
	}
}

func (t *Transformer) transform(a domain.WellFormedAnnotation) ([]domain.SemanticFrame, error) {
	frames := make([]domain.SemanticFrame, 0, len(a.Groups))
	for _, group := range a.Groups {
		for _, entry := range group.Domains {
			frame := domain.NewFrame(entry.Domain, "")
			for _, item := range entry.Items {
				if item.IsIntent() {
					frame.Intent = item.Value.Or("")
					continue
				}
				if !item.Value.Valid && t.config.MissingValue == MissingValueSkipRecord {
					return nil, fmt.Errorf("%w: intent %q, domain %q, slot %q",
						domain.ErrMissingSlotValue, group.Key, entry.Domain, item.Name)
				}
				frame.Slots.Set(item.Name, item.Value.Or(""))
			}
			frames = append(frames, frame)
		}
	}
	return frames, nil
}
