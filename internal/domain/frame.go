// Package domain contains the pure data model of the evaluation engine:
// semantic frames, samples, raw annotations, skip diagnostics and the
// metric report.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// SemanticFrame is one recognized intent within an utterance: the domain
// it belongs to, the intent name, and the slots attached to it.
type SemanticFrame struct {
	// Domain names the functional area, for example "音乐" or "地图".
	Domain string

	// Intent names the action within the domain. Absent intents read as "".
	Intent string

	// Slots holds the frame's attribute/value pairs in document order.
	// It never contains the key "intent".
	Slots *Slots

	// Opaque holds the verbatim JSON of a "slots" field that was present
	// but was not an object. Such frames carry no slot pairs and are passed
	// through normalization untouched.
	Opaque json.RawMessage
}

// NewFrame returns a frame with an empty slot mapping.
func NewFrame(domainName, intent string) SemanticFrame {
	return SemanticFrame{Domain: domainName, Intent: intent, Slots: NewSlots()}
}

// HasSlotMapping reports whether the frame's slots field was a mapping.
func (f SemanticFrame) HasSlotMapping() bool { return f.Opaque == nil }

// Equal reports structural equality: domain, intent and the full slot
// mapping must match. Opaque slot values compare by their JSON text.
func (f SemanticFrame) Equal(other SemanticFrame) bool {
	if f.Domain != other.Domain || f.Intent != other.Intent {
		return false
	}
	if f.HasSlotMapping() != other.HasSlotMapping() {
		return false
	}
	if !f.HasSlotMapping() {
		return bytes.Equal(f.Opaque, other.Opaque)
	}
	return f.Slots.Equal(other.Slots)
}

// MarshalJSON encodes the frame as {"domain", "intent", "slots"}.
func (f SemanticFrame) MarshalJSON() ([]byte, error) {
	var slots json.RawMessage
	if f.HasSlotMapping() {
		b, err := f.Slots.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal slots: %w", err)
		}
		slots = b
	} else {
		slots = f.Opaque
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Domain string          `json:"domain"`
		Intent string          `json:"intent"`
		Slots  json.RawMessage `json:"slots"`
	}{f.Domain, f.Intent, slots}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FramesEqual compares two frame lists as ordered sequences. Reordering
// the frames of a multi-intent utterance makes the lists unequal.
func FramesEqual(a, b []SemanticFrame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Sample is one line of a prediction or ground-truth file.
type Sample struct {
	// ID joins predictions to ground truth. It is never empty.
	ID string

	// Query is the utterance text. It is carried through but not scored.
	Query string

	// Semantics lists the utterance's frames in document order.
	Semantics []SemanticFrame
}

// AlignedPair is a prediction joined with the ground-truth sample that
// shares its ID.
type AlignedPair struct {
	Prediction  Sample
	GroundTruth Sample
}

// ParseSample decodes one JSONL record into a Sample.
//
// The record must be a JSON object with a non-empty "id". A missing
// "semantics" field, or one that is not an array, yields no frames.
// Array entries that are not objects are dropped. When a key repeats
// within an object, its last occurrence wins.
func ParseSample(line []byte) (Sample, error) {
	if !gjson.ValidBytes(line) {
		return Sample{}, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(line)
	if !doc.IsObject() {
		return Sample{}, fmt.Errorf("%w: record is not an object", ErrInvalidJSON)
	}

	var id, query, semantics gjson.Result
	doc.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "id":
			id = value
		case "query":
			query = value
		case "semantics":
			semantics = value
		}
		return true
	})

	if !id.Exists() || id.Type == gjson.Null {
		return Sample{}, ErrMissingID
	}
	sample := Sample{ID: Stringify(id), Query: Stringify(query)}
	if sample.ID == "" {
		return Sample{}, ErrMissingID
	}
	sample.Semantics = ParseFrames(semantics)
	return sample, nil
}

// ParseFrames decodes a JSON array of frame objects. Non-object entries
// are dropped; anything other than an array yields an empty list.
func ParseFrames(v gjson.Result) []SemanticFrame {
	frames := []SemanticFrame{}
	if !v.IsArray() {
		return frames
	}
	v.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			frames = append(frames, parseFrame(item))
		}
		return true
	})
	return frames
}

func parseFrame(obj gjson.Result) SemanticFrame {
	frame := SemanticFrame{Slots: NewSlots()}
	obj.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "domain":
			frame.Domain = Stringify(value)
		case "intent":
			frame.Intent = Stringify(value)
		case "slots":
			if value.IsObject() {
				frame.Slots = NewSlots()
				frame.Opaque = nil
				value.ForEach(func(k, v gjson.Result) bool {
					frame.Slots.Set(k.String(), Stringify(v))
					return true
				})
			} else {
				frame.Slots = nil
				frame.Opaque = json.RawMessage(value.Raw)
			}
		}
		return true
	})
	return frame
}

// Stringify renders a JSON value as text. Strings are returned without
// quotes, null becomes "", and every other value keeps its JSON form.
func Stringify(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}
