package domain

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// IntentSlotName is the slot item name that carries a frame's intent
// rather than a slot.
const IntentSlotName = "intent"

// RawAnnotation is the nested dataset annotation of one utterance, of the
// form {"<intent-key>": {"<domain>": [{"name": ..., "value": ...}, ...]}}.
// It is either a WellFormedAnnotation or a MalformedAnnotation.
type RawAnnotation interface {
	isRawAnnotation()
}

// WellFormedAnnotation is an annotation whose nesting matched the expected
// shape. Groups and entries keep their document order.
type WellFormedAnnotation struct {
	Groups []IntentGroup
}

// IntentGroup is the set of domain entries under one intent key such as
// "意图1" or "intent-1".
type IntentGroup struct {
	Key     string
	Domains []DomainEntry
}

// DomainEntry holds the slot items annotated for one domain.
type DomainEntry struct {
	Domain string
	Items  []SlotItem
}

// SlotItem is one {name, value} pair. Value is optional: annotators
// sometimes omit it.
type SlotItem struct {
	Name  string
	Value OptionalString
}

// IsIntent reports whether the item carries the frame intent.
func (s SlotItem) IsIntent() bool { return s.Name == IntentSlotName }

// OptionalString is a string that may be absent.
type OptionalString struct {
	Value string
	Valid bool
}

// Some returns a present OptionalString.
func Some(v string) OptionalString { return OptionalString{Value: v, Valid: true} }

// Or returns the value when present and def otherwise.
func (o OptionalString) Or(def string) string {
	if o.Valid {
		return o.Value
	}
	return def
}

// MalformedAnnotation records why an annotation could not be read.
type MalformedAnnotation struct {
	Reason string
}

// Error lets a MalformedAnnotation be reported as a skip cause.
func (m MalformedAnnotation) Error() string {
	return fmt.Sprintf("%v: %s", ErrMalformedAnnotation, m.Reason)
}

// Unwrap returns ErrMalformedAnnotation.
func (m MalformedAnnotation) Unwrap() error { return ErrMalformedAnnotation }

func (WellFormedAnnotation) isRawAnnotation() {}
func (MalformedAnnotation) isRawAnnotation()  {}

// ParseAnnotation reads a nested annotation value. A missing value is an
// empty well-formed annotation.
func ParseAnnotation(v gjson.Result) RawAnnotation {
	if !v.Exists() {
		return WellFormedAnnotation{}
	}
	if !v.IsObject() {
		return MalformedAnnotation{Reason: "annotation is not an object"}
	}

	var ann WellFormedAnnotation
	for _, g := range lastWins(v) {
		if !g.value.IsObject() {
			return MalformedAnnotation{Reason: fmt.Sprintf("intent %q is not an object", g.key)}
		}
		group := IntentGroup{Key: g.key}
		for _, d := range lastWins(g.value) {
			entry, err := parseDomainEntry(d.key, d.value)
			if err != nil {
				return MalformedAnnotation{Reason: fmt.Sprintf("intent %q: %v", group.Key, err)}
			}
			group.Domains = append(group.Domains, entry)
		}
		ann.Groups = append(ann.Groups, group)
	}
	return ann
}

type member struct {
	key   string
	value gjson.Result
}

// lastWins lists an object's members in first-seen key order. A repeated
// key keeps its first position and takes its last value.
func lastWins(obj gjson.Result) []member {
	var (
		out []member
		pos = make(map[string]int)
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if i, ok := pos[key]; ok {
			out[i].value = v
			return true
		}
		pos[key] = len(out)
		out = append(out, member{key: key, value: v})
		return true
	})
	return out
}

func parseDomainEntry(name string, items gjson.Result) (DomainEntry, error) {
	if !items.IsArray() {
		return DomainEntry{}, fmt.Errorf("domain %q items are not a list", name)
	}
	entry := DomainEntry{Domain: name}
	var err error
	items.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			err = fmt.Errorf("domain %q has a non-object item", name)
			return false
		}
		var (
			slot    SlotItem
			hasName bool
		)
		item.ForEach(func(k, v gjson.Result) bool {
			switch k.String() {
			case "name":
				slot.Name, hasName = Stringify(v), true
			case "value":
				slot.Value = Some(Stringify(v))
			}
			return true
		})
		if !hasName {
			err = fmt.Errorf("domain %q has an item without a name", name)
			return false
		}
		entry.Items = append(entry.Items, slot)
		return true
	})
	return entry, err
}
