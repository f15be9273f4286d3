package domain

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Slots is an insertion-ordered mapping from slot name to slot value.
// Re-setting an existing name updates the value in place and keeps the
// name's original position, matching how a JSON object with a repeated
// key is read left to right.
//
// The zero value is not usable; create instances with NewSlots. A nil
// *Slots behaves as an empty mapping for all read operations.
type Slots struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewSlots returns an empty Slots mapping.
func NewSlots() *Slots {
	return &Slots{m: orderedmap.New[string, string]()}
}

// SlotsOf builds a Slots mapping from alternating name/value arguments.
// It panics if an odd number of arguments is given.
func SlotsOf(kv ...string) *Slots {
	if len(kv)%2 != 0 {
		panic("domain: SlotsOf requires name/value pairs")
	}
	s := NewSlots()
	for i := 0; i < len(kv); i += 2 {
		s.Set(kv[i], kv[i+1])
	}
	return s
}

// Set assigns value to name. A repeated name overwrites the earlier value.
func (s *Slots) Set(name, value string) { s.m.Set(name, value) }

// Get returns the value stored under name.
func (s *Slots) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	return s.m.Get(name)
}

// Len returns the number of distinct slot names.
func (s *Slots) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Range calls fn for every slot in insertion order until fn returns false.
func (s *Slots) Range(fn func(name, value string) bool) {
	if s == nil {
		return
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Equal reports whether s and other hold the same name/value pairs.
// Insertion order is not part of mapping equality.
func (s *Slots) Equal(other *Slots) bool {
	if s.Len() != other.Len() {
		return false
	}
	equal := true
	s.Range(func(name, value string) bool {
		v, ok := other.Get(name)
		if !ok || v != value {
			equal = false
		}
		return equal
	})
	return equal
}

// MarshalJSON encodes the slots as a JSON object in insertion order.
// Non-ASCII and HTML characters are written literally.
func (s *Slots) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	first := true
	var err error
	s.Range(func(name, value string) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = enc.Encode(name); err != nil {
			return false
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err = enc.Encode(value); err != nil {
			return false
		}
		trimNewline(&buf)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline drops the terminator json.Encoder appends to each value.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}
