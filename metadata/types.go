// Package metadata provides the typed metadata documents attached to stored
// research snippets.
//
// Values are restricted to a closed set of scalar kinds (string, number,
// bool) so the persisted store format stays unambiguous and round-trippable.
package metadata

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid (zero) value.
	KindInvalid Kind = iota
	// KindString represents a string value.
	KindString
	// KindNumber represents a numeric value.
	KindNumber
	// KindBool represents a boolean value.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Value is a small typed scalar used for metadata documents.
//
// It marshals to a plain JSON scalar so persisted stores remain readable by
// external tools. Decoding rejects anything that is not a string, number or
// boolean.
type Value struct {
	kind Kind
	s    string
	f64  float64
	b    bool
}

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Number returns a numeric Value.
func Number(v float64) Value { return Value{kind: KindNumber, f64: v} }

// Int returns a numeric Value from an integer.
func Int(v int64) Value { return Value{kind: KindNumber, f64: float64(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the concrete kind of the value.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsNumber returns the numeric value if Kind is KindNumber.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.f64, true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindNumber:
		return json.Marshal(v.f64)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return nil, fmt.Errorf("metadata: cannot marshal %s value", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	default:
		return fmt.Errorf("metadata: unsupported value %s (only string, number and bool are permitted)", strconv.Quote(string(data)))
	}
	return nil
}

// Metadata is a metadata document keyed by string.
type Metadata map[string]Value

// Clone creates a copy of the metadata document.
//
// This is the safe default to prevent external mutation after an insert.
// Values are scalars, so a shallow copy of the map is a full copy.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	clone := make(Metadata, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// CloneIfNeeded clones metadata only if it is non-nil and non-empty.
func CloneIfNeeded(m Metadata) Metadata {
	if len(m) == 0 {
		return nil
	}
	return m.Clone()
}
