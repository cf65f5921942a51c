package requirement

import (
	"reflect"
)

// Kind discriminates the semantic value variants a resolved field can take.
type Kind int

// Value kinds, covering every shape a decoded requirement field can have.
const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	KindMapping
)

// Value is a semantic view over one decoded requirement field. It wraps the
// raw decoded value together with its kind so callers can branch on shape
// without type switches at every site. The zero Value is absent.
type Value struct {
	kind Kind
	raw  any
}

// Absent is the not-found value returned when path resolution fails.
var Absent = Value{kind: KindAbsent}

// ValueOf classifies a raw decoded JSON value. Decoded nulls classify as
// absent: a field explicitly set to null carries no usable value for
// matching, same as a missing field.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Absent
	case string:
		return Value{kind: KindString, raw: v}
	case bool:
		return Value{kind: KindBool, raw: v}
	case float64:
		return Value{kind: KindNumber, raw: v}
	case int:
		return Value{kind: KindNumber, raw: float64(v)}
	case []any:
		return Value{kind: KindSequence, raw: v}
	case map[string]any:
		return Value{kind: KindMapping, raw: v}
	default:
		// Unrecognized decode shapes degrade to absent rather than erroring.
		return Absent
	}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is the not-found value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Raw returns the underlying decoded value (nil when absent).
func (v Value) Raw() any { return v.raw }

// Str returns the string form and whether the value is a string.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Seq returns the sequence form and whether the value is a sequence.
func (v Value) Seq() ([]any, bool) {
	s, ok := v.raw.([]any)
	return s, ok
}

// Map returns the mapping form and whether the value is a mapping.
func (v Value) Map() (map[string]any, bool) {
	m, ok := v.raw.(map[string]any)
	return m, ok
}

// Equal reports structural equality between the value and a raw expected
// value, both in decoded-JSON representation.
func (v Value) Equal(expected any) bool {
	return reflect.DeepEqual(v.raw, expected)
}
