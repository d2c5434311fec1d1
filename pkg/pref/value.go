// Package pref provides a tri-modal key/value preference store: preferences
// are declared once with a storage type (local, remote, or volatile), cached
// entirely in memory for reads, and written through to the backing store that
// matches their declaration.
//
// The in-memory [Cache] is the single source of truth for reads. Remote-typed
// preferences are populated by a [Loader], which fetches the current
// identity's preference set from a [RemoteBackend] on a fixed-interval retry
// schedule and settles exactly once per load session.
package pref

import (
	"fmt"
	"strconv"
)

// Kind identifies the scalar kind held by a Value.
type Kind int

const (
	// KindString is a plain string value.
	KindString Kind = iota

	// KindBool is a boolean value.
	KindBool

	// KindInt is a signed integer value.
	KindInt

	// KindDouble is a floating-point value.
	KindDouble

	// KindStrings is an ordered sequence of strings. It is the only
	// non-scalar kind and round-trips through the codec lossily.
	KindStrings
)

// String returns the wire name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindStrings:
		return "strings"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union over the supported preference kinds. A Value is
// immutable once constructed; the zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
	f    float64
	list []string
}

// String constructs a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int constructs an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double constructs a floating-point Value.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// Strings constructs a string-sequence Value. The slice is copied.
func Strings(ss []string) Value {
	cp := make([]string, len(ss))
	copy(cp, ss)
	return Value{kind: KindStrings, list: cp}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

// StringOr returns the string held by the value, or def when the value holds
// a different kind. Mismatched reads coerce to the default rather than fail.
func (v Value) StringOr(def string) string {
	if v.kind != KindString {
		return def
	}
	return v.str
}

// BoolOr returns the bool held by the value, or def on kind mismatch.
func (v Value) BoolOr(def bool) bool {
	if v.kind != KindBool {
		return def
	}
	return v.b
}

// IntOr returns the integer held by the value, or def on kind mismatch.
func (v Value) IntOr(def int64) int64 {
	if v.kind != KindInt {
		return def
	}
	return v.i
}

// DoubleOr returns the float held by the value, or def on kind mismatch.
func (v Value) DoubleOr(def float64) float64 {
	if v.kind != KindDouble {
		return def
	}
	return v.f
}

// StringsOr returns a copy of the string sequence held by the value, or def
// on kind mismatch.
func (v Value) StringsOr(def []string) []string {
	if v.kind != KindStrings {
		return def
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp
}

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindDouble:
		return v.f == o.f
	case KindStrings:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Render returns the default string rendering of the value. This is the form
// the codec uses for the "string" wire tag.
func (v Value) Render() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindStrings:
		return fmt.Sprintf("%v", v.list)
	default:
		return ""
	}
}
