package pref

import (
	"strconv"
	"strings"
)

// Wire type tags carried by TypedValue.DataType.
const (
	TypeString = "string"
	TypeBool   = "bool"
	TypeInt    = "int"
	TypeDouble = "double"
)

// TypedValue is the transport encoding of a preference value for backends
// that store everything as strings: the value's string form plus a type tag.
//
// For the scalar kinds the encoding is lossless:
// Decode(Encode(v).Value, Encode(v).DataType) equals v. Non-scalar values
// (string sequences) degrade to their default string rendering tagged
// "string", a one-way encoding.
type TypedValue struct {
	DataType string `json:"data_type"`
	Value    string `json:"value"`
}

// Encode classifies a value by its runtime kind and returns its transport
// encoding.
func Encode(v Value) TypedValue {
	switch v.Kind() {
	case KindBool:
		return TypedValue{DataType: TypeBool, Value: v.Render()}
	case KindInt:
		return TypedValue{DataType: TypeInt, Value: v.Render()}
	case KindDouble:
		return TypedValue{DataType: TypeDouble, Value: v.Render()}
	default:
		return TypedValue{DataType: TypeString, Value: v.Render()}
	}
}

// Decode parses a transport string back into a Value according to its type
// tag. Decoding never fails: malformed numeric strings become 0 or 0.0,
// booleans are a case-insensitive comparison against "true", and unknown
// tags pass the string through unchanged.
func Decode(raw, dataType string) Value {
	switch dataType {
	case TypeBool:
		return Bool(strings.EqualFold(raw, "true"))
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Int(0)
		}
		return Int(n)
	case TypeDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Double(0)
		}
		return Double(f)
	default:
		return String(raw)
	}
}
