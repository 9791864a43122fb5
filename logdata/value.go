// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logdata

import (
	"strconv"
	"strings"
)

// ValueType identifies which variant of a Value is populated
type ValueType int

const (
	ValueTypeEmpty ValueType = iota
	ValueTypeStr
	ValueTypeBool
	ValueTypeInt
	ValueTypeDouble
	ValueTypeArray
	ValueTypeMap
)

// String returns the OTLP/JSON name of the variant
func (t ValueType) String() string {
	switch t {
	case ValueTypeStr:
		return "stringValue"
	case ValueTypeBool:
		return "boolValue"
	case ValueTypeInt:
		return "intValue"
	case ValueTypeDouble:
		return "doubleValue"
	case ValueTypeArray:
		return "arrayValue"
	case ValueTypeMap:
		return "kvlistValue"
	default:
		return "empty"
	}
}

// Value is a typed attribute value. Exactly one variant is populated;
// arrays and maps may nest further values.
type Value struct {
	typ ValueType
	str string
	num int64
	dbl float64
	b   bool
	arr []Value
	kvs []KeyValue
}

// KeyValue is a single attribute. Keys are not required to be unique.
type KeyValue struct {
	Key   string
	Value Value
}

// StringValue returns a string Value
func StringValue(v string) Value { return Value{typ: ValueTypeStr, str: v} }

// BoolValue returns a bool Value
func BoolValue(v bool) Value { return Value{typ: ValueTypeBool, b: v} }

// IntValue returns an int64 Value
func IntValue(v int64) Value { return Value{typ: ValueTypeInt, num: v} }

// DoubleValue returns a float64 Value
func DoubleValue(v float64) Value { return Value{typ: ValueTypeDouble, dbl: v} }

// ArrayValue returns an ordered array Value
func ArrayValue(vs ...Value) Value { return Value{typ: ValueTypeArray, arr: vs} }

// MapValue returns an ordered key/value list Value
func MapValue(kvs ...KeyValue) Value { return Value{typ: ValueTypeMap, kvs: kvs} }

// String returns a string attribute
func String(key, v string) KeyValue { return KeyValue{Key: key, Value: StringValue(v)} }

// Bool returns a bool attribute
func Bool(key string, v bool) KeyValue { return KeyValue{Key: key, Value: BoolValue(v)} }

// Int returns an int64 attribute
func Int(key string, v int64) KeyValue { return KeyValue{Key: key, Value: IntValue(v)} }

// Double returns a float64 attribute
func Double(key string, v float64) KeyValue { return KeyValue{Key: key, Value: DoubleValue(v)} }

// Array returns an array attribute
func Array(key string, vs ...Value) KeyValue { return KeyValue{Key: key, Value: ArrayValue(vs...)} }

// Map returns a key/value list attribute
func Map(key string, kvs ...KeyValue) KeyValue { return KeyValue{Key: key, Value: MapValue(kvs...)} }

// Type returns the populated variant
func (v Value) Type() ValueType { return v.typ }

// Str returns the string variant, or "" for other types
func (v Value) Str() string { return v.str }

// Bool returns the bool variant, or false for other types
func (v Value) Bool() bool { return v.b }

// Int returns the int64 variant, or 0 for other types
func (v Value) Int() int64 { return v.num }

// Double returns the float64 variant, or 0 for other types
func (v Value) Double() float64 { return v.dbl }

// Array returns the array elements, or nil for other types
func (v Value) Array() []Value { return v.arr }

// Map returns the key/value list, or nil for other types
func (v Value) Map() []KeyValue { return v.kvs }

// Equal reports whether both values hold the same variant with equal content
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case ValueTypeStr:
		return v.str == o.str
	case ValueTypeBool:
		return v.b == o.b
	case ValueTypeInt:
		return v.num == o.num
	case ValueTypeDouble:
		return v.dbl == o.dbl
	case ValueTypeArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case ValueTypeMap:
		return equalKeyValues(v.kvs, o.kvs)
	default:
		return true
	}
}

func equalKeyValues(a, b []KeyValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}

// AsString renders the value as text. Arrays and maps use a compact
// JSON-like form and are meant for diagnostics only.
func (v Value) AsString() string {
	switch v.typ {
	case ValueTypeStr:
		return v.str
	case ValueTypeBool:
		return strconv.FormatBool(v.b)
	case ValueTypeInt:
		return strconv.FormatInt(v.num, 10)
	case ValueTypeDouble:
		return strconv.FormatFloat(v.dbl, 'g', -1, 64)
	case ValueTypeArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.AsString()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case ValueTypeMap:
		parts := make([]string, len(v.kvs))
		for i, kv := range v.kvs {
			parts[i] = kv.Key + ":" + kv.Value.AsString()
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}
