package feature

import (
	"fmt"
	"math"
)

// Value represents a typed feature value with deterministic coercion.
// A feature's semantic kind is fixed by the schema declaration; Value only
// carries the storage representation of one observation.
type Value struct {
	Type       ValueType `json:"type"`
	StringVal  *string   `json:"string_val,omitempty"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
	IntegerVal *int64    `json:"integer_val,omitempty"`
	BooleanVal *bool     `json:"boolean_val,omitempty"`
	IsMissing  bool      `json:"is_missing"`
}

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeInteger ValueType = "integer"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeMissing ValueType = "missing"
)

// NewStringValue creates a string value
func NewStringValue(s string) Value {
	if s == "" {
		return Value{Type: ValueTypeMissing, IsMissing: true}
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value. NaN and infinities are treated
// as missing so they can never leak into serialized output.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{Type: ValueTypeMissing, IsMissing: true}
	}
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewIntegerValue creates an integer value
func NewIntegerValue(i int64) Value {
	return Value{Type: ValueTypeInteger, IntegerVal: &i}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return fmt.Sprintf("%g", *v.NumericVal)
		}
	case ValueTypeInteger:
		if v.IntegerVal != nil {
			return fmt.Sprintf("%d", *v.IntegerVal)
		}
	case ValueTypeBoolean:
		if v.BooleanVal != nil {
			return fmt.Sprintf("%t", *v.BooleanVal)
		}
	case ValueTypeMissing:
		return "<missing>"
	}
	return "<invalid>"
}

// IsNumeric returns true if the value represents a valid number (real or integer)
func (v Value) IsNumeric() bool {
	return (v.Type == ValueTypeNumeric && v.NumericVal != nil) ||
		(v.Type == ValueTypeInteger && v.IntegerVal != nil)
}

// IsString returns true if the value represents a valid string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && v.StringVal != nil
}

// IsInteger returns true if the value represents a valid integer
func (v Value) IsInteger() bool {
	return v.Type == ValueTypeInteger && v.IntegerVal != nil
}

// IsBoolean returns true if the value represents a valid boolean
func (v Value) IsBoolean() bool {
	return v.Type == ValueTypeBoolean && v.BooleanVal != nil
}

// AsFloat64 returns the numeric value as float64, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	if v.IntegerVal != nil {
		return float64(*v.IntegerVal)
	}
	return 0.0
}

// AsInt64 returns the integer value, or 0 if not an integer
func (v Value) AsInt64() int64 {
	if v.IntegerVal != nil {
		return *v.IntegerVal
	}
	return 0
}

// AsString returns the string value, or empty string if not a string
func (v Value) AsString() string {
	if v.StringVal != nil {
		return *v.StringVal
	}
	return ""
}

// AsBoolean returns the boolean value, or false if not a boolean
func (v Value) AsBoolean() bool {
	if v.BooleanVal != nil {
		return *v.BooleanVal
	}
	return false
}

// Equals reports whether two values carry the same type and payload.
func (v Value) Equals(other Value) bool {
	if v.IsMissing || other.IsMissing {
		return v.IsMissing && other.IsMissing
	}
	if v.Type != other.Type {
		// Integer/numeric cross-compare: 60 and 60.0 are the same reading.
		if v.IsNumeric() && other.IsNumeric() {
			return v.AsFloat64() == other.AsFloat64()
		}
		return false
	}
	switch v.Type {
	case ValueTypeString:
		return v.AsString() == other.AsString()
	case ValueTypeNumeric:
		return v.AsFloat64() == other.AsFloat64()
	case ValueTypeInteger:
		return v.AsInt64() == other.AsInt64()
	case ValueTypeBoolean:
		return v.AsBoolean() == other.AsBoolean()
	}
	return false
}
