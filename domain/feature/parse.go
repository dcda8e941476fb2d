package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseBoolean applies the permissive boolean parser: numeric non-zero is
// true, the usual true/false string spellings are accepted
// case-insensitively, and anything else is unparsable.
func ParseBoolean(v Value) (bool, bool) {
	switch {
	case v.IsMissing:
		return false, false
	case v.IsBoolean():
		return v.AsBoolean(), true
	case v.IsNumeric():
		return v.AsFloat64() != 0, true
	case v.IsString():
		switch strings.ToLower(strings.TrimSpace(v.AsString())) {
		case "true", "1", "yes", "y":
			return true, true
		case "false", "0", "no", "n":
			return false, true
		}
	}
	return false, false
}

// ParseNumeric extracts a float from a value, parsing string payloads when
// needed.
func ParseNumeric(v Value) (float64, bool) {
	switch {
	case v.IsMissing:
		return 0, false
	case v.IsNumeric():
		return v.AsFloat64(), true
	case v.IsBoolean():
		if v.AsBoolean() {
			return 1, true
		}
		return 0, true
	case v.IsString():
		f, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

// CoerceRaw converts an untyped scalar (typically a decoded JSON or CSV
// cell) into a Value for the declared field kind. Coercion never fails:
// values that cannot be interpreted for the declared kind degrade to their
// string form, and empty or nil inputs become missing.
func CoerceRaw(field Field, raw interface{}) Value {
	if raw == nil {
		return NewMissingValue()
	}

	switch r := raw.(type) {
	case Value:
		return r
	case string:
		return coerceString(field, r)
	case bool:
		if field.Kind == KindBoolean {
			return NewBooleanValue(r)
		}
		if field.IsNumeric() {
			if r {
				return NewIntegerValue(1)
			}
			return NewIntegerValue(0)
		}
		return NewStringValue(strconv.FormatBool(r))
	case float64:
		return coerceFloat(field, r)
	case float32:
		return coerceFloat(field, float64(r))
	case int:
		return coerceFloat(field, float64(r))
	case int64:
		return coerceFloat(field, float64(r))
	default:
		// Unknown container type: keep the original value's string form.
		return NewStringValue(strings.TrimSpace(fmt.Sprintf("%v", raw)))
	}
}

func coerceString(field Field, s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") || strings.EqualFold(trimmed, "na") {
		return NewMissingValue()
	}

	switch field.Kind {
	case KindBoolean:
		if b, ok := ParseBoolean(NewStringValue(trimmed)); ok {
			return NewBooleanValue(b)
		}
	case KindInteger:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return NewIntegerValue(int64(math.Round(f)))
		}
	case KindNumeric, KindRatio:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return NewNumericValue(f)
		}
	}
	return NewStringValue(trimmed)
}

func coerceFloat(field Field, f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NewMissingValue()
	}
	switch field.Kind {
	case KindBoolean:
		return NewBooleanValue(f != 0)
	case KindInteger:
		return NewIntegerValue(int64(math.Round(f)))
	case KindNumeric, KindRatio:
		return NewNumericValue(f)
	default:
		// Categorical features fed a number keep its compact string form.
		return NewStringValue(strconv.FormatFloat(f, 'g', -1, 64))
	}
}
