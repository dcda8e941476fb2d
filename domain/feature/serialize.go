package feature

import (
	"math"
)

// SerializedValue is the JSON-safe form of a feature value: nil, bool,
// int64, float64 (3 decimal places), or string.
type SerializedValue = interface{}

// Serialize normalizes a value into its stable JSON-safe representation.
// It is total: unrecognized payloads degrade to a string form instead of
// failing, so the explanation path always produces output.
//
// Real numbers are rounded (not truncated) to 3 decimal places to keep
// explanation payloads compact and reproducible across runs.
func Serialize(v Value) SerializedValue {
	if v.IsMissing {
		return nil
	}
	switch v.Type {
	case ValueTypeBoolean:
		if v.BooleanVal != nil {
			return *v.BooleanVal
		}
	case ValueTypeInteger:
		if v.IntegerVal != nil {
			return *v.IntegerVal
		}
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			n := *v.NumericVal
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return nil
			}
			pow := math.Pow(10, 3)
			return math.Round(n*pow) / pow
		}
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	}
	// Malformed payload for the declared type: fall back to string form.
	return v.String()
}
