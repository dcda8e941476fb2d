package core

import "math"

// RoundTo rounds v to the given number of decimal places (half away from
// zero, not truncation).
func RoundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// Round2 rounds to 2 decimal places (high-precision ratio features).
func Round2(v float64) float64 { return RoundTo(v, 2) }

// Round3 rounds to 3 decimal places (probabilities, serialized reals).
func Round3(v float64) float64 { return RoundTo(v, 3) }

// Round4 rounds to 4 decimal places (counterfactual effect deltas).
func Round4(v float64) float64 { return RoundTo(v, 4) }
