package risk

import (
	"plaquerisk/domain/feature"
)

// MethodCounterfactual tags explanations produced by the single-feature
// counterfactual delta method.
const MethodCounterfactual = "counterfactual_single_feature_delta"

// Direction classifies a feature's counterfactual effect on the predicted
// probability.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionNeutral  Direction = "neutral"
)

// FeatureEffect is the result of one counterfactual swap: the probability
// shift caused by resetting a single feature to its baseline value while
// holding all others fixed.
type FeatureEffect struct {
	Feature        string                  `json:"feature"`
	Effect         float64                 `json:"effect"`
	Direction      Direction               `json:"direction"`
	PatientValue   feature.SerializedValue `json:"patient_value"`
	ReferenceValue feature.SerializedValue `json:"reference_value"`
}

// Explanation packages the ranked feature effects for one prediction.
// Immutable once produced; recomputed per request, never persisted.
type Explanation struct {
	Method              string          `json:"method"`
	BaselineProbability float64         `json:"baseline_probability"`
	FeatureEffects      []FeatureEffect `json:"feature_effects"`
}

// Prediction is the classifier's output for one patient profile.
type Prediction struct {
	Probability float64 `json:"probability"`
	Outcome     int     `json:"binary_prediction"`
}

// OutcomeFor applies the binary decision threshold, inclusive on the
// positive side: exactly 0.5 predicts the adverse outcome.
func OutcomeFor(probability float64) int {
	if probability >= 0.5 {
		return 1
	}
	return 0
}

// DirectionFor classifies an effect delta against epsilon. The epsilon
// guards floating-point noise around zero.
func DirectionFor(effect, epsilon float64) Direction {
	switch {
	case effect > epsilon:
		return DirectionIncrease
	case effect < -epsilon:
		return DirectionDecrease
	default:
		return DirectionNeutral
	}
}
