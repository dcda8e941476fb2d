package risk

import "math"

// Tier is the discretized probability band used for downstream messaging.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// Tier thresholds are fixed constants, not configurable per request, so
// explanations stay comparable across patients.
const (
	HighTierThreshold     = 0.65
	ModerateTierThreshold = 0.35
)

// TierFor maps a probability to its risk tier.
func TierFor(probability float64) Tier {
	switch {
	case probability >= HighTierThreshold:
		return TierHigh
	case probability >= ModerateTierThreshold:
		return TierModerate
	default:
		return TierLow
	}
}

// Confidence derives a display confidence from how far the probability sits
// from the decision boundary.
func Confidence(probability float64) float64 {
	c := 0.67 + 0.22*math.Abs(probability-0.5)
	return math.Round(c*1000) / 1000
}

// Recommendations returns the fixed follow-up guidance lines for a tier.
func Recommendations(tier Tier) []string {
	switch tier {
	case TierHigh:
		return []string{
			"Discuss immediate cardiology follow-up within 2 weeks.",
			"Prioritize lipid and blood pressure optimization.",
			"Consider advanced imaging and invasive assessment if symptoms persist.",
		}
	case TierModerate:
		return []string{
			"Schedule structured outpatient follow-up.",
			"Optimize risk factors and repeat clinical evaluation in 6-8 weeks.",
			"Track symptom progression and functional status.",
		}
	default:
		return []string{
			"Continue standard risk-factor control.",
			"Maintain lifestyle and preventive pharmacotherapy.",
			"Reassess if symptom profile changes.",
		}
	}
}
