package testkit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
)

// cohortSpec describes the marginal used to synthesize one clinical
// feature. Sampling goes through the inverse CDF so a plain seeded uniform
// stream drives every distribution deterministically.
type cohortSpec struct {
	normal  *distuv.Normal
	round   int
	boolean float64 // probability of true; negative when not boolean
	classes []string
}

// SyntheticCohort generates a deterministic synthetic clinical cohort of n
// rows for the given seed. Values are plausible for the adverse-outcome
// domain but carry no clinical meaning; a slice of rows is additionally
// blanked to exercise missing-data paths.
func SyntheticCohort(n int, seed int64) *dataset.Frame {
	rng := rand.New(rand.NewSource(seed))
	schema := feature.ClinicalSchema()

	specs := map[string]cohortSpec{
		feature.FeatureGender:         {boolean: -1, classes: []string{"male", "male", "female"}},
		feature.FeatureAge:            {normal: &distuv.Normal{Mu: 63, Sigma: 9}, round: 0, boolean: -1},
		feature.FeatureAnginaClass:    {boolean: -1, classes: []string{"1", "2", "2", "3", "4"}},
		feature.FeaturePostInfarction: {boolean: 0.3},
		feature.FeatureMultifocal:     {boolean: 0.25},
		feature.FeatureDiabetes:       {boolean: 0.2},
		feature.FeatureHypertension:   {boolean: 0.7},
		feature.FeatureCholesterol:    {normal: &distuv.Normal{Mu: 5.3, Sigma: 1.1}, round: 2, boolean: -1},
		feature.FeatureBMI:            {normal: &distuv.Normal{Mu: 27.8, Sigma: 4.2}, round: 1, boolean: -1},
		feature.FeatureLVEF:           {normal: &distuv.Normal{Mu: 52, Sigma: 8}, round: 1, boolean: -1},
		feature.FeatureSyntaxScore:    {normal: &distuv.Normal{Mu: 19, Sigma: 7}, round: 1, boolean: -1},
		feature.FeatureFFR:            {normal: &distuv.Normal{Mu: 0.84, Sigma: 0.06}, round: 2, boolean: -1},
	}

	frame := dataset.NewFrame(schema.Names())
	for i := 0; i < n; i++ {
		row := make([]feature.Value, 0, schema.Len())
		for _, field := range schema.Fields() {
			spec := specs[field.Name]
			if i%13 == 7 && field.Kind != feature.KindBoolean {
				// Sprinkle missing readings the way real charts have them.
				row = append(row, feature.NewMissingValue())
				continue
			}
			row = append(row, sample(rng, field, spec))
		}
		frame.AppendRow(row)
	}
	return frame
}

func sample(rng *rand.Rand, field feature.Field, spec cohortSpec) feature.Value {
	u := rng.Float64()
	switch {
	case spec.boolean >= 0:
		return feature.NewBooleanValue(u < spec.boolean)
	case len(spec.classes) > 0:
		class := spec.classes[int(u*float64(len(spec.classes)))%len(spec.classes)]
		if field.Kind == feature.KindInteger {
			return feature.CoerceRaw(field, class)
		}
		return feature.NewStringValue(class)
	case spec.normal != nil:
		v := spec.normal.Quantile(clampUnit(u))
		return feature.CoerceRaw(field, roundTo(v, spec.round))
	default:
		return feature.NewMissingValue()
	}
}

func roundTo(v float64, places int) float64 {
	pow := 1.0
	for i := 0; i < places; i++ {
		pow *= 10
	}
	return math.Round(v*pow) / pow
}

func clampUnit(u float64) float64 {
	const edge = 1e-6
	if u < edge {
		return edge
	}
	if u > 1-edge {
		return 1 - edge
	}
	return u
}
