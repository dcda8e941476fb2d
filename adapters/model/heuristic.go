package model

import (
	"context"
	"math"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// HeuristicVersion identifies the built-in additive scorer.
const HeuristicVersion = "heuristic-v0.1"

// HeuristicClassifier is the deterministic additive risk scorer used when
// no trained model has been deployed yet. Its coefficients encode simple
// clinical priors (older age, higher SYNTAX score, lower FFR, higher
// cholesterol and lower LVEF all push risk up). It emits an unlabeled 1-D
// probability vector.
type HeuristicClassifier struct{}

// NewHeuristicClassifier creates the heuristic scorer.
func NewHeuristicClassifier() *HeuristicClassifier { return &HeuristicClassifier{} }

// Version implements ports.Classifier.
func (h *HeuristicClassifier) Version() string { return HeuristicVersion }

// PredictProba implements ports.Classifier.
func (h *HeuristicClassifier) PredictProba(ctx context.Context, query *dataset.Frame) (ports.ProbaFrame, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProbaFrame{}, err
	}

	probs := make([]float64, query.NumRows())
	for i, row := range query.Rows {
		probs[i] = h.score(query.Columns, row)
	}
	return ports.NewProbaVector(probs), nil
}

func (h *HeuristicClassifier) score(columns []string, row []feature.Value) float64 {
	get := func(name string) (feature.Value, bool) {
		for i, col := range columns {
			if col == name && !row[i].IsMissing {
				return row[i], true
			}
		}
		return feature.Value{}, false
	}

	risk := 0.11
	if v, ok := get(feature.FeatureAge); ok {
		if age, parsed := feature.ParseNumeric(v); parsed {
			risk += 0.002 * (age - 50)
		}
	}
	if v, ok := get(feature.FeatureSyntaxScore); ok {
		if syntax, parsed := feature.ParseNumeric(v); parsed {
			risk += 0.009 * math.Max(syntax-10, 0)
		}
	}
	if v, ok := get(feature.FeatureFFR); ok {
		if ffr, parsed := feature.ParseNumeric(v); parsed {
			risk += 0.38 * math.Max(0.85-ffr, 0)
		}
	}
	if v, ok := get(feature.FeatureCholesterol); ok {
		if chol, parsed := feature.ParseNumeric(v); parsed {
			risk += 0.006 * math.Max(chol-5.0, 0)
		}
	}
	if v, ok := get(feature.FeatureLVEF); ok {
		if lvef, parsed := feature.ParseNumeric(v); parsed {
			risk += 0.003 * math.Max(55-lvef, 0)
		}
	}
	if v, ok := get(feature.FeatureDiabetes); ok {
		if b, parsed := feature.ParseBoolean(v); parsed && b {
			risk += 0.11
		}
	}
	if v, ok := get(feature.FeatureHypertension); ok {
		if b, parsed := feature.ParseBoolean(v); parsed && b {
			risk += 0.07
		}
	}
	if v, ok := get(feature.FeatureGender); ok && v.AsString() == "male" {
		risk += 0.03
	}
	if v, ok := get(feature.FeatureAnginaClass); ok {
		if class, parsed := feature.ParseNumeric(v); parsed && class >= 3 {
			risk += 0.08
		}
	}

	return math.Min(math.Max(risk, 0.02), 0.96)
}
