// Package model provides the persisted classifier adapters and the
// startup loader that pairs a classifier with its reference profile.
package model

import (
	"context"
	"math"

	"plaquerisk/domain/core"
	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// linearSpec is the persisted form of the logistic scorer.
type linearSpec struct {
	Version         string                        `json:"model_version"`
	Label           string                        `json:"label"`
	Intercept       float64                       `json:"intercept"`
	Weights         map[string]float64            `json:"weights"`
	CategoryWeights map[string]map[string]float64 `json:"category_weights"`
}

// LinearClassifier scores profiles with a logistic model over the clinical
// features. It emits a two-column probability frame with integer class
// labels {0, 1}, matching the labeling convention of the training backend
// it was exported from.
type LinearClassifier struct {
	spec        linearSpec
	fingerprint core.ModelFingerprint
}

// Version implements ports.Classifier.
func (c *LinearClassifier) Version() string { return c.spec.Version }

// Fingerprint identifies the exact persisted artifacts.
func (c *LinearClassifier) Fingerprint() core.ModelFingerprint { return c.fingerprint }

// PredictProba implements ports.Classifier.
func (c *LinearClassifier) PredictProba(ctx context.Context, query *dataset.Frame) (ports.ProbaFrame, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProbaFrame{}, err
	}

	values := make([][]float64, query.NumRows())
	for i, row := range query.Rows {
		p := c.score(query.Columns, row)
		values[i] = []float64{1 - p, p}
	}
	return ports.ProbaFrame{
		Labels: []ports.ClassLabel{ports.IntLabel(0), ports.IntLabel(1)},
		Values: values,
	}, nil
}

// score computes the logistic probability for one row. Missing readings
// contribute nothing, so a sparse profile degrades smoothly toward the
// intercept instead of failing.
func (c *LinearClassifier) score(columns []string, row []feature.Value) float64 {
	z := c.spec.Intercept
	for i, col := range columns {
		v := row[i]
		if v.IsMissing {
			continue
		}
		if w, ok := c.spec.Weights[col]; ok {
			if f, parsed := feature.ParseNumeric(v); parsed {
				z += w * f
			}
			continue
		}
		if classes, ok := c.spec.CategoryWeights[col]; ok {
			if w, found := classes[v.String()]; found {
				z += w
			}
		}
	}
	return 1 / (1 + math.Exp(-z))
}
