// Package testkit provides fake classifiers and synthetic cohort data for
// tests. Fakes are constructed explicitly and passed into services, so
// every test runs against an isolated model context.
package testkit

import (
	"context"
	"fmt"
	"sync/atomic"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// OutputShape selects the probability container shape a FakeClassifier
// emits. Exercising all shapes is the point: real trained backends disagree
// about how probability columns are labeled.
type OutputShape int

const (
	// ShapeVector emits an unlabeled 1-D probability vector.
	ShapeVector OutputShape = iota
	// ShapeLabeledInt emits two columns labeled with integers 0 and 1.
	ShapeLabeledInt
	// ShapeLabeledString emits two columns labeled "0" and "1".
	ShapeLabeledString
	// ShapeLabeledBool emits two columns labeled false and true.
	ShapeLabeledBool
	// ShapeLabeledIntReversed emits the positive column first, labeled 1.
	ShapeLabeledIntReversed
	// ShapeUnlabeledTwoColumns emits two columns with no labels at all.
	ShapeUnlabeledTwoColumns
	// ShapeSingleNegativeColumn emits one column labeled 0 only; no
	// positive-class output is resolvable from it.
	ShapeSingleNegativeColumn
)

// ScoreFunc computes the positive-class probability for one query row.
type ScoreFunc func(columns []string, row []feature.Value) float64

// FakeClassifier is a deterministic scripted classifier.
type FakeClassifier struct {
	Score ScoreFunc
	Shape OutputShape
	Err   error

	calls atomic.Int64
}

// NewFakeClassifier creates a fake emitting an unlabeled vector.
func NewFakeClassifier(score ScoreFunc) *FakeClassifier {
	return &FakeClassifier{Score: score}
}

// Calls reports how many PredictProba invocations were made. Safe to read
// concurrently with explainer perturbation queries.
func (f *FakeClassifier) Calls() int64 { return f.calls.Load() }

// Version implements ports.Classifier.
func (f *FakeClassifier) Version() string { return "fake-v1" }

// PredictProba implements ports.Classifier.
func (f *FakeClassifier) PredictProba(ctx context.Context, query *dataset.Frame) (ports.ProbaFrame, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return ports.ProbaFrame{}, f.Err
	}
	if err := ctx.Err(); err != nil {
		return ports.ProbaFrame{}, err
	}

	probs := make([]float64, query.NumRows())
	for i, row := range query.Rows {
		probs[i] = f.Score(query.Columns, row)
	}
	return f.shape(probs), nil
}

func (f *FakeClassifier) shape(probs []float64) ports.ProbaFrame {
	switch f.Shape {
	case ShapeLabeledInt:
		return twoColumn(probs, []ports.ClassLabel{ports.IntLabel(0), ports.IntLabel(1)}, false)
	case ShapeLabeledString:
		return twoColumn(probs, []ports.ClassLabel{ports.StringLabel("0"), ports.StringLabel("1")}, false)
	case ShapeLabeledBool:
		return twoColumn(probs, []ports.ClassLabel{ports.BoolLabel(false), ports.BoolLabel(true)}, false)
	case ShapeLabeledIntReversed:
		return twoColumn(probs, []ports.ClassLabel{ports.IntLabel(1), ports.IntLabel(0)}, true)
	case ShapeUnlabeledTwoColumns:
		return twoColumn(probs, nil, false)
	case ShapeSingleNegativeColumn:
		values := make([][]float64, len(probs))
		for i, p := range probs {
			values[i] = []float64{1 - p}
		}
		return ports.ProbaFrame{
			Labels: []ports.ClassLabel{ports.IntLabel(0)},
			Values: values,
		}
	default:
		return ports.NewProbaVector(probs)
	}
}

func twoColumn(probs []float64, labels []ports.ClassLabel, positiveFirst bool) ports.ProbaFrame {
	values := make([][]float64, len(probs))
	for i, p := range probs {
		if positiveFirst {
			values[i] = []float64{p, 1 - p}
		} else {
			values[i] = []float64{1 - p, p}
		}
	}
	return ports.ProbaFrame{Labels: labels, Values: values}
}

// ConstantScore returns a ScoreFunc that always emits p.
func ConstantScore(p float64) ScoreFunc {
	return func([]string, []feature.Value) float64 { return p }
}

// AdditiveScore returns a deterministic scorer that starts at base and adds
// a fixed bump per named feature when its value is non-missing and truthy
// (booleans) or simply present (everything else). Useful for asserting
// exact counterfactual deltas.
func AdditiveScore(base float64, bumps map[string]float64) ScoreFunc {
	return func(columns []string, row []feature.Value) float64 {
		p := base
		for i, col := range columns {
			bump, ok := bumps[col]
			if !ok || row[i].IsMissing {
				continue
			}
			if row[i].IsBoolean() && !row[i].AsBoolean() {
				continue
			}
			p += bump
		}
		return clamp01(p)
	}
}

// ValueKeyedScore scores a row by the exact value of one feature. Missing
// maps through the "" key.
func ValueKeyedScore(featureName string, byValue map[string]float64, fallback float64) ScoreFunc {
	return func(columns []string, row []feature.Value) float64 {
		for i, col := range columns {
			if col != featureName {
				continue
			}
			key := ""
			if !row[i].IsMissing {
				key = row[i].String()
			}
			if p, ok := byValue[key]; ok {
				return p
			}
		}
		return fallback
	}
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// StaticCohortSource serves a fixed frame through the CohortSource port.
type StaticCohortSource struct {
	Frame *dataset.Frame
	Err   error
}

// FetchCohort implements ports.CohortSource.
func (s *StaticCohortSource) FetchCohort(ctx context.Context) (*dataset.Frame, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Frame == nil {
		return nil, fmt.Errorf("no cohort configured")
	}
	return s.Frame, nil
}
