package ports

import (
	"context"

	"plaquerisk/domain/dataset"
)

// Classifier is the opaque, externally trained binary model. Given N
// profiles it returns N positive-class probabilities, or an indexable
// container from which the positive-class column can be located. The core
// never creates or mutates a classifier; it only queries it.
type Classifier interface {
	// PredictProba scores a query frame restricted to the schema's columns
	// and returns per-row class probabilities.
	PredictProba(ctx context.Context, query *dataset.Frame) (ProbaFrame, error)

	// Version identifies the loaded model artifacts.
	Version() string
}

// ClassLabel is one column label of a probability frame. Different trained
// backends label their probability columns inconsistently (integer class,
// string class, or boolean), so the label keeps the original form.
type ClassLabel struct {
	IntVal  *int64
	StrVal  *string
	BoolVal *bool
}

// IntLabel creates an integer class label.
func IntLabel(i int64) ClassLabel { return ClassLabel{IntVal: &i} }

// StringLabel creates a string class label.
func StringLabel(s string) ClassLabel { return ClassLabel{StrVal: &s} }

// BoolLabel creates a boolean class label.
func BoolLabel(b bool) ClassLabel { return ClassLabel{BoolVal: &b} }

// MatchesInt reports whether the label is the integer i.
func (l ClassLabel) MatchesInt(i int64) bool { return l.IntVal != nil && *l.IntVal == i }

// MatchesString reports whether the label is the string s.
func (l ClassLabel) MatchesString(s string) bool { return l.StrVal != nil && *l.StrVal == s }

// MatchesBool reports whether the label is the boolean b.
func (l ClassLabel) MatchesBool(b bool) bool { return l.BoolVal != nil && *l.BoolVal == b }

// ProbaFrame is a classifier's probability output: either a single
// unlabeled column interpreted directly as positive-class probabilities, or
// a multi-column frame whose columns carry class labels.
type ProbaFrame struct {
	// Labels holds one label per column, or nil for unlabeled output.
	Labels []ClassLabel
	// Values is row-major: Values[row][column].
	Values [][]float64
}

// NewProbaVector wraps a 1-D probability vector as a single-column frame.
func NewProbaVector(probs []float64) ProbaFrame {
	values := make([][]float64, len(probs))
	for i, p := range probs {
		values[i] = []float64{p}
	}
	return ProbaFrame{Values: values}
}

// NumRows returns the row count.
func (p ProbaFrame) NumRows() int { return len(p.Values) }

// NumColumns returns the column count of the first row, or 0 when empty.
func (p ProbaFrame) NumColumns() int {
	if len(p.Values) == 0 {
		return 0
	}
	return len(p.Values[0])
}

// Column extracts one column across all rows.
func (p ProbaFrame) Column(idx int) []float64 {
	out := make([]float64, len(p.Values))
	for i, row := range p.Values {
		out[i] = row[idx]
	}
	return out
}
