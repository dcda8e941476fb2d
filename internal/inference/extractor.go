// Package inference holds the probability-extraction and counterfactual
// explanation engine. It only reads the loaded classifier and reference
// profile; all shared state is immutable after load, so everything here is
// safe for concurrent requests.
package inference

import (
	"context"
	"fmt"

	"plaquerisk/domain/core"
	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// positiveLabelPriority is the ordered list of acceptable positive-class
// label forms. Different trained backends label probability columns with
// the integer class, its string spelling, or a boolean; the extractor
// reconciles that without depending on any backend's class-ordering
// guarantee.
func positiveColumn(frame ports.ProbaFrame) (int, error) {
	cols := frame.NumColumns()
	if cols == 0 {
		return 0, core.ErrNoPositiveColumn
	}

	if len(frame.Labels) == 0 {
		// Unlabeled output: a single column is the positive-class vector,
		// anything wider defaults to the second column positionally.
		if cols == 1 {
			return 0, nil
		}
		return 1, nil
	}

	for _, match := range []func(ports.ClassLabel) bool{
		func(l ports.ClassLabel) bool { return l.MatchesInt(1) },
		func(l ports.ClassLabel) bool { return l.MatchesString("1") },
		func(l ports.ClassLabel) bool { return l.MatchesBool(true) },
	} {
		for idx, label := range frame.Labels {
			if match(label) {
				return idx, nil
			}
		}
	}

	if cols < 2 {
		return 0, core.ErrNoPositiveColumn
	}
	return 1, nil
}

// PositiveClassProbabilities extracts the positive-class column from a
// classifier's output frame.
func PositiveClassProbabilities(frame ports.ProbaFrame) ([]float64, error) {
	idx, err := positiveColumn(frame)
	if err != nil {
		return nil, err
	}
	return frame.Column(idx), nil
}

// PositiveClassProbability queries the classifier with a single profile and
// returns the positive-class probability. The query row is laid out in the
// schema's column order.
func PositiveClassProbability(ctx context.Context, clf ports.Classifier, profile feature.Profile) (float64, error) {
	query := dataset.FromProfiles(profile.Schema(), profile)
	out, err := clf.PredictProba(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInference, err)
	}
	if out.NumRows() != 1 {
		return 0, fmt.Errorf("%w: expected 1, got %d", core.ErrRowCountMismatch, out.NumRows())
	}
	probs, err := PositiveClassProbabilities(out)
	if err != nil {
		return 0, err
	}
	return probs[0], nil
}
