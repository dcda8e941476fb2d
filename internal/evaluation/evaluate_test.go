package evaluation

import (
	"context"
	"math"
	"testing"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/internal/testkit"
)

// hintScore reads the probability straight out of the risk_hint column, so
// each cohort row fully determines its own score.
func hintScore(columns []string, row []feature.Value) float64 {
	for i, col := range columns {
		if col == "risk_hint" {
			if f, ok := feature.ParseNumeric(row[i]); ok {
				return f
			}
		}
	}
	return 0
}

func labeledCohort(rows [][2]float64) *dataset.Frame {
	frame := dataset.NewFrame([]string{"risk_hint", "adverse_outcome"})
	for _, r := range rows {
		frame.AppendRow([]feature.Value{
			feature.NewNumericValue(r[0]),
			feature.NewIntegerValue(int64(r[1])),
		})
	}
	return frame
}

func TestEvaluate_PerfectSeparation(t *testing.T) {
	clf := testkit.NewFakeClassifier(hintScore)
	frame := labeledCohort([][2]float64{
		{0.9, 1}, {0.8, 1}, {0.2, 0}, {0.1, 0},
	})

	report, err := Evaluate(context.Background(), clf, frame, "adverse_outcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Samples != 4 || report.Positives != 2 {
		t.Errorf("expected 4 samples with 2 positives, got %d/%d", report.Samples, report.Positives)
	}
	if report.AUC != 1 {
		t.Errorf("expected AUC 1 for perfect separation, got %v", report.AUC)
	}
	if report.Accuracy != 1 || report.Precision != 1 || report.Recall != 1 || report.F1 != 1 {
		t.Errorf("expected perfect threshold metrics, got %+v", report)
	}
}

func TestEvaluate_MixedCohort(t *testing.T) {
	clf := testkit.NewFakeClassifier(hintScore)
	frame := labeledCohort([][2]float64{
		{0.8, 1}, {0.4, 1}, {0.6, 0}, {0.2, 0},
	})

	report, err := Evaluate(context.Background(), clf, frame, "adverse_outcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.AUC != 0.75 {
		t.Errorf("expected AUC 0.75, got %v", report.AUC)
	}
	if report.Accuracy != 0.5 {
		t.Errorf("expected accuracy 0.5, got %v", report.Accuracy)
	}
	if report.Precision != 0.5 || report.Recall != 0.5 || report.F1 != 0.5 {
		t.Errorf("expected precision/recall/f1 all 0.5, got %+v", report)
	}
	if report.MeanScore != 0.5 || report.MedianScore != 0.5 {
		t.Errorf("expected mean and median score 0.5, got %v/%v", report.MeanScore, report.MedianScore)
	}
	if report.ScoreStdDev != 0.2236 {
		t.Errorf("expected score stddev 0.2236, got %v", report.ScoreStdDev)
	}
}

func TestEvaluate_SingleClassHasNoAUC(t *testing.T) {
	clf := testkit.NewFakeClassifier(hintScore)
	frame := labeledCohort([][2]float64{
		{0.9, 1}, {0.8, 1},
	})

	report, err := Evaluate(context.Background(), clf, frame, "adverse_outcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(report.AUC) {
		t.Errorf("expected NaN AUC for single-class cohort, got %v", report.AUC)
	}
	if report.Accuracy != 1 {
		t.Errorf("threshold metrics still apply, got accuracy %v", report.Accuracy)
	}
}

func TestEvaluate_SkipsRowsWithoutLabel(t *testing.T) {
	clf := testkit.NewFakeClassifier(hintScore)
	frame := dataset.NewFrame([]string{"risk_hint", "adverse_outcome"})
	frame.AppendRow([]feature.Value{feature.NewNumericValue(0.9), feature.NewIntegerValue(1)})
	frame.AppendRow([]feature.Value{feature.NewNumericValue(0.4), feature.NewMissingValue()})
	frame.AppendRow([]feature.Value{feature.NewNumericValue(0.1), feature.NewIntegerValue(0)})

	report, err := Evaluate(context.Background(), clf, frame, "adverse_outcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Samples != 2 {
		t.Errorf("unlabeled rows must be skipped, got %d samples", report.Samples)
	}
}

func TestEvaluate_MissingLabelColumn(t *testing.T) {
	clf := testkit.NewFakeClassifier(hintScore)
	frame := dataset.NewFrame([]string{"risk_hint"})
	frame.AppendRow([]feature.Value{feature.NewNumericValue(0.9)})

	if _, err := Evaluate(context.Background(), clf, frame, "adverse_outcome"); err == nil {
		t.Fatal("expected error for missing label column")
	}
}
