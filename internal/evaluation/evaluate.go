// Package evaluation scores a classifier against a labeled historical
// cohort. It reports discrimination (ROC AUC) and threshold metrics at the
// standard 0.5 outcome cutoff, plus a summary of the score distribution.
package evaluation

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/integrate"
	gstat "gonum.org/v1/gonum/stat"

	"plaquerisk/domain/core"
	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/internal/inference"
	"plaquerisk/ports"
)

// Report summarizes classifier performance on one labeled cohort.
type Report struct {
	ModelVersion string  `json:"model_version"`
	Samples      int     `json:"samples"`
	Positives    int     `json:"positives"`
	AUC          float64 `json:"auc"`
	Accuracy     float64 `json:"accuracy"`
	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	F1           float64 `json:"f1"`
	MeanScore    float64 `json:"mean_score"`
	MedianScore  float64 `json:"median_score"`
	ScoreStdDev  float64 `json:"score_std_dev"`
}

// Evaluate runs the classifier over every labeled cohort row and computes
// the report. Rows whose label cell is missing or unparsable are skipped.
// AUC is NaN when the cohort contains only one class.
func Evaluate(ctx context.Context, clf ports.Classifier, frame *dataset.Frame, labelColumn string) (Report, error) {
	labelIdx, ok := frame.ColumnIndex(labelColumn)
	if !ok {
		return Report{}, fmt.Errorf("label column %q not found in cohort", labelColumn)
	}

	query, labels := splitLabeled(frame, labelIdx)
	if query.NumRows() == 0 {
		return Report{}, fmt.Errorf("cohort has no rows with a usable %q label", labelColumn)
	}

	out, err := clf.PredictProba(ctx, query)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", core.ErrInference, err)
	}
	scores, err := inference.PositiveClassProbabilities(out)
	if err != nil {
		return Report{}, err
	}
	if len(scores) != len(labels) {
		return Report{}, fmt.Errorf("%w: %d scores for %d labels", core.ErrRowCountMismatch, len(scores), len(labels))
	}

	report := Report{ModelVersion: clf.Version(), Samples: len(labels)}
	for _, positive := range labels {
		if positive {
			report.Positives++
		}
	}

	report.AUC = core.Round4(rocAUC(scores, labels))
	fillThresholdMetrics(&report, scores, labels)
	fillScoreSummary(&report, scores)
	return report, nil
}

// splitLabeled projects the cohort into an unlabeled query frame plus the
// parsed outcome labels, dropping rows without a usable label.
func splitLabeled(frame *dataset.Frame, labelIdx int) (*dataset.Frame, []bool) {
	columns := make([]string, 0, len(frame.Columns)-1)
	for i, col := range frame.Columns {
		if i != labelIdx {
			columns = append(columns, col)
		}
	}

	query := dataset.NewFrame(columns)
	var labels []bool
	for _, row := range frame.Rows {
		positive, ok := feature.ParseBoolean(row[labelIdx])
		if !ok {
			continue
		}
		features := make([]feature.Value, 0, len(columns))
		for i, v := range row {
			if i != labelIdx {
				features = append(features, v)
			}
		}
		query.AppendRow(features)
		labels = append(labels, positive)
	}
	return query, labels
}

func rocAUC(scores []float64, labels []bool) float64 {
	positives, negatives := 0, 0
	for _, l := range labels {
		if l {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return math.NaN()
	}

	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), labels...)
	gstat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := gstat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

func fillThresholdMetrics(report *Report, scores []float64, labels []bool) {
	var tp, tn, fp, fn float64
	for i, score := range scores {
		predicted := score >= 0.5
		switch {
		case predicted && labels[i]:
			tp++
		case predicted && !labels[i]:
			fp++
		case !predicted && labels[i]:
			fn++
		default:
			tn++
		}
	}

	total := tp + tn + fp + fn
	report.Accuracy = core.Round4((tp + tn) / total)
	if tp+fp > 0 {
		report.Precision = core.Round4(tp / (tp + fp))
	}
	if tp+fn > 0 {
		report.Recall = core.Round4(tp / (tp + fn))
	}
	if report.Precision+report.Recall > 0 {
		report.F1 = core.Round4(2 * report.Precision * report.Recall / (report.Precision + report.Recall))
	}
}

func fillScoreSummary(report *Report, scores []float64) {
	if mean, err := stats.Mean(scores); err == nil {
		report.MeanScore = core.Round4(mean)
	}
	if median, err := stats.Median(scores); err == nil {
		report.MedianScore = core.Round4(median)
	}
	if sd, err := stats.StandardDeviation(scores); err == nil {
		report.ScoreStdDev = core.Round4(sd)
	}
}
