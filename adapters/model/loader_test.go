package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"plaquerisk/domain/core"
	"plaquerisk/domain/feature"
)

const validModelJSON = `{
	"model_version": "ao-linear-v2",
	"label": "adverse_outcome",
	"intercept": -1.1,
	"weights": {
		"age": 0.02,
		"syntax_score": 0.04,
		"ffr": -2.5,
		"diabetes_mellitus": 0.6
	},
	"category_weights": {
		"gender": {"male": 0.2, "female": 0.0}
	}
}`

func writeModelDir(t *testing.T, modelJSON string) string {
	t.Helper()
	dir := t.TempDir()
	target := filepath.Join(dir, TargetLabel)
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if modelJSON != "" {
		if err := os.WriteFile(filepath.Join(target, "model.json"), []byte(modelJSON), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad_ValidModelWithoutBaseline(t *testing.T) {
	dir := writeModelDir(t, validModelJSON)
	schema := feature.ClinicalSchema()

	clf, ref, err := Load(context.Background(), dir, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clf.Version() != "ao-linear-v2" {
		t.Errorf("unexpected version %q", clf.Version())
	}

	// No baseline dataset: the reference profile degrades to defaults.
	if got := ref.Value(feature.FeatureAge).AsInt64(); got != 62 {
		t.Errorf("expected default reference age 62, got %d", got)
	}
}

func TestLoad_MissingModelIsFatal(t *testing.T) {
	dir := writeModelDir(t, "")

	_, _, err := Load(context.Background(), dir, feature.ClinicalSchema())
	if !core.IsModelLoadError(err) {
		t.Fatalf("expected model load error, got %v", err)
	}
}

func TestLoad_CorruptModelIsFatal(t *testing.T) {
	dir := writeModelDir(t, `{"model_version": "v1", not json`)

	_, _, err := Load(context.Background(), dir, feature.ClinicalSchema())
	if !core.IsModelLoadError(err) {
		t.Fatalf("expected model load error, got %v", err)
	}
}

func TestLoad_ModelWithoutWeightsIsFatal(t *testing.T) {
	dir := writeModelDir(t, `{"model_version": "v1"}`)

	_, _, err := Load(context.Background(), dir, feature.ClinicalSchema())
	if !core.IsModelLoadError(err) {
		t.Fatalf("expected model load error, got %v", err)
	}
}

func TestLoad_BaselineCSVBuildsReferenceProfile(t *testing.T) {
	dir := writeModelDir(t, validModelJSON)
	csv := "age,gender,ffr\n50,female,0.91\n60,female,0.804\n70,male,\n"
	if err := os.WriteFile(filepath.Join(dir, TargetLabel, "baseline.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ref, err := Load(context.Background(), dir, feature.ClinicalSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ref.Value(feature.FeatureAge).AsInt64(); got != 60 {
		t.Errorf("expected reference age median 60, got %d", got)
	}
	if got := ref.Value(feature.FeatureGender).AsString(); got != "female" {
		t.Errorf("expected reference gender mode female, got %q", got)
	}
	// Median of the two present ffr readings, rounded to 2 decimals.
	if got := ref.Value(feature.FeatureFFR).AsFloat64(); got != 0.86 {
		t.Errorf("expected reference ffr 0.86, got %v", got)
	}
	// Columns absent from the CSV fall back to defaults.
	if got := ref.Value(feature.FeatureBMI).AsFloat64(); got != 27.4 {
		t.Errorf("expected default bmi 27.4, got %v", got)
	}
}

func TestLoad_UnreadableBaselineDegradesToDefaults(t *testing.T) {
	dir := writeModelDir(t, validModelJSON)
	// Header only: not enough rows to be usable.
	if err := os.WriteFile(filepath.Join(dir, TargetLabel, "baseline.csv"), []byte("age\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ref, err := Load(context.Background(), dir, feature.ClinicalSchema())
	if err != nil {
		t.Fatalf("baseline anomalies must not propagate, got %v", err)
	}
	if got := ref.Value(feature.FeatureAge).AsInt64(); got != 62 {
		t.Errorf("expected default reference age 62, got %d", got)
	}
}
