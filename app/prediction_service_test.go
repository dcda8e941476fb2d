package app

import (
	"context"
	"errors"
	"testing"

	"plaquerisk/domain/core"
	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/domain/risk"
	"plaquerisk/internal/inference"
	"plaquerisk/internal/testkit"
)

func newTestService(clf *testkit.FakeClassifier) *PredictionService {
	schema := feature.ClinicalSchema()
	model := NewModelContext(clf, feature.DefaultProfile(schema), schema)
	return NewPredictionService(model, inference.DefaultExplainerConfig(), nil, nil)
}

func TestPredict_HighRiskPatient(t *testing.T) {
	svc := newTestService(testkit.NewFakeClassifier(testkit.ConstantScore(0.73)))

	result, err := svc.Predict(context.Background(), map[string]interface{}{
		"age":    71,
		"gender": "male",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RiskProbability != 0.73 {
		t.Errorf("expected probability 0.73, got %v", result.RiskProbability)
	}
	if result.Outcome != 1 {
		t.Errorf("expected positive outcome, got %d", result.Outcome)
	}
	if result.Tier != risk.TierHigh {
		t.Errorf("expected high tier, got %s", result.Tier)
	}
	if result.Confidence != 0.721 {
		t.Errorf("expected confidence 0.721, got %v", result.Confidence)
	}
	if len(result.Recommendations) != 3 {
		t.Errorf("expected 3 recommendation lines, got %d", len(result.Recommendations))
	}
	if result.ModelVersion != "fake-v1" {
		t.Errorf("expected model version fake-v1, got %q", result.ModelVersion)
	}
	if result.RequestID == "" {
		t.Error("expected a request id")
	}
}

func TestPredict_UnknownFeatureRejected(t *testing.T) {
	svc := newTestService(testkit.NewFakeClassifier(testkit.ConstantScore(0.5)))

	_, err := svc.Predict(context.Background(), map[string]interface{}{
		"smoking_status": "heavy",
	})
	if !errors.Is(err, core.ErrUnknownFeature) {
		t.Fatalf("expected unknown feature error, got %v", err)
	}
}

func TestPredict_CoercesRawValuesPerSchema(t *testing.T) {
	var seenAge feature.Value
	var seenDiabetes feature.Value
	score := func(columns []string, row []feature.Value) float64 {
		for i, col := range columns {
			switch col {
			case feature.FeatureAge:
				seenAge = row[i]
			case feature.FeatureDiabetes:
				seenDiabetes = row[i]
			}
		}
		return 0.4
	}
	svc := newTestService(testkit.NewFakeClassifier(score))

	if _, err := svc.Predict(context.Background(), map[string]interface{}{
		"age":               "64",
		"diabetes_mellitus": "yes",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !seenAge.IsInteger() || seenAge.AsInt64() != 64 {
		t.Errorf("expected coerced integer age 64, got %v", seenAge)
	}
	if !seenDiabetes.IsBoolean() || !seenDiabetes.AsBoolean() {
		t.Errorf("expected coerced boolean diabetes true, got %v", seenDiabetes)
	}
}

func TestExplain_RanksCounterfactualEffects(t *testing.T) {
	clf := testkit.NewFakeClassifier(testkit.AdditiveScore(0.2, map[string]float64{
		feature.FeatureDiabetes: 0.2,
	}))
	svc := newTestService(clf)

	result, err := svc.Explain(context.Background(), map[string]interface{}{
		"diabetes_mellitus": true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RiskProbability != 0.4 {
		t.Errorf("expected probability 0.4, got %v", result.RiskProbability)
	}
	if result.Tier != risk.TierModerate {
		t.Errorf("expected moderate tier, got %s", result.Tier)
	}
	if result.Explanation.Method != risk.MethodCounterfactual {
		t.Errorf("unexpected method tag %q", result.Explanation.Method)
	}
	if result.Explanation.BaselineProbability != 0.2 {
		t.Errorf("expected baseline probability 0.2, got %v", result.Explanation.BaselineProbability)
	}

	top := result.Explanation.FeatureEffects[0]
	if top.Feature != feature.FeatureDiabetes {
		t.Fatalf("expected diabetes as top effect, got %s", top.Feature)
	}
	if top.Effect != 0.2 || top.Direction != risk.DirectionIncrease {
		t.Errorf("expected effect +0.2 increase, got %v %s", top.Effect, top.Direction)
	}
	for _, effect := range result.Explanation.FeatureEffects[1:] {
		if effect.Direction != risk.DirectionNeutral {
			t.Errorf("expected neutral effect for %s, got %s", effect.Feature, effect.Direction)
		}
	}

	if got := result.ReferenceProfile[feature.FeatureDiabetes]; got != false {
		t.Errorf("expected serialized reference diabetes false, got %v", got)
	}
}

func TestExplain_ClassifierFailurePropagates(t *testing.T) {
	svc := newTestService(&testkit.FakeClassifier{Err: errors.New("backend gone")})

	_, err := svc.Explain(context.Background(), map[string]interface{}{"age": 64})
	if !core.IsInferenceError(err) {
		t.Fatalf("expected inference error, got %v", err)
	}
}

func TestBaseline_ReportsServingProfile(t *testing.T) {
	svc := newTestService(testkit.NewFakeClassifier(testkit.ConstantScore(0.3)))

	info := svc.Baseline()
	if info.ModelVersion != "fake-v1" {
		t.Errorf("unexpected model version %q", info.ModelVersion)
	}
	if info.Profile[feature.FeatureAge] != int64(62) {
		t.Errorf("expected serialized default age 62, got %v", info.Profile[feature.FeatureAge])
	}
	if info.ProfileHash != core.ComputeProfileHash(info.Profile) {
		t.Error("profile hash must match the serialized profile")
	}
}

func TestRebuildReference_DerivesNewContext(t *testing.T) {
	svc := newTestService(testkit.NewFakeClassifier(testkit.ConstantScore(0.3)))

	cohort := dataset.NewFrame([]string{feature.FeatureAge})
	for _, age := range []int64{50, 60, 70} {
		cohort.AppendRow([]feature.Value{feature.NewIntegerValue(age)})
	}

	rebuilt, err := svc.RebuildReference(context.Background(), &testkit.StaticCohortSource{Frame: cohort})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rebuilt.Model().Reference().Value(feature.FeatureAge).AsInt64(); got != 60 {
		t.Errorf("expected rebuilt reference age 60, got %d", got)
	}
	if rebuilt.Model().LoadID() == svc.Model().LoadID() {
		t.Error("rebuilt context must carry a new load id")
	}
	if got := svc.Model().Reference().Value(feature.FeatureAge).AsInt64(); got != 62 {
		t.Errorf("original service must keep serving the old reference, got %d", got)
	}
}

func TestRebuildReference_SourceFailure(t *testing.T) {
	svc := newTestService(testkit.NewFakeClassifier(testkit.ConstantScore(0.3)))

	if _, err := svc.RebuildReference(context.Background(), &testkit.StaticCohortSource{Err: errors.New("db down")}); err == nil {
		t.Fatal("expected error from failing cohort source")
	}
}
