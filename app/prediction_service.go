package app

import (
	"context"
	"fmt"
	"time"

	"plaquerisk/domain/core"
	"plaquerisk/domain/feature"
	"plaquerisk/domain/risk"
	"plaquerisk/internal"
	"plaquerisk/internal/baseline"
	"plaquerisk/internal/inference"
	"plaquerisk/internal/metrics"
	"plaquerisk/ports"
)

// PredictionService orchestrates risk prediction and counterfactual
// explanation against one model context.
type PredictionService struct {
	model     *ModelContext
	explainer *inference.Explainer
	metrics   *metrics.Metrics
	logger    *internal.Logger
}

// PredictResult is the response for one risk prediction.
type PredictResult struct {
	RequestID       core.RequestID `json:"request_id"`
	ModelVersion    string         `json:"model_version"`
	RiskProbability float64        `json:"risk_probability"`
	Outcome         int            `json:"binary_prediction"`
	Tier            risk.Tier      `json:"risk_tier"`
	Confidence      float64        `json:"confidence"`
	Recommendations []string       `json:"recommendations"`
}

// ExplainResult extends a prediction with the ranked counterfactual
// explanation and the reference profile it was computed against.
type ExplainResult struct {
	PredictResult
	Explanation      risk.Explanation       `json:"explanation"`
	ReferenceProfile map[string]interface{} `json:"reference_profile"`
}

// BaselineInfo describes the serving reference profile.
type BaselineInfo struct {
	ModelVersion string                 `json:"model_version"`
	LoadID       core.LoadID            `json:"load_id"`
	Profile      map[string]interface{} `json:"profile"`
	ProfileHash  core.ProfileHash       `json:"profile_hash"`
}

// NewPredictionService creates a prediction service. The metrics collector
// may be nil when instrumentation is not wired, e.g. in one-shot CLI runs.
func NewPredictionService(model *ModelContext, cfg inference.ExplainerConfig, m *metrics.Metrics, logger *internal.Logger) *PredictionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PredictionService{
		model:     model,
		explainer: inference.NewExplainer(cfg),
		metrics:   m,
		logger:    logger,
	}
}

// Model returns the served model context.
func (s *PredictionService) Model() *ModelContext { return s.model }

// Predict scores one patient and assigns the risk tier.
func (s *PredictionService) Predict(ctx context.Context, input map[string]interface{}) (*PredictResult, error) {
	values, err := s.coerceInput(input)
	if err != nil {
		return nil, err
	}
	patient := feature.NewProfile(s.model.Schema(), values)

	probability, err := inference.PositiveClassProbability(ctx, s.model.Classifier(), patient)
	if err != nil {
		return nil, err
	}

	result := s.buildResult(probability)
	s.observePrediction(result)
	s.logger.Debug("prediction %s: probability=%.3f tier=%s", result.RequestID, result.RiskProbability, result.Tier)
	return result, nil
}

// Explain scores one patient and computes the ranked single-feature
// counterfactual explanation against the reference profile.
func (s *PredictionService) Explain(ctx context.Context, input map[string]interface{}) (*ExplainResult, error) {
	values, err := s.coerceInput(input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	prediction, explanation, err := s.explainer.Explain(ctx, s.model.Classifier(), s.model.Reference(), values)
	if err != nil {
		return nil, err
	}

	result := &ExplainResult{
		PredictResult:    *s.buildResult(prediction.Probability),
		Explanation:      explanation,
		ReferenceProfile: s.model.Reference().Serialized(),
	}
	s.observePrediction(&result.PredictResult)
	if s.metrics != nil {
		s.metrics.ExplanationsTotal.Inc()
		s.metrics.ExplainDuration.Observe(time.Since(start).Seconds())
	}
	s.logger.Debug("explanation %s: probability=%.3f baseline=%.3f", result.RequestID, result.RiskProbability, explanation.BaselineProbability)
	return result, nil
}

// Baseline reports the serving reference profile.
func (s *PredictionService) Baseline() BaselineInfo {
	serialized := s.model.Reference().Serialized()
	return BaselineInfo{
		ModelVersion: s.model.Version(),
		LoadID:       s.model.LoadID(),
		Profile:      serialized,
		ProfileHash:  core.ComputeProfileHash(serialized),
	}
}

// RebuildReference fetches the cohort and derives a new service around the
// rebuilt reference profile. The current service keeps serving unchanged.
func (s *PredictionService) RebuildReference(ctx context.Context, source ports.CohortSource) (*PredictionService, error) {
	frame, err := source.FetchCohort(ctx)
	if err != nil {
		return nil, fmt.Errorf("cohort fetch failed: %w", err)
	}

	builder := baseline.NewBuilder(s.model.Schema(), feature.DefaultProfile(s.model.Schema()))
	reference := builder.Build(frame)

	next := *s
	next.model = s.model.WithReference(reference)
	s.logger.Info("reference profile rebuilt from %d cohort rows, load %s", frame.NumRows(), next.model.LoadID())
	return &next, nil
}

// coerceInput converts raw request values onto the schema. Unknown feature
// names are rejected; known features coerce per their declared kind and
// absent ones stay missing.
func (s *PredictionService) coerceInput(input map[string]interface{}) (map[string]feature.Value, error) {
	schema := s.model.Schema()
	values := make(map[string]feature.Value, len(input))
	for name, raw := range input {
		field, ok := schema.Lookup(name)
		if !ok {
			return nil, core.NewUnknownFeatureError(name)
		}
		values[name] = feature.CoerceRaw(field, raw)
	}
	return values, nil
}

func (s *PredictionService) buildResult(probability float64) *PredictResult {
	rounded := core.Round3(probability)
	tier := risk.TierFor(rounded)
	return &PredictResult{
		RequestID:       core.NewRequestID(),
		ModelVersion:    s.model.Version(),
		RiskProbability: rounded,
		Outcome:         risk.OutcomeFor(probability),
		Tier:            tier,
		Confidence:      risk.Confidence(rounded),
		Recommendations: risk.Recommendations(tier),
	}
}

func (s *PredictionService) observePrediction(result *PredictResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.PredictionsTotal.Inc()
	s.metrics.PredictedRisk.Observe(result.RiskProbability)
	s.metrics.OutcomesByTier.WithLabelValues(string(result.Tier)).Inc()
}
