package inference

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"plaquerisk/domain/core"
	"plaquerisk/domain/feature"
	"plaquerisk/domain/risk"
	"plaquerisk/ports"
)

// ExplainerConfig carries the empirically chosen precision constants. The
// defaults match the production model's behavior; they are configurable
// rather than hardcoded because no stricter semantics were ever derived for
// them.
type ExplainerConfig struct {
	// Epsilon guards direction classification against floating-point noise.
	Epsilon float64
	// MaxParallel bounds concurrent perturbation queries; 0 means one
	// goroutine per feature.
	MaxParallel int
}

// DefaultExplainerConfig returns the production defaults.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{Epsilon: 1e-9}
}

// Explainer produces single-feature counterfactual explanations. The cost
// is one classifier query per feature plus two (patient and baseline),
// which keeps explanation cost linear in feature count instead of the
// combinatorial cost of joint perturbations.
type Explainer struct {
	cfg ExplainerConfig
}

// NewExplainer creates an explainer with the given configuration.
func NewExplainer(cfg ExplainerConfig) *Explainer {
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-9
	}
	return &Explainer{cfg: cfg}
}

// Explain computes the prediction for the patient and a ranked
// counterfactual explanation against the reference profile.
//
// Each feature is swapped to its reference value independently against the
// original patient profile; perturbations are never cumulative. The
// perturbation queries run concurrently over read-only inputs and the
// collected effects are re-sorted deterministically afterwards.
func (e *Explainer) Explain(ctx context.Context, clf ports.Classifier, ref feature.Profile, patientInput map[string]feature.Value) (risk.Prediction, risk.Explanation, error) {
	schema := ref.Schema()
	patient := feature.NewProfile(schema, patientInput)

	probability, err := PositiveClassProbability(ctx, clf, patient)
	if err != nil {
		return risk.Prediction{}, risk.Explanation{}, err
	}

	baseline, err := PositiveClassProbability(ctx, clf, ref)
	if err != nil {
		return risk.Prediction{}, risk.Explanation{}, err
	}

	effects := make([]risk.FeatureEffect, schema.Len())
	g, gctx := errgroup.WithContext(ctx)
	if e.cfg.MaxParallel > 0 {
		g.SetLimit(e.cfg.MaxParallel)
	}
	for i := 0; i < schema.Len(); i++ {
		idx := i
		name := schema.FieldAt(idx).Name
		g.Go(func() error {
			counterfactual := patient.With(name, ref.Value(name))
			cfProbability, err := PositiveClassProbability(gctx, clf, counterfactual)
			if err != nil {
				return err
			}
			effect := core.Round4(probability - cfProbability)
			effects[idx] = risk.FeatureEffect{
				Feature:        name,
				Effect:         effect,
				Direction:      risk.DirectionFor(effect, e.cfg.Epsilon),
				PatientValue:   feature.Serialize(patient.Value(name)),
				ReferenceValue: feature.Serialize(ref.Value(name)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return risk.Prediction{}, risk.Explanation{}, err
	}

	// Rank by descending absolute effect; the stable sort preserves schema
	// order on exact ties.
	sort.SliceStable(effects, func(i, j int) bool {
		return math.Abs(effects[i].Effect) > math.Abs(effects[j].Effect)
	})

	prediction := risk.Prediction{
		Probability: core.Round3(probability),
		Outcome:     risk.OutcomeFor(probability),
	}
	explanation := risk.Explanation{
		Method:              risk.MethodCounterfactual,
		BaselineProbability: core.Round3(baseline),
		FeatureEffects:      effects,
	}
	return prediction, explanation, nil
}
