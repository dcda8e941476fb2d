package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"plaquerisk/adapters/tabular"
	"plaquerisk/domain/core"
	"plaquerisk/domain/feature"
	"plaquerisk/internal/baseline"
	"plaquerisk/ports"
)

// TargetLabel is the fixed sub-path for the adverse-outcome model under the
// model directory.
const TargetLabel = "adverse_outcome"

const modelFileName = "model.json"

// baselineFileNames are the co-located baseline dataset candidates, checked
// in order.
var baselineFileNames = []string{"baseline.csv", "baseline.xlsx"}

// Load resolves the persisted classifier under modelDir and builds its
// reference profile. A missing or corrupt model is fatal: the error wraps
// core.ErrModelLoad and the process must not start serving. A missing
// baseline dataset is not fatal; the reference profile degrades to the
// embedded defaults.
func Load(ctx context.Context, modelDir string, schema feature.Schema) (ports.Classifier, feature.Profile, error) {
	clf, err := loadClassifier(modelDir)
	if err != nil {
		return nil, feature.Profile{}, err
	}

	ref := loadReferenceProfile(ctx, modelDir, schema)
	return clf, ref, nil
}

func loadClassifier(modelDir string) (*LinearClassifier, error) {
	path := filepath.Join(modelDir, TargetLabel, modelFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrModelMissing, path)
		}
		return nil, core.NewModelLoadError(path, err)
	}

	var spec linearSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrModelCorrupt, path, err)
	}
	if spec.Version == "" || (len(spec.Weights) == 0 && len(spec.CategoryWeights) == 0) {
		return nil, fmt.Errorf("%w: %s: missing version or weights", core.ErrModelCorrupt, path)
	}

	return &LinearClassifier{
		spec:        spec,
		fingerprint: core.NewModelFingerprint(data),
	}, nil
}

// loadReferenceProfile builds the reference profile from the first usable
// co-located baseline dataset, or from the embedded defaults when none
// exists. Baseline anomalies are recovered locally and never propagate.
func loadReferenceProfile(ctx context.Context, modelDir string, schema feature.Schema) feature.Profile {
	builder := baseline.NewBuilder(schema, feature.DefaultProfile(schema))

	for _, name := range baselineFileNames {
		path := filepath.Join(modelDir, TargetLabel, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		reader := tabular.NewCohortReader(path, schema)
		frame, err := reader.FetchCohort(ctx)
		if err != nil {
			continue
		}
		return builder.Build(frame)
	}
	return builder.BuildDefault()
}
