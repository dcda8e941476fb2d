package app

import (
	"context"
	"time"

	"plaquerisk/adapters/model"
	"plaquerisk/domain/core"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// ModelContext is the immutable bundle a prediction service operates on:
// one classifier, one reference profile, one load identity. Swapping models
// means building a new context, never mutating a served one.
type ModelContext struct {
	classifier ports.Classifier
	reference  feature.Profile
	schema     feature.Schema
	loadID     core.LoadID
	loadedAt   time.Time
}

// NewModelContext assembles a context from explicit parts. Tests inject
// fakes here; production code goes through LoadModelContext.
func NewModelContext(clf ports.Classifier, reference feature.Profile, schema feature.Schema) *ModelContext {
	return &ModelContext{
		classifier: clf,
		reference:  reference,
		schema:     schema,
		loadID:     core.NewLoadID(),
		loadedAt:   time.Now().UTC(),
	}
}

// LoadModelContext resolves the persisted predictor under modelDir and
// builds the serving context around it.
func LoadModelContext(ctx context.Context, modelDir string, schema feature.Schema) (*ModelContext, error) {
	clf, reference, err := model.Load(ctx, modelDir, schema)
	if err != nil {
		return nil, err
	}
	return NewModelContext(clf, reference, schema), nil
}

// Classifier returns the served classifier.
func (m *ModelContext) Classifier() ports.Classifier { return m.classifier }

// Reference returns the baseline reference profile.
func (m *ModelContext) Reference() feature.Profile { return m.reference }

// Schema returns the clinical feature schema.
func (m *ModelContext) Schema() feature.Schema { return m.schema }

// LoadID identifies this model load.
func (m *ModelContext) LoadID() core.LoadID { return m.loadID }

// LoadedAt reports when the context was assembled.
func (m *ModelContext) LoadedAt() time.Time { return m.loadedAt }

// Version reports the served model version.
func (m *ModelContext) Version() string { return m.classifier.Version() }

// WithReference derives a new context serving a rebuilt reference profile.
// The load identity changes: a new baseline is a new serving state.
func (m *ModelContext) WithReference(reference feature.Profile) *ModelContext {
	return NewModelContext(m.classifier, reference, m.schema)
}
