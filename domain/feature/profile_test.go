package feature

import (
	"testing"
)

func TestNewProfile_ProjectsOntoSchema(t *testing.T) {
	schema := ClinicalSchema()
	p := NewProfile(schema, map[string]Value{
		FeatureAge:    NewIntegerValue(64),
		FeatureGender: NewStringValue("female"),
	})

	if got := p.Value(FeatureAge).AsInt64(); got != 64 {
		t.Errorf("expected age 64, got %d", got)
	}
	if got := p.Value(FeatureGender).AsString(); got != "female" {
		t.Errorf("expected gender female, got %q", got)
	}
	// Features absent from the input stay missing.
	if !p.Value(FeatureFFR).IsMissing {
		t.Errorf("expected missing ffr, got %v", p.Value(FeatureFFR))
	}
}

func TestProfile_WithIsImmutable(t *testing.T) {
	schema := ClinicalSchema()
	original := DefaultProfile(schema)

	swapped := original.With(FeatureAge, NewIntegerValue(90))

	if got := swapped.Value(FeatureAge).AsInt64(); got != 90 {
		t.Errorf("expected swapped age 90, got %d", got)
	}
	if got := original.Value(FeatureAge).AsInt64(); got != 62 {
		t.Errorf("original profile must not change, got age %d", got)
	}
}

func TestProfile_SerializedCoversEverySchemaFeature(t *testing.T) {
	schema := ClinicalSchema()
	serialized := DefaultProfile(schema).Serialized()

	if len(serialized) != schema.Len() {
		t.Fatalf("expected %d serialized entries, got %d", schema.Len(), len(serialized))
	}
	if serialized[FeatureGender] != "male" {
		t.Errorf("expected serialized gender male, got %v", serialized[FeatureGender])
	}
	if serialized[FeatureDiabetes] != false {
		t.Errorf("expected serialized diabetes false, got %v", serialized[FeatureDiabetes])
	}
	if serialized[FeatureFFR] != 0.83 {
		t.Errorf("expected serialized ffr 0.83, got %v", serialized[FeatureFFR])
	}
}

func TestProfile_SerializedMissingIsNil(t *testing.T) {
	schema := ClinicalSchema()
	serialized := EmptyProfile(schema).Serialized()

	for name, v := range serialized {
		if v != nil {
			t.Errorf("expected nil for %s, got %v", name, v)
		}
	}
}
