package feature

import (
	"math"
	"testing"
)

func TestSerialize_MissingIsNil(t *testing.T) {
	if got := Serialize(NewMissingValue()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestSerialize_PassthroughTypes(t *testing.T) {
	if got := Serialize(NewBooleanValue(true)); got != true {
		t.Errorf("expected true, got %v", got)
	}
	if got := Serialize(NewIntegerValue(62)); got != int64(62) {
		t.Errorf("expected int64 62, got %v", got)
	}
	if got := Serialize(NewStringValue("male")); got != "male" {
		t.Errorf("expected male, got %v", got)
	}
}

func TestSerialize_NumericRoundsToThreeDecimals(t *testing.T) {
	if got := Serialize(NewNumericValue(3.14159)); got != 3.142 {
		t.Errorf("expected 3.142, got %v", got)
	}
	if got := Serialize(NewNumericValue(0.8301)); got != 0.83 {
		t.Errorf("expected 0.83, got %v", got)
	}
}

func TestSerialize_NonFiniteNumericIsNil(t *testing.T) {
	// NewNumericValue already rejects non-finite inputs; a hand-built value
	// must still serialize safely.
	nan := math.NaN()
	v := Value{Type: ValueTypeNumeric, NumericVal: &nan}
	if got := Serialize(v); got != nil {
		t.Errorf("expected nil for NaN payload, got %v", got)
	}
}

func TestSerialize_MalformedValueDegradesToString(t *testing.T) {
	v := Value{Type: ValueTypeInteger} // payload pointer missing
	if got := Serialize(v); got != "<invalid>" {
		t.Errorf("expected string degradation, got %v", got)
	}
}
