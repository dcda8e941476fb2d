package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load-time errors. Fatal at startup: serving without a model is
	// meaningless, so these are never retried.
	ErrModelLoad     = errors.New("model load failed")
	ErrModelMissing  = fmt.Errorf("%w: persisted model not found", ErrModelLoad)
	ErrModelCorrupt  = fmt.Errorf("%w: persisted model unreadable", ErrModelLoad)
	ErrBaselineEmpty = errors.New("baseline dataset contains no usable rows")

	// Inference errors. Surfaced to the caller as request failures; they
	// indicate a model/schema mismatch, not a transient condition.
	ErrInference        = errors.New("inference failed")
	ErrNoPositiveColumn = fmt.Errorf("%w: classifier did not expose a positive-class output", ErrInference)
	ErrRowCountMismatch = fmt.Errorf("%w: classifier returned wrong number of rows", ErrInference)

	// Validation errors
	ErrUnknownFeature = errors.New("feature not declared in schema")
	ErrKindMismatch   = errors.New("value kind does not match declared feature kind")
)

// Error constructors with context
func NewModelLoadError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
}

func NewInferenceError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInference, reason)
}

func NewUnknownFeatureError(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
}

// Error checking helpers
func IsModelLoadError(err error) bool {
	return errors.Is(err, ErrModelLoad)
}

func IsInferenceError(err error) bool {
	return errors.Is(err, ErrInference)
}
