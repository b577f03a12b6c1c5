// Package transform applies named what-if changes to scenarios.
package transform

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
)

// ScenarioTransform defines the interface for all scenario transformations.
// Apply never mutates base.
type ScenarioTransform interface {
	// Apply returns a modified copy of base.
	Apply(base *domain.Scenario) (*domain.Scenario, error)

	// Name returns a short identifier (e.g. "scale_tariff").
	Name() string

	// Description returns a human-readable description of the change.
	Description() string

	// Validate checks the transform can be applied to base.
	Validate(base *domain.Scenario) error
}

// ApplyTransforms applies transforms in order, each receiving the
// output of the previous one.
func ApplyTransforms(base *domain.Scenario, transforms []ScenarioTransform) (*domain.Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
