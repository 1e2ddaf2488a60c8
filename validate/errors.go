package validate

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is wrapped by Run when the duration or bound is unusable.
var ErrInvalidConfig = errors.New("invalid validation config")

// NoSamplesError reports a window that closed without a single sample.
type NoSamplesError struct {
	Source string
}

func (e *NoSamplesError) Error() string {
	if e.Source == "" {
		return "no samples received"
	}
	return fmt.Sprintf("no samples received from %s", e.Source)
}

// ThresholdExceededError carries the measured maximum magnitude and the bound
// it violated.
type ThresholdExceededError struct {
	MaxAbs float64
	Bound  float64
}

func (e *ThresholdExceededError) Error() string {
	return fmt.Sprintf("maximum magnitude %v exceeded bound %v", e.MaxAbs, e.Bound)
}

// ServiceUnavailableError means the readiness probe failed before the
// window opened.
type ServiceUnavailableError struct {
	Service string
	Err     error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("readiness probe failed: %v", e.Err)
	}
	return fmt.Sprintf("service %s unavailable: %v", e.Service, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}
