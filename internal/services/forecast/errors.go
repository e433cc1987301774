package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// InsufficientDataError reports a model that cannot fit the given series
// length. The ensemble recovers from it by excluding the model.
type InsufficientDataError struct {
	Model   string
	Minimum int
	Got     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need at least %d points, got %d", e.Model, e.Minimum, e.Got)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}

// EnsembleExhaustedError means every underlying model failed, so no forecast
// can be produced at all. This is a hard abort, never a fabricated result.
type EnsembleExhaustedError struct {
	Failures map[string]error
}

func (e *EnsembleExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for name, err := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", name, err))
	}
	return "ensemble exhausted: all models failed (" + strings.Join(parts, "; ") + ")"
}
