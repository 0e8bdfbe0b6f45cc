package synth

import (
	"fmt"
	"log"
	"strings"
)

// ValidationError reports a parameter value outside its documented range.
// It is returned before any state mutation takes place.
type ValidationError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be in [%g, %g], got %g", e.Param, e.Min, e.Max, e.Value)
}

func validateRange(param string, value float64, min float64, max float64) error {
	if value < min || value > max || value != value {
		return &ValidationError{Param: param, Value: value, Min: min, Max: max}
	}
	return nil
}

// StructuralError reports a malformed preset or an unknown parameter path.
type StructuralError struct {
	Path   string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// ValidationErrors collects every violation found while validating a preset,
// so a caller sees all of them at once.
type ValidationErrors []error

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// warn logs a recoverable misuse (InvalidOperationWarning). The operation is
// ignored and the engine keeps its prior state.
func warn(format string, args ...interface{}) {
	log.Printf("[WARN] "+format, args...)
}
