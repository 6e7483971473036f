package sim

import "fmt"

// ValidationError reports a bad or missing configuration value. It is always
// returned before any simulation state is touched, so the caller may correct
// the input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// SimulationError reports a violated internal precondition, such as an
// arrival schedule that does not match the configured attendee count.
// It is fatal to the run that raised it; no partial state is kept.
type SimulationError struct {
	Message string
}

func (e *SimulationError) Error() string {
	return "simulation error: " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
