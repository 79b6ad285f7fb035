package sim

import "fmt"

// ConfigurationError reports a layout or parameter invariant violation
// detected at construction time (spec §7). The core never starts with
// a bad world: NewEnvironment/NewSimulator return this instead of
// panicking or proceeding with undefined behavior.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// PathUnreachable is not an error type: per spec §7/§9 it surfaces as
// the boolean `ok` return of GridPathfinder.FindPath and Policy
// decisions, never as a Go error. This comment exists so a reader
// looking for a PathUnreachable type knows where to look instead.
