package errors

import "fmt"

// MissingOptionError is raised synchronously at start when a required
// StartOptions field is absent (spec §7: Configuration errors).
type MissingOptionError struct {
	Option string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("missing required option %q", e.Option)
}

// NewMissingOption constructs a MissingOptionError for the given option name.
func NewMissingOption(option string) *MissingOptionError {
	return &MissingOptionError{Option: option}
}
