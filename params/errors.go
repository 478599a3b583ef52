package params

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFormatSpec indicates an unrecognized or malformed format annotation.
	ErrFormatSpec = errors.New("invalid format spec")

	// ErrArrayArgument indicates a sequence argument that cannot be expanded,
	// such as an empty slice inside IN {0}.
	ErrArrayArgument = errors.New("invalid array argument")

	// ErrCollisionExhausted indicates that no free parameter name was found
	// within MaxRenameAttempts candidates.
	ErrCollisionExhausted = errors.New("parameter name collision exhausted")

	// ErrNotOutput indicates an attempt to write back into an Input parameter.
	ErrNotOutput = errors.New("parameter is not an output parameter")

	// ErrUnknownParameter indicates a name that is not in the registry.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// FormatSpecError carries the offending annotation.
type FormatSpecError struct {
	Spec   string
	Reason string
}

func (e *FormatSpecError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrFormatSpec, e.Spec, e.Reason)
}

// Unwrap lets errors.Is match ErrFormatSpec.
func (e *FormatSpecError) Unwrap() error { return ErrFormatSpec }

func formatSpecError(spec, format string, args ...any) error {
	return errors.WithStack(&FormatSpecError{Spec: spec, Reason: fmt.Sprintf(format, args...)})
}
