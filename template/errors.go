package template

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTemplate is matched by every template syntax or argument-range failure.
var ErrTemplate = errors.New("invalid template")

// TemplateError describes where a template failed to parse or bind.
type TemplateError struct {
	Template string
	Offset   int
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrTemplate, e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrTemplate.
func (e *TemplateError) Unwrap() error { return ErrTemplate }

func newTemplateError(src string, offset int, format string, args ...any) error {
	return errors.WithStack(&TemplateError{
		Template: src,
		Offset:   offset,
		Reason:   fmt.Sprintf(format, args...),
	})
}
