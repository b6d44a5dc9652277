// Package errs holds the error kinds shared by the codecs and the export
// pipeline. Callers match them with errors.As.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError reports malformed input: bad magic, truncated chunks,
// missing accessors, unsupported component types.
type FormatError struct {
	Format string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: invalid format: %s", e.Format, e.Reason)
}

// Format returns a FormatError with a stack attached.
func Format(format, reason string, args ...any) error {
	return errors.WithStack(&FormatError{Format: format, Reason: fmt.Sprintf(reason, args...)})
}

// IOError is a filesystem failure during an export or import. Path is the
// file that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an IOError. It returns nil when err is nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

// ConfigurationError is raised at initialization: empty palette, unknown
// strategy, out-of-range option.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}

// Config returns a ConfigurationError with a stack attached.
func Config(field, reason string, args ...any) error {
	return errors.WithStack(&ConfigurationError{Field: field, Reason: fmt.Sprintf(reason, args...)})
}

// IsFormat reports whether err wraps a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsIO reports whether err wraps an IOError.
func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsConfig reports whether err wraps a ConfigurationError.
func IsConfig(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
