package document

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a path expression cannot be parsed.
	ErrInvalidPath = errors.New("dyndiff: invalid document path")

	// ErrTooDeep is returned when a value nests deeper than MaxDepth (or is cyclic).
	ErrTooDeep = errors.New("dyndiff: document too deep")

	// ErrUnsupportedValue is returned when a value has no document representation.
	ErrUnsupportedValue = errors.New("dyndiff: unsupported value")
)

// ValueError reports a scalar that could not be converted.
type ValueError struct {
	Kind  Kind
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("dyndiff: invalid %s value %q", e.Kind, e.Value)
}

func (e *ValueError) Unwrap() error { return ErrUnsupportedValue }

// PathError reports a path that does not fit the shape of a document.
type PathError struct {
	Path   Path
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("dyndiff: path %s: %s", e.Path, e.Reason)
}
