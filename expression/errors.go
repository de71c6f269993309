package expression

import (
	"errors"
	"fmt"
)

// ErrInvalidArguments is returned when an expression cannot be built from the
// given input, e.g. a non-numeric version value that has to be incremented.
var ErrInvalidArguments = errors.New("dyndiff: invalid arguments")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArguments}, args...)...)
}
