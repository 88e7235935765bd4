package app

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks errors caused by bad caller input rather than by
// storage.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
