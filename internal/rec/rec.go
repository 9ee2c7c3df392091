// Package rec converts panics at command boundaries into errors.
package rec

import (
	"fmt"
	"runtime/debug"
	"strings"

	"blockrsa/internal/decerr"
)

func fromPanic(r any) error {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}

	// math/big panics with a plain string on a zero divisor.
	if msg := err.Error(); strings.Contains(msg, "division by zero") || strings.Contains(msg, "divide by zero") {
		err = fmt.Errorf("%w: %w", decerr.ErrArithmetic, err)
	}

	return fmt.Errorf("recovered panic: %w\n%s", err, debug.Stack())
}

// Error recovers a panic and assigns it to the provided error.
// It must be deferred directly.
func Error(err *error) {
	if r := recover(); r != nil {
		*err = fromPanic(r)
	}
}
