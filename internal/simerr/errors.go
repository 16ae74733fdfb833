// Package simerr defines the error kinds from the simulator's error
// handling design: two fatal startup kinds reported to the caller, and one
// runtime kind reserved for programming defects.
package simerr

import (
	"errors"
	"fmt"
)

// ErrConfigMissing is returned when the program is invoked without the
// required configuration-file argument.
var ErrConfigMissing = errors.New("simerr: configuration path missing")

// ErrConfigInvalid is returned when the configuration file exists but is
// unreadable, malformed, or semantically invalid.
var ErrConfigInvalid = errors.New("simerr: configuration invalid")

// ConfigInvalid wraps ErrConfigInvalid with the concrete reason, so callers
// can both errors.Is(err, ErrConfigInvalid) and print a useful message.
func ConfigInvalid(reason string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigInvalid, fmt.Sprintf(reason, args...))
}

// Invariant panics with an InvariantViolation. A violated accounting or
// state-machine invariant is a programming defect, not a recoverable
// runtime fault, so the simulator aborts rather than limping on with
// corrupted accounting.
func Invariant(format string, args ...any) {
	panic(InvariantViolation{msg: fmt.Sprintf(format, args...)})
}

// InvariantViolation is the panic value raised by Invariant. Recovering it
// at the top of main lets the CLI print a clean diagnostic instead of a raw
// goroutine stack dump.
type InvariantViolation struct{ msg string }

func (e InvariantViolation) Error() string { return "invariant violation: " + e.msg }
