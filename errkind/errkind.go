// Package errkind defines the broad classes of failures reported by the
// tapkit packages. Every sentinel error exported by a tapkit package wraps
// exactly one of the kinds below, so callers can branch on the class of a
// failure without enumerating every specific error.
package errkind

import (
	"errors"
	"fmt"
)

var (
	// Size is the kind of error returned when a key, word or push has a
	// length that cannot be encoded.
	Size = errors.New("size error")

	// Format is the kind of error returned for input that cannot be
	// parsed: unknown address prefixes, bad hex, malformed signature
	// streams and so on.
	Format = errors.New("format error")

	// Range is the kind of error returned when a value is outside of the
	// numeric range it is required to be in, for example a signature
	// scalar that is not smaller than the curve order.
	Range = errors.New("range error")

	// Geometry is the kind of error returned when a curve point does not
	// have the shape an operation requires, for example a nonce point
	// with an odd y coordinate or the point at infinity.
	Geometry = errors.New("geometry error")
)

// kinds is the fixed set of known kinds, in the order Of checks them.
var kinds = []error{Size, Format, Range, Geometry}

// New creates a sentinel error of the given kind with the passed message.
func New(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// Errorf creates a new error of the given kind. The format string may use
// %w to wrap an additional cause.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

// Of returns the kind of the passed error, or nil if the error doesn't wrap
// any known kind.
func Of(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}
