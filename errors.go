package steptrace

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the core. Callers should compare with
// errors.Is; none of these are retried internally and none represent a
// partial success.
var (
	// ErrNoKeyAtTime is returned by Remove when there is no measurement
	// stored exactly at the requested time.
	ErrNoKeyAtTime = errors.New("steptrace: no measurement at that time")

	// ErrUndefinedWindow is returned by aggregations that were asked to
	// run over an empty series with no start/end/mask to fall back on.
	ErrUndefinedWindow = errors.New("steptrace: can't determine an aggregation window")

	// ErrInterpolationUnsupported is returned when a caller asks for an
	// interpolation mode other than previous/linear (e.g. "spline").
	ErrInterpolationUnsupported = errors.New("steptrace: unsupported interpolation mode")

	// ErrEmptyInput is returned by reductions over an empty slice.
	ErrEmptyInput = errors.New("steptrace: empty input")
)

// BadArgumentError is the catch-all for malformed call arguments: a
// reversed (start, end) window, a non-positive period or step, a period
// that exceeds the requested span, an out-of-range quantile or alpha, an
// unknown time unit, or a series lacking the duration/lerp function an
// operation needs. An unknown interpolation mode is reported as
// ErrInterpolationUnsupported instead. The Arg and
// Reason fields let callers build a precise message without parsing
// Error().
type BadArgumentError struct {
	Arg    string
	Reason string
}

func (e *BadArgumentError) Error() string {
	return fmt.Sprintf("steptrace: bad argument %s: %s", e.Arg, e.Reason)
}

func badArgument(arg, reason string) error {
	return &BadArgumentError{Arg: arg, Reason: reason}
}
