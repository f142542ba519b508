package timeline

import (
	"errors"
	"fmt"

	"github.com/dshills/timegrid/internal/timemath"
)

// Configuration errors. They fail the mutating call and leave prior state
// in effect.
var (
	// ErrInvalidTimezone indicates an unrecognized IANA zone.
	ErrInvalidTimezone = timemath.ErrInvalidTimezone

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = timemath.ErrInvalidRange

	// ErrInvalidInterval indicates an interval other than hour, day or month.
	ErrInvalidInterval = timemath.ErrInvalidUnit

	// ErrInvalidZoom indicates a zoom factor that is not positive.
	ErrInvalidZoom = timemath.ErrInvalidZoom

	// ErrInvalidRegion indicates a region bound that cannot be parsed as a date/time.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrNilTrack indicates a nil track was passed to the timeline.
	ErrNilTrack = errors.New("nil track")

	// ErrRegionNotFound indicates no region has the requested id.
	ErrRegionNotFound = errors.New("region not found")

	// ErrTrackNotFound indicates no track has the requested id.
	ErrTrackNotFound = errors.New("track not found")
)

// Region validation kinds. These are local to a region: the region is
// hidden and the rest of the track still lays out.
var (
	ErrMissingStart  = errors.New("missing start")
	ErrMissingEnd    = errors.New("missing end")
	ErrStartAfterEnd = errors.New("start after end")
	ErrOutOfRange    = errors.New("out of range")
)

// ValidationError describes why a region was hidden.
type ValidationError struct {
	// Kind is one of ErrMissingStart, ErrMissingEnd, ErrStartAfterEnd, ErrOutOfRange.
	Kind error
	// Message is the human-readable diagnostic.
	Message string
}

func newValidationError(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap returns the validation kind so errors.Is matches it.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

// OperationError records which operation failed on which target.
type OperationError struct {
	Op     string // e.g. "set timezone"
	Target string // e.g. the rejected value
	Err    error
}

func newOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %q", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
