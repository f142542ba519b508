package timeline

import (
	"time"

	"github.com/dshills/timegrid/internal/timemath"
)

// ValidateRegion checks region bounds against a track range. A zero start or
// end is missing. The returned error is a *ValidationError whose Kind is
// one of ErrMissingStart, ErrMissingEnd, ErrStartAfterEnd or ErrOutOfRange.
//
// A region whose end falls before the range is also out of range: it has no
// columns to occupy.
func ValidateRegion(start, end time.Time, rng timemath.Range) error {
	if start.IsZero() {
		return newValidationError(ErrMissingStart, "Time Region must have a start date provided")
	}
	if end.IsZero() {
		return newValidationError(ErrMissingEnd, "Time Region must have an end date provided")
	}
	if start.After(end) {
		return newValidationError(ErrStartAfterEnd,
			"The Time Region start date must be before the end date: %s - %s",
			stamp(start), stamp(end))
	}
	if start.After(rng.End) {
		return newValidationError(ErrOutOfRange,
			"The Time Region start date does not fall within the Timeline's range: %s - %s/%s",
			stamp(start), stamp(rng.Start), stamp(rng.End))
	}
	if end.Before(rng.Start) {
		return newValidationError(ErrOutOfRange,
			"The Time Region end date does not fall within the Timeline's range: %s - %s/%s",
			stamp(end), stamp(rng.Start), stamp(rng.End))
	}
	return nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
