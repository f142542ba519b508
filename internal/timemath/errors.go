package timemath

import "errors"

// Errors returned by time arithmetic and range validation.
var (
	// ErrInvalidTimezone indicates the zone is not a recognized IANA identifier.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidUnit indicates an unknown unit or a unit that cannot be used as an interval.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidZoom indicates a zoom factor that is not positive.
	ErrInvalidZoom = errors.New("invalid zoom")

	// ErrInvalidInstant indicates a value that cannot be interpreted as a date/time.
	ErrInvalidInstant = errors.New("invalid instant")
)
