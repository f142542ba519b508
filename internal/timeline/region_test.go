package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dshills/timegrid/internal/timemath"
)

func TestNewRegion(t *testing.T) {
	r, err := NewRegion("2021-02-01T01:00Z", time.Date(2021, 2, 1, 4, 0, 0, 0, time.UTC), "pass")
	require.NoError(t, err)
	require.NotEmpty(t, r.ID())
	require.Equal(t, "pass", r.Label())
	require.Equal(t, at("2021-02-01T01:00:00Z"), r.Start())
	require.Equal(t, at("2021-02-01T04:00:00Z"), r.End())
	require.Nil(t, r.Track())
	require.False(t, r.Visible())

	withID := MustNewRegion(nil, nil, "empty", WithRegionID("r-1"))
	require.Equal(t, "r-1", withID.ID())
	require.True(t, withID.Start().IsZero())
	require.Equal(t, "", withID.TimeLabel())

	_, err = NewRegion("yesterday", "2021-02-01T04:00Z", "bad")
	require.ErrorIs(t, err, ErrInvalidRegion)
	require.ErrorIs(t, err, timemath.ErrInvalidInstant)

	_, err = NewRegion("2021-02-01T04:00Z", "2021-13-45", "bad")
	require.ErrorIs(t, err, ErrInvalidRegion)

	require.Panics(t, func() { MustNewRegion("nope", nil, "") })
}

func TestRegion_Classify(t *testing.T) {
	rng := passRange()

	tests := []struct {
		name    string
		start   string
		end     string
		want    Partial
		visible bool
	}{
		{"inside", "2021-02-01T01:00Z", "2021-02-01T04:00Z", PartialNone, true},
		{"exact bounds", "2021-02-01T00:00Z", "2021-02-05T12:00Z", PartialNone, true},
		{"start overrun", "2021-01-30T00:00Z", "2021-02-02T00:00Z", PartialStart, true},
		{"start overrun ending on end", "2021-01-30T00:00Z", "2021-02-05T12:00Z", PartialStart, true},
		{"end overrun", "2021-02-01T00:00Z", "2021-02-12T00:00Z", PartialEnd, true},
		{"both", "2021-01-30T00:00Z", "2021-02-12T00:00Z", PartialBoth, true},
		{"touches start", "2021-01-30T00:00Z", "2021-02-01T00:00Z", PartialStart, true},
		{"before", "2021-01-20T00:00Z", "2021-01-25T00:00Z", PartialNone, false},
		{"after", "2021-02-06T00:00Z", "2021-02-07T00:00Z", PartialNone, false},
		{"reversed", "2021-02-03T00:00Z", "2021-02-02T00:00Z", PartialNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MustNewRegion(tt.start, tt.end, tt.name)
			got, visible := r.Classify(rng)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.visible, visible)
		})
	}

	_, visible := MustNewRegion(nil, "2021-02-02T00:00Z", "").Classify(rng)
	require.False(t, visible)
}

func TestRegion_ClassifyNoneIffContained(t *testing.T) {
	rng := passRange()
	offsets := []time.Duration{-48 * time.Hour, -time.Minute, 0, time.Minute, 36 * time.Hour}

	for _, so := range offsets {
		for _, eo := range offsets {
			start := rng.Start.Add(so)
			end := rng.End.Add(eo)
			if start.After(end) {
				continue
			}
			got, visible := MustNewRegion(start, end, "").Classify(rng)
			require.True(t, visible)

			contained := !start.Before(rng.Start) && !end.After(rng.End)
			require.Equal(t, contained, got == PartialNone, "start %s end %s", start, end)
		}
	}
}

func TestRegion_Setters(t *testing.T) {
	r := MustNewRegion("2021-02-01T01:00Z", "2021-02-01T04:00Z", "pass")

	require.NoError(t, r.SetStart("2021-02-01T02:00Z"))
	require.Equal(t, at("2021-02-01T02:00:00Z"), r.Start())

	require.NoError(t, r.SetEnd(int64(1612155600000)))
	require.Equal(t, at("2021-02-01T05:00:00Z"), r.End())

	err := r.SetBounds("2021-02-01T00:00Z", "not a date")
	require.ErrorIs(t, err, ErrInvalidRegion)
	require.Equal(t, at("2021-02-01T02:00:00Z"), r.Start())

	require.NoError(t, r.SetBounds(nil, nil))
	require.True(t, r.Start().IsZero())
	require.True(t, r.End().IsZero())

	r.SetLabel("renamed")
	require.Equal(t, "renamed", r.Label())
	require.Contains(t, r.String(), "<missing>")
}

func TestPartial(t *testing.T) {
	require.Equal(t, "none", PartialNone.String())
	require.Equal(t, "start", PartialStart.String())
	require.Equal(t, "end", PartialEnd.String())
	require.Equal(t, "both", PartialBoth.String())
	require.Equal(t, "unknown", Partial(9).String())

	require.Equal(t, []string{"rux-time-region"}, PartialNone.Classes())
	require.Equal(t, []string{"rux-time-region", "rux-time-region--partial-start"}, PartialStart.Classes())
	require.Equal(t, []string{"rux-time-region", "rux-time-region--partial-end"}, PartialEnd.Classes())
	require.Equal(t, []string{
		"rux-time-region",
		"rux-time-region--partial-start",
		"rux-time-region--partial-end",
	}, PartialBoth.Classes())
}

func TestValidateRegion(t *testing.T) {
	rng := passRange()

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		kind    error
		message string
	}{
		{"valid", at("2021-02-01T01:00Z"), at("2021-02-01T04:00Z"), nil, ""},
		{"missing start", time.Time{}, at("2021-02-01T04:00Z"), ErrMissingStart, "Time Region must have a start date provided"},
		{"missing end", at("2021-02-01T04:00Z"), time.Time{}, ErrMissingEnd, "Time Region must have an end date provided"},
		{
			"start after end", at("2021-02-02T00:00Z"), at("2021-02-01T00:00Z"), ErrStartAfterEnd,
			"The Time Region start date must be before the end date: 2021-02-02T00:00:00Z - 2021-02-01T00:00:00Z",
		},
		{
			"start after range", at("2021-02-06T00:00Z"), at("2021-02-07T00:00Z"), ErrOutOfRange,
			"The Time Region start date does not fall within the Timeline's range: " +
				"2021-02-06T00:00:00Z - 2021-02-01T00:00:00Z/2021-02-05T12:00:00Z",
		},
		{"end before range", at("2021-01-20T00:00Z"), at("2021-01-21T00:00Z"), ErrOutOfRange, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegion(tt.start, tt.end, rng)
			if tt.kind == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.kind)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			if tt.message != "" {
				require.Equal(t, tt.message, verr.Error())
			}
		})
	}
}

func TestOperationError(t *testing.T) {
	err := newOperationError("set timezone", "Mars", ErrInvalidTimezone)
	require.Equal(t, `set timezone "Mars": invalid timezone`, err.Error())
	require.ErrorIs(t, err, ErrInvalidTimezone)

	bare := newOperationError("new timeline", "", nil)
	require.Equal(t, "new timeline", bare.Error())

	var nilErr *OperationError
	require.Equal(t, "", nilErr.Error())
	require.NoError(t, nilErr.Unwrap())
}
