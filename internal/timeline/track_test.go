package timeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/timegrid/internal/logging"
	"github.com/dshills/timegrid/internal/timemath"
)

func TestTrack_FirstSetRangeLaysOut(t *testing.T) {
	tr := NewTrack("standalone")
	r := MustNewRegion("2021-02-01T01:00Z", "2021-02-01T04:00Z", "pass")
	require.NoError(t, tr.Add(r))

	// No range yet: the region is not placed.
	require.Equal(t, 1, tr.Passes())
	require.False(t, r.Visible())
	require.Equal(t, 0, tr.Columns())
	require.Equal(t, 0, tr.ColumnWidth())

	require.NoError(t, tr.SetRange(passRange()))
	require.Equal(t, 2, tr.Passes())
	require.True(t, r.Visible())

	require.NoError(t, tr.SetRange(passRange()))
	require.Equal(t, 2, tr.Passes())

	bad := passRange()
	bad.Start, bad.End = bad.End, bad.Start
	require.ErrorIs(t, tr.SetRange(bad), ErrInvalidRange)
	require.Equal(t, 2, tr.Passes())
	rng, ok := tr.Range()
	require.True(t, ok)
	require.True(t, rng.Equal(passRange()))
}

func TestTrack_LayoutIdempotent(t *testing.T) {
	_, tr := newPassTimeline(t)
	regions := []*Region{
		addRegion(t, tr, "2021-02-01T01:00Z", "2021-02-01T04:00Z", "a"),
		addRegion(t, tr, "2021-01-30T00:00Z", "2021-02-12T00:00Z", "b"),
		addRegion(t, tr, "2021-01-20T00:00Z", "2021-01-21T00:00Z", "c"),
	}

	snapshot := func() []Placement {
		out := make([]Placement, len(regions))
		for i, r := range regions {
			out[i] = r.Placement()
		}
		return out
	}

	tr.Layout()
	first := snapshot()
	tr.Layout()
	require.Equal(t, first, snapshot())
}

func TestTrack_ClippingKeepsStoredBounds(t *testing.T) {
	_, tr := newPassTimeline(t)
	r := addRegion(t, tr, "2021-01-30T00:00Z", "2021-02-12T00:00Z", "ongoing")

	require.Equal(t, PartialBoth, r.Partial())
	require.Equal(t, 2, r.Placement().ColumnStart)
	require.Equal(t, 6482, r.Placement().ColumnEnd)
	require.Equal(t, 6480, r.Placement().Span())
	require.Equal(t, at("2021-01-30T00:00:00Z"), r.Start())
	require.Equal(t, at("2021-02-12T00:00:00Z"), r.End())
}

func TestTrack_RegionEditsRelayout(t *testing.T) {
	_, tr := newPassTimeline(t)
	r := addRegion(t, tr, "2021-02-01T01:00Z", "2021-02-01T04:00Z", "pass")
	passes := tr.Passes()

	// Out of range hides it.
	require.NoError(t, r.SetBounds("2021-03-01T00:00Z", "2021-03-02T00:00Z"))
	require.Equal(t, passes+1, tr.Passes())
	require.False(t, r.Visible())
	require.ErrorIs(t, r.Diagnostic(), ErrOutOfRange)
	require.Equal(t, Placement{}, r.Placement())

	// Editing it back makes it reappear.
	require.NoError(t, r.SetBounds("2021-02-02T00:00Z", "2021-02-02T01:00Z"))
	require.Equal(t, passes+2, tr.Passes())
	require.True(t, r.Visible())
	require.NoError(t, r.Diagnostic())
	require.Empty(t, tr.Diagnostics())

	// Unchanged bounds do not lay out.
	require.NoError(t, r.SetStart("2021-02-02T00:00Z"))
	require.Equal(t, passes+2, tr.Passes())

	// Label edits never lay out.
	r.SetLabel("renamed")
	require.Equal(t, passes+2, tr.Passes())
}

func TestTrack_OneBadRegionDoesNotBlockOthers(t *testing.T) {
	_, tr := newPassTimeline(t)
	good1 := addRegion(t, tr, "2021-02-01T01:00Z", "2021-02-01T04:00Z", "good1")
	bad := addRegion(t, tr, nil, "2021-02-01T04:00Z", "bad")
	good2 := addRegion(t, tr, "2021-02-02T00:00Z", "2021-02-02T02:00Z", "good2")

	require.True(t, good1.Visible())
	require.False(t, bad.Visible())
	require.True(t, good2.Visible())

	diags := tr.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, bad.ID(), diags[0].RegionID)
	require.ErrorIs(t, diags[0].Err, ErrMissingStart)
	require.Contains(t, diags[0].String(), "bad")
}

func TestTrack_OverlappingRegionsShareRow(t *testing.T) {
	_, tr := newPassTimeline(t)
	a := addRegion(t, tr, "2021-02-01T01:00Z", "2021-02-01T04:00Z", "a")
	b := addRegion(t, tr, "2021-02-01T02:00Z", "2021-02-01T05:00Z", "b")

	require.Equal(t, 1, a.Placement().Row)
	require.Equal(t, 1, b.Placement().Row)
	require.Less(t, b.Placement().ColumnStart, a.Placement().ColumnEnd)
}

func TestTrack_AddRemove(t *testing.T) {
	_, tr := newPassTimeline(t)
	r := MustNewRegion("2021-02-01T01:00Z", "2021-02-01T04:00Z", "pass", WithRegionID("r1"))
	passes := tr.Passes()

	require.NoError(t, tr.Add(r))
	require.Equal(t, passes+1, tr.Passes())
	require.Same(t, tr, r.Track())
	require.Equal(t, 1, tr.Len())

	// Adding again is a no-op.
	require.NoError(t, tr.Add(r))
	require.Equal(t, passes+1, tr.Passes())
	require.Equal(t, 1, tr.Len())

	got, err := tr.Region("r1")
	require.NoError(t, err)
	require.Same(t, r, got)
	_, err = tr.Region("r2")
	require.ErrorIs(t, err, ErrRegionNotFound)

	require.ErrorIs(t, tr.Add(nil), ErrInvalidRegion)

	require.True(t, tr.Remove(r))
	require.Equal(t, passes+2, tr.Passes())
	require.Nil(t, r.Track())
	require.False(t, r.Visible())
	require.False(t, tr.Remove(r))

	// A detached region's edits no longer reach the track.
	require.NoError(t, r.SetEnd("2021-02-01T06:00Z"))
	require.Equal(t, passes+2, tr.Passes())

	require.NoError(t, tr.Add(r))
	require.NoError(t, tr.RemoveID("r1"))
	require.ErrorIs(t, tr.RemoveID("r1"), ErrRegionNotFound)
}

func TestTrack_Reparent(t *testing.T) {
	tl, a := newPassTimeline(t)
	b := tl.NewTrack("Track 2")
	r := addRegion(t, a, "2021-02-01T01:00Z", "2021-02-01T04:00Z", "pass")
	aPasses, bPasses := a.Passes(), b.Passes()

	require.NoError(t, b.Add(r))
	require.Same(t, b, r.Track())
	require.Empty(t, a.Regions())
	require.Equal(t, []*Region{r}, b.Regions())
	require.Equal(t, aPasses+1, a.Passes())
	require.Equal(t, bPasses+1, b.Passes())
	require.True(t, r.Visible())

	// Only the new owner listens.
	require.NoError(t, r.SetEnd("2021-02-01T05:00Z"))
	require.Equal(t, aPasses+1, a.Passes())
	require.Equal(t, bPasses+2, b.Passes())
}

func TestTrack_Geometry(t *testing.T) {
	tr := NewTrack("geo", WithTrackColumnWidths(ColumnWidths{Hour: 3}))
	require.NoError(t, tr.SetRange(passRange()))

	require.Equal(t, 6480, tr.Columns())
	require.Equal(t, 3, tr.ColumnWidth())
	require.Equal(t, DefaultHeaderWidth, tr.HeaderWidth())
	require.Equal(t, "[header] 200px repeat(6480, 3px)", tr.Template())

	require.Equal(t, 2, tr.Column(at("2021-01-01T00:00Z")))
	require.Equal(t, 62, tr.Column(at("2021-02-01T01:00Z")))
	require.Equal(t, 6482, tr.Column(at("2021-03-01T00:00Z")))

	month := passRange()
	month.Interval = timemath.Month
	month.Zoom = 0.01
	require.NoError(t, tr.SetRange(month))
	require.Equal(t, 4, tr.Columns())
	require.Equal(t, 1, tr.ColumnWidth())
}

func TestColumnWidths_For(t *testing.T) {
	w := ColumnWidths{Day: 10}
	require.Equal(t, 2, w.For(timemath.Hour))
	require.Equal(t, 10, w.For(timemath.Day))
	require.Equal(t, 40, w.For(timemath.Month))
	require.Equal(t, 1, w.For(timemath.Minute))
}

func TestTrack_StandaloneLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})
	tr := NewTrack("solo", WithTrackLogger(logger), WithTrackID("solo-1"))
	require.Equal(t, "solo-1", tr.ID())
	require.NoError(t, tr.SetRange(passRange()))

	r := MustNewRegion("2021-02-01T04:00Z", nil, "open")
	require.NoError(t, tr.Add(r))
	require.Equal(t, 1, strings.Count(buf.String(), "must have an end date"))

	// A different failure logs again.
	require.NoError(t, r.SetBounds("2021-02-02T00:00Z", "2021-02-01T00:00Z"))
	require.Contains(t, buf.String(), "must be before the end date")

	tr.SetLabel("renamed")
	require.Equal(t, "renamed", tr.Label())
}
