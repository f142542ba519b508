package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/timegrid/internal/config"
	"github.com/dshills/timegrid/internal/render/view"
	"github.com/dshills/timegrid/internal/timeline"
	"github.com/dshills/timegrid/internal/timemath"
)

func sampleTimeline(t *testing.T) *timeline.Timeline {
	t.Helper()
	tl, err := timeline.New(timemath.Range{
		Start:    timemath.MustParseInstant("2021-02-01T00:00:00Z"),
		End:      timemath.MustParseInstant("2021-02-05T12:00:00Z"),
		Interval: timemath.Hour,
		Zoom:     1,
		Timezone: "UTC",
	})
	require.NoError(t, err)

	tr := tl.NewTrack("R&D <1>", timeline.WithTrackID("rd"))
	for _, r := range []struct{ id, start, end, label string }{
		{"ab", "2021-02-01T04:00Z", "2021-02-01T07:00Z", "AB"},
		{"early", "2021-01-31T20:00Z", "2021-02-01T03:00Z", "EARLY"},
		{"ghost", "2021-03-01T00:00Z", "2021-03-02T00:00Z", "GHOST"},
	} {
		region, err := timeline.NewRegion(r.start, r.end, r.label, timeline.WithRegionID(r.id))
		require.NoError(t, err)
		require.NoError(t, tr.Add(region))
	}
	tl.NewTrack("Empty")
	return tl
}

func requireWellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestRender(t *testing.T) {
	tl := sampleTimeline(t)
	require.NoError(t, tl.SetPosition("2021-02-01T06:00Z"))

	doc := Render(tl, DefaultOptions())
	requireWellFormed(t, doc)

	// 200px header plus 6480 minute columns at 2px scaled by a quarter.
	require.Contains(t, doc, `<svg width="3440" height="110"`)
	require.Contains(t, doc, `data-template="[header] 200px repeat(6480, 2px)"`)
	require.Contains(t, doc, `<text x="8" y="54">R&amp;D &lt;1&gt;</text>`)

	require.Contains(t, doc, `<g class="rux-time-region" data-region-id="ab" data-partial="none" data-grid-column="242 / 422">`)
	require.Contains(t, doc, `<rect x="320" y="36" width="90" height="28" rx="3"/>`)
	require.Contains(t, doc, `<title>AB (04:00 - 07:00)</title>`)
	require.Contains(t, doc, `<text x="324" y="54">AB</text>`)

	require.Contains(t, doc, `<g class="rux-time-region rux-time-region--partial-start" data-region-id="early" data-partial="start"`)
	require.NotContains(t, doc, "GHOST")

	require.Contains(t, doc, `<line class="marker marker-position" x1="380" y1="0" x2="380" y2="110"`)
	require.Equal(t, 1, strings.Count(doc, `class="marker `))
	require.Contains(t, doc, `<text class="ruler-text" x="202" y="19.5">00:00</text>`)
}

func TestRender_LabelOmittedWhenNarrow(t *testing.T) {
	tl := sampleTimeline(t)
	tr := tl.Tracks()[1]
	r, err := timeline.NewRegion("2021-02-02T00:00Z", "2021-02-02T00:10Z", "A very long label", timeline.WithRegionID("narrow"))
	require.NoError(t, err)
	require.NoError(t, tr.Add(r))

	doc := Render(tl, DefaultOptions())
	require.Contains(t, doc, `<title>A very long label (00:00 - 00:10)</title>`)
	require.NotContains(t, doc, `>A very long label</text>`)
}

func TestRender_Day(t *testing.T) {
	tl := sampleTimeline(t)
	require.NoError(t, tl.SetInterval(timemath.Day))

	opts := DefaultOptions()
	opts.Scale = 1
	doc := Render(tl, opts)
	requireWellFormed(t, doc)

	// 108 hour columns at 60px.
	require.Contains(t, doc, `<svg width="6680"`)
	require.Contains(t, doc, `>02/01</text>`)
}

func TestWrite(t *testing.T) {
	tl := sampleTimeline(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tl, DefaultOptions()))
	require.Equal(t, Render(tl, DefaultOptions()), buf.String())
}

func TestOptionsFromConfig(t *testing.T) {
	theme := view.ThemeByName("light")
	opts := OptionsFromConfig(config.SVGConfig{RowHeight: 24, Scale: 0.5, FontFamily: "Inter"}, theme)

	require.Equal(t, 24, opts.RowHeight)
	require.Equal(t, 30, opts.RulerHeight)
	require.Equal(t, 0.5, opts.Scale)
	require.Equal(t, "Inter", opts.FontFamily)
	require.Equal(t, 12, opts.FontSize)
	require.Equal(t, "light", opts.Theme.Name)
}

func TestEscapeXML(t *testing.T) {
	require.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", escapeXML(`a & b <c> "d" 'e'`))
}
