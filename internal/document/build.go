package document

import (
	"fmt"

	"github.com/dshills/timegrid/internal/timeline"
	"github.com/dshills/timegrid/internal/timemath"
)

// Defaults fill timeline fields a document leaves unset.
type Defaults struct {
	Interval string
	Zoom     float64
	Timezone string
}

// Build creates a laid-out Timeline from the document. Regions that fail
// validation are kept and hidden with a diagnostic; regions whose bounds
// cannot be parsed fail the build.
func (d *Document) Build(def Defaults, opts ...timeline.Option) (*timeline.Timeline, error) {
	rng, err := d.rangeSpec(def)
	if err != nil {
		return nil, d.wrap(err)
	}

	tl, err := timeline.New(rng, opts...)
	if err != nil {
		return nil, d.wrap(err)
	}

	hdr := d.Timeline
	if err := tl.SetPosition(hdr.Position); err != nil {
		return nil, d.wrap(err)
	}
	if err := tl.SetAOS(hdr.AOS); err != nil {
		return nil, d.wrap(err)
	}
	if err := tl.SetLOS(hdr.LOS); err != nil {
		return nil, d.wrap(err)
	}

	for i, ts := range d.Tracks {
		label := ts.Label
		if label == "" {
			label = fmt.Sprintf("Track %d", i+1)
		}

		// Regions go on before the track joins the timeline so that the
		// first range assignment lays them all out in one pass.
		tr := timeline.NewTrack(label, timeline.WithTrackID(ts.ID))
		for j, rs := range ts.Regions {
			r, err := timeline.NewRegion(rs.Start, rs.End, rs.Label, timeline.WithRegionID(rs.ID))
			if err != nil {
				return nil, d.wrap(fmt.Errorf("track %q region %d: %w", label, j+1, err))
			}
			if err := tr.Add(r); err != nil {
				return nil, d.wrap(err)
			}
		}
		if err := tl.AddTrack(tr); err != nil {
			return nil, d.wrap(err)
		}
	}
	return tl, nil
}

func (d *Document) rangeSpec(def Defaults) (timemath.Range, error) {
	hdr := d.Timeline

	start, ok, err := timemath.ParseInstant(hdr.Start)
	if err != nil {
		return timemath.Range{}, fmt.Errorf("timeline start: %w", err)
	}
	if !ok {
		return timemath.Range{}, ErrNoRange
	}
	end, ok, err := timemath.ParseInstant(hdr.End)
	if err != nil {
		return timemath.Range{}, fmt.Errorf("timeline end: %w", err)
	}
	if !ok {
		return timemath.Range{}, ErrNoRange
	}

	intervalName := firstNonEmpty(hdr.Interval, def.Interval, timemath.Hour.String())
	interval, err := timemath.ParseUnit(intervalName)
	if err != nil {
		return timemath.Range{}, fmt.Errorf("timeline interval: %w", err)
	}

	zoom := hdr.Zoom
	if zoom == 0 {
		zoom = def.Zoom
	}
	if zoom == 0 {
		zoom = 1
	}

	return timemath.Range{
		Start:    start,
		End:      end,
		Interval: interval,
		Zoom:     zoom,
		Timezone: firstNonEmpty(hdr.Timezone, def.Timezone),
	}, nil
}

func (d *Document) wrap(err error) error {
	if d.Path == "" {
		return err
	}
	return fmt.Errorf("%s: %w", d.Path, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
