// Package timeline implements the timeline/track/time-region layout engine.
//
// A Timeline owns the visible range (start, end, interval, zoom, timezone),
// an optional playhead and AOS/LOS markers, and an ordered set of Tracks.
// Each Track owns an ordered set of Regions and maps every Region's time
// bounds onto grid columns:
//
//	column = units(range.Start, effectiveBound) + 2
//
// where units counts whole timemath.ColumnUnit(interval) units and column 1
// is the track header. Regions that overrun the range are clipped for
// placement only and classified as partial (start, end or both). Regions
// that fail validation or do not overlap the range are hidden and carry a
// diagnostic; they never stop the rest of the track from laying out.
//
// Changes flow downward: Timeline setters push a new range to every Track,
// and each Track re-lays out all of its Regions. The only upward flow is
// change notification: a Region tells its owning Track that its bounds
// changed, and Tracks tell their Timeline that a layout pass finished so
// that Timeline subscribers can redraw.
//
// Everything is synchronous. There is no batching: three mutations cause
// three layout passes, in order. Layout is idempotent. The types are not
// safe for concurrent use; callers serialize access.
package timeline
