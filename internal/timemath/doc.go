// Package timemath provides the date/time arithmetic used by the timeline
// layout engine.
//
// All functions are pure. Instants are plain time.Time values; zoned
// instants are time.Time values carrying the requested *time.Location.
//
// # Units
//
// A timeline is configured with an interval (Hour, Day or Month). Each
// interval has a finer column unit used to place regions on the grid:
//
//	Hour  -> Minute columns
//	Day   -> Hour columns
//	Month -> Day columns
//
// The same column unit sizes the grid and positions regions, so a track
// never mixes granularities.
//
// # Differences
//
// DifferenceInUnits counts whole units between two instants in UTC.
// DifferenceInUnitsIn does the same for calendar units (Day, Month) in a
// specific zone. Minute and Hour differences are always elapsed time.
package timemath
