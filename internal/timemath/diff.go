package timemath

import "time"

// DifferenceInUnits returns the absolute number of whole units between a
// and b, computed in UTC. An unknown unit yields 0.
func DifferenceInUnits(a, b time.Time, unit Unit) int {
	return DifferenceInUnitsIn(a, b, unit, time.UTC)
}

// DifferenceInUnitsIn is like DifferenceInUnits but evaluates calendar
// units (Day, Month) in loc. A nil loc means UTC.
func DifferenceInUnitsIn(a, b time.Time, unit Unit, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	if a.After(b) {
		a, b = b, a
	}

	switch unit {
	case Minute:
		return int(b.Sub(a) / time.Minute)
	case Hour:
		return int(b.Sub(a) / time.Hour)
	case Day:
		return diffDays(a.In(loc), b.In(loc))
	case Month:
		return diffMonths(a.In(loc), b.In(loc))
	default:
		return 0
	}
}

// diffDays counts full calendar days between a <= b in their shared location.
// A trailing partial day is not counted.
func diffDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	days := int(db.Sub(da).Hours() / 24)
	if days > 0 && clock(b) < clock(a) {
		days--
	}
	return days
}

// diffMonths counts full calendar months between a <= b.
func diffMonths(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if months > 0 && (b.Day() < a.Day() || (b.Day() == a.Day() && clock(b) < clock(a))) {
		months--
	}
	return months
}

// clock returns the wall-clock offset into the day.
func clock(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
