package timemath

import "time"

// Bucket is one ruler label.
type Bucket struct {
	// At is the bucket instant in the range's zone.
	At time.Time
	// Label is the formatted label. Empty for Month buckets, which callers
	// format themselves.
	Label string
}

// FormatAxisLabel formats a zoned instant for the ruler.
// Hour and Minute use HH:mm, Day uses MM/dd, Month returns "".
func FormatAxisLabel(t time.Time, unit Unit) string {
	switch unit {
	case Minute, Hour:
		return t.Format("15:04")
	case Day:
		return t.Format("01/02")
	default:
		return ""
	}
}

// GenerateAxisBuckets returns floor(diff/step)+1 ruler buckets for the
// range, where diff is DifferenceInUnits(rng.End, rng.Start, unit). Bucket i
// sits at Start + i*step units, expressed in the range's zone.
//
// A step below 1 is treated as 1. An unknown unit yields a single fallback
// bucket at Start labelled in RFC 3339.
func GenerateAxisBuckets(rng Range, unit Unit, step int) []Bucket {
	if step < 1 {
		step = 1
	}
	loc := rng.Location()
	start := rng.Start.In(loc)

	switch unit {
	case Minute, Hour, Day, Month:
	default:
		return []Bucket{{At: start, Label: start.Format(time.RFC3339)}}
	}

	n := DifferenceInUnits(rng.End, rng.Start, unit)/step + 1
	buckets := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		at := Add(start, unit, i*step)
		buckets = append(buckets, Bucket{At: at, Label: FormatAxisLabel(at, unit)})
	}
	return buckets
}
