package timeline

// Partial classifies how a region overruns the visible range.
type Partial int

const (
	// PartialNone means the region lies inside the range.
	PartialNone Partial = iota
	// PartialStart means the region starts before the range.
	PartialStart
	// PartialEnd means the region ends after the range.
	PartialEnd
	// PartialBoth means the region overruns both sides (an ongoing region).
	PartialBoth
)

// String returns the partial state name.
func (p Partial) String() string {
	switch p {
	case PartialNone:
		return "none"
	case PartialStart:
		return "start"
	case PartialEnd:
		return "end"
	case PartialBoth:
		return "both"
	default:
		return "unknown"
	}
}

// StartClipped reports whether the region's start is cut off.
func (p Partial) StartClipped() bool { return p == PartialStart || p == PartialBoth }

// EndClipped reports whether the region's end is cut off.
func (p Partial) EndClipped() bool { return p == PartialEnd || p == PartialBoth }

// Classes returns the style class names a renderer applies for p.
func (p Partial) Classes() []string {
	classes := []string{"rux-time-region"}
	if p.StartClipped() {
		classes = append(classes, "rux-time-region--partial-start")
	}
	if p.EndClipped() {
		classes = append(classes, "rux-time-region--partial-end")
	}
	return classes
}
