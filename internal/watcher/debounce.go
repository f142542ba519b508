package watcher

import (
	"sort"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer coalesces events into Changes. Each Add restarts the quiet
// period; when it elapses every pending path is delivered as one Change.
type Debouncer struct {
	delay time.Duration
	out   chan Change

	mu      sync.Mutex
	pending map[string]Op
	last    time.Time
	timer   *time.Timer
	closed  bool
}

// NewDebouncer creates a debouncer. A delay <= 0 selects DefaultDebounce.
func NewDebouncer(delay time.Duration, buffer int) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if buffer <= 0 {
		buffer = 16
	}
	return &Debouncer{
		delay:   delay,
		out:     make(chan Change, buffer),
		pending: make(map[string]Op),
	}
}

// Changes returns the debounced output.
func (d *Debouncer) Changes() <-chan Change {
	return d.out
}

// Add records ev and restarts the quiet period.
func (d *Debouncer) Add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.pending[ev.Path] |= ev.Op
	if ev.Timestamp.After(d.last) {
		d.last = ev.Timestamp
	}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.Flush)
		return
	}
	d.timer.Reset(d.delay)
}

// Pending returns the number of paths waiting to be delivered.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush delivers pending paths now. A full output channel drops the batch.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.closed || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	change := Change{At: d.last}
	for path, op := range d.pending {
		change.Paths = append(change.Paths, path)
		change.Op |= op
	}
	sort.Strings(change.Paths)
	d.pending = make(map[string]Op)
	d.last = time.Time{}

	select {
	case d.out <- change:
	default:
	}
	d.mu.Unlock()
}

// Close discards pending events and closes the output channel.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	close(d.out)
}
