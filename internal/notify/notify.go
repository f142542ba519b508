// Package notify provides synchronous change notification between the
// parts of a timeline.
//
// A Notifier keeps an ordered list of observers. Regions own one to tell
// their track that bounds changed; timelines own one so that views can
// redraw. Delivery happens on the caller's goroutine, in subscription
// order, with no batching.
package notify

import (
	"sort"
	"sync"
)

// Kind identifies what changed.
type Kind int

const (
	// KindBounds indicates a region's start or end changed.
	KindBounds Kind = iota
	// KindLabel indicates a region's label changed.
	KindLabel
	// KindRange indicates the visible range changed.
	KindRange
	// KindTimezone indicates the display timezone changed.
	KindTimezone
	// KindInterval indicates the interval changed.
	KindInterval
	// KindZoom indicates the zoom factor changed.
	KindZoom
	// KindPosition indicates the playhead moved.
	KindPosition
	// KindMarkers indicates AOS/LOS markers changed.
	KindMarkers
	// KindTracks indicates a track was added or removed.
	KindTracks
	// KindRegions indicates a track's region set or layout changed.
	KindRegions
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBounds:
		return "bounds"
	case KindLabel:
		return "label"
	case KindRange:
		return "range"
	case KindTimezone:
		return "timezone"
	case KindInterval:
		return "interval"
	case KindZoom:
		return "zoom"
	case KindPosition:
		return "position"
	case KindMarkers:
		return "markers"
	case KindTracks:
		return "tracks"
	case KindRegions:
		return "regions"
	default:
		return "unknown"
	}
}

// Change describes a single mutation.
type Change struct {
	// Kind is what changed.
	Kind Kind

	// Source identifies the emitter (region or track id).
	Source string

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value (may be nil).
	NewValue any
}

// Observer is called when a change is delivered.
type Observer func(change Change)

type entry struct {
	observer Observer
	kinds    map[Kind]bool // nil means all kinds
}

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.notifier == nil {
		return
	}
	s.notifier.unsubscribe(s.id)
	s.notifier = nil
}

// Notifier manages subscriptions.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
	closed  bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		entries: make(map[uint64]entry),
	}
}

// Subscribe registers an observer for every kind of change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.subscribe(observer, nil)
}

// SubscribeKinds registers an observer for the listed kinds only.
func (n *Notifier) SubscribeKinds(observer Observer, kinds ...Kind) *Subscription {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return n.subscribe(observer, set)
}

func (n *Notifier) subscribe(observer Observer, kinds map[Kind]bool) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries[id] = entry{observer: observer, kinds: kinds}

	return &Subscription{id: id, notifier: n}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Notify delivers change to matching observers in subscription order.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}

	ids := make([]uint64, 0, len(n.entries))
	for id, e := range n.entries {
		if e.kinds == nil || e.kinds[change.Kind] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.entries[id].observer
	}
	n.mu.RUnlock()

	// Observers run outside the lock so they may subscribe or unsubscribe.
	for _, obs := range observers {
		obs(change)
	}
}

// NotifyChange is a convenience wrapper around Notify.
func (n *Notifier) NotifyChange(kind Kind, source string, oldValue, newValue any) {
	n.Notify(Change{
		Kind:     kind,
		Source:   source,
		OldValue: oldValue,
		NewValue: newValue,
	})
}

// Close drops all subscriptions and ignores further notifications.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.entries = make(map[uint64]entry)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, id)
}
