// Package backend abstracts the terminal surface the timeline view draws
// on. Terminal is backed by tcell; NullBackend keeps cells in memory for
// tests and headless rendering.
package backend

import (
	"strings"
	"sync"

	"github.com/dshills/timegrid/internal/render/core"
)

// Backend is a cell surface with an event source.
type Backend interface {
	// Init prepares the surface for drawing.
	Init() error
	// Shutdown restores the terminal.
	Shutdown()
	// Size returns the surface size in cells.
	Size() (width, height int)
	// SetCell sets one cell. Out-of-bounds writes are ignored.
	SetCell(x, y int, cell core.Cell)
	// GetCell returns one cell, or an empty cell when out of bounds.
	GetCell(x, y int) core.Cell
	// Fill sets every cell in rect.
	Fill(rect core.Rect, cell core.Cell)
	// Clear blanks the surface.
	Clear()
	// Show flushes pending changes.
	Show()
	// PollEvent blocks until the next event. It returns an EventNone
	// after Shutdown.
	PollEvent() Event
	// PostEvent queues an event for PollEvent. It never blocks.
	PostEvent(ev Event)
}

// EventType identifies an event.
type EventType uint8

// Event types.
const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// Key identifies a non-rune key.
type Key uint16

// Keys the view reacts to. KeyRune carries a printable character.
const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyCtrlC
	KeyCtrlL
)

// Event is an input or control event.
type Event struct {
	Type EventType
	Key  Key
	Rune rune

	// Width and Height are set for EventResize.
	Width, Height int

	// Data is set for EventInterrupt.
	Data any
}

// KeyEvent builds a rune key event.
func KeyEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// SpecialKeyEvent builds a non-rune key event.
func SpecialKeyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// InterruptEvent builds an interrupt carrying data.
func InterruptEvent(data any) Event {
	return Event{Type: EventInterrupt, Data: data}
}

// NullBackend is an in-memory Backend.
type NullBackend struct {
	mu     sync.Mutex
	width  int
	height int
	cells  [][]core.Cell
	shows  int
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewNullBackend creates an in-memory backend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	b.resize(width, height)
	return b
}

func (b *NullBackend) Init() error { return nil }

// Shutdown unblocks PollEvent.
func (b *NullBackend) Shutdown() {
	b.once.Do(func() { close(b.done) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y][x] = cell
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return core.EmptyCell()
	}
	return b.cells[y][x]
}

func (b *NullBackend) Fill(rect core.Rect, cell core.Cell) {
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			b.SetCell(x, y, cell)
		}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		if ev.Type == EventResize {
			b.mu.Lock()
			b.resize(ev.Width, ev.Height)
			b.mu.Unlock()
		}
		return ev
	case <-b.done:
		return Event{Type: EventNone}
	}
}

// PostEvent drops the event when the queue is full.
func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

// Resize queues a resize event; the new size applies when it is polled.
func (b *NullBackend) Resize(width, height int) {
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (b *NullBackend) resize(width, height int) {
	b.width, b.height = max(0, width), max(0, height)
	b.cells = make([][]core.Cell, b.height)
	for y := range b.cells {
		row := make([]core.Cell, b.width)
		for x := range row {
			row[x] = core.EmptyCell()
		}
		b.cells[y] = row
	}
}

// Row returns the runes of row y as a string. Zero runes, used as the
// trailing half of wide characters, are skipped.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		if c.Rune != 0 {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

// Lines returns every row with trailing spaces trimmed.
func (b *NullBackend) Lines() []string {
	_, h := b.Size()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = strings.TrimRight(b.Row(y), " ")
	}
	return lines
}
