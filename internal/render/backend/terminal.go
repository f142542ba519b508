package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/timegrid/internal/render/core"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend on the process's tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Init()
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// SetCell skips zero runes; tcell lays out the trailing half of wide
// characters itself.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.Rune == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck
	return core.Cell{Rune: r, Style: convertTcellStyle(style)}
}

func (t *Terminal) Fill(rect core.Rect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	style := convertStyle(cell.Style)
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// PollEvent blocks on the screen's queue. tcell returns nil after Fini.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

func (t *Terminal) PostEvent(ev Event) {
	var tev tcell.Event
	switch ev.Type {
	case EventKey:
		tev = tcell.NewEventKey(convertToTcellKey(ev.Key), ev.Rune, tcell.ModNone)
	case EventInterrupt:
		tev = tcell.NewEventInterrupt(ev.Data)
	default:
		return
	}
	_ = t.screen.PostEvent(tev) // full queue drops the event
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.Default {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.Default {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()
	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	if attrs&tcell.AttrBold != 0 {
		s.Attributes |= core.AttrBold
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attributes |= core.AttrDim
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attributes |= core.AttrReverse
	}
	return s
}

func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return core.ColorDefault
	}
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k := convertKey(e.Key())
		if k == KeyNone {
			return Event{Type: EventNone}
		}
		out := Event{Type: EventKey, Key: k}
		if k == KeyRune {
			out.Rune = e.Rune()
		}
		return out
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}
	default:
		return Event{Type: EventNone}
	}
}

var keyMap = map[tcell.Key]Key{
	tcell.KeyRune:   KeyRune,
	tcell.KeyEscape: KeyEscape,
	tcell.KeyEnter:  KeyEnter,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyHome:   KeyHome,
	tcell.KeyCtrlC:  KeyCtrlC,
	tcell.KeyCtrlL:  KeyCtrlL,
}

func convertKey(k tcell.Key) Key {
	return keyMap[k]
}

func convertToTcellKey(k Key) tcell.Key {
	for tk, ok := range keyMap {
		if ok == k {
			return tk
		}
	}
	return tcell.KeyNUL
}
