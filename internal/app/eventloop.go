package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/timegrid/internal/render/backend"
	"github.com/dshills/timegrid/internal/render/view"
	"github.com/dshills/timegrid/internal/timemath"
	"github.com/dshills/timegrid/internal/watcher"
)

// Zoom bounds and step for the +/- keys.
const (
	zoomStep = 0.5
	zoomMin  = 0.5
	zoomMax  = 8
)

// Run draws the timeline on b and processes input until the user quits or
// ctx is done. b is initialized and shut down by Run.
func (a *Application) Run(ctx context.Context, b backend.Backend) error {
	if a.running {
		return ErrAlreadyRunning
	}
	a.running = true
	defer func() { a.running = false }()

	if err := b.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}

	a.view = view.New(b, a.theme)
	defer func() { a.view = nil }()

	var changes <-chan watcher.Change
	var watchErrs <-chan error
	if a.config.Watch().Enabled {
		w, err := a.startWatcher()
		if err != nil {
			a.logger.Warn("%v", err)
			a.view.SetError(err)
		} else {
			defer w.Close()
			changes, watchErrs = w.Changes(), w.Errors()
			a.watcher = w
			defer func() { a.watcher = nil }()
		}
	}

	done := make(chan struct{})
	events := make(chan backend.Event)
	go pollEvents(b, events, done)
	// done closes before Shutdown so the poller exits once PollEvent returns.
	defer b.Shutdown()
	defer close(done)

	a.dirty = true
	for {
		if a.dirty {
			a.dirty = false
			a.view.Draw(a.timeline)
		}

		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if err := a.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				a.view.SetError(err)
				a.dirty = true
			}

		case ch, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			a.handleChange(ch)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			a.logger.Warn("watcher: %v", err)
			a.view.SetError(NewComponentError("watcher", "", err))
			a.dirty = true
		}
	}
}

func pollEvents(b backend.Backend, out chan<- backend.Event, done <-chan struct{}) {
	for {
		ev := b.PollEvent()
		select {
		case <-done:
			return
		default:
		}
		if ev.Type == backend.EventNone {
			continue
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

func (a *Application) startWatcher() (*watcher.Watcher, error) {
	w, err := watcher.New(
		watcher.WithDebounce(a.config.Watch().Debounce),
		watcher.WithLogger(a.logger),
	)
	if err != nil {
		return nil, NewComponentError("watcher", "start", err)
	}
	if err := w.Set(a.doc.Sources()...); err != nil {
		_ = w.Close()
		return nil, NewComponentError("watcher", "watch document", err)
	}
	return w, nil
}

func (a *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return a.HandleKey(ev)
	case backend.EventResize:
		a.dirty = true
	case backend.EventInterrupt:
		if _, ok := ev.Data.(ReloadRequest); ok {
			if err := a.Reload(); err != nil {
				return err
			}
			a.setStatus("reloaded")
		}
	}
	return nil
}

func (a *Application) handleChange(ch watcher.Change) {
	a.logger.Debug("document change %s %v", ch.Op, ch.Paths)
	if err := a.Reload(); err != nil {
		a.setError(err)
		return
	}
	if a.watcher != nil {
		if err := a.watcher.Set(a.doc.Sources()...); err != nil {
			a.logger.Warn("watcher: %v", err)
		}
	}
	a.setStatus(fmt.Sprintf("reloaded %s", filepath.Base(a.opts.DocumentPath)))
}

// HandleKey applies one key press. It returns ErrQuit for the quit keys and
// the setter's error when a view change is rejected.
func (a *Application) HandleKey(ev backend.Event) error {
	tl := a.timeline
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyLeft:
		return tl.Shift(-1)
	case backend.KeyRight:
		return tl.Shift(1)
	case backend.KeyCtrlL:
		a.dirty = true
		return nil
	case backend.KeyRune:
	default:
		return nil
	}

	switch ev.Rune {
	case 'q':
		return ErrQuit
	case 'h':
		return tl.SetInterval(timemath.Hour)
	case 'd':
		return tl.SetInterval(timemath.Day)
	case 'm':
		return tl.SetInterval(timemath.Month)
	case '+', '=':
		return tl.SetZoom(min(tl.Zoom()+zoomStep, zoomMax))
	case '-':
		return tl.SetZoom(max(tl.Zoom()-zoomStep, zoomMin))
	case 't':
		return a.cycleTimezone()
	case 'r':
		if err := a.Reload(); err != nil {
			return err
		}
		a.setStatus("reloaded")
	}
	return nil
}

// cycleTimezone moves to the next zone in the configured list. A current
// zone missing from the list moves to the first entry.
func (a *Application) cycleTimezone() error {
	zones := a.config.Timeline().Timezones
	if len(zones) == 0 {
		return nil
	}
	next := zones[0]
	for i, z := range zones {
		if z == a.timeline.Timezone() {
			next = zones[(i+1)%len(zones)]
			break
		}
	}
	if err := a.timeline.SetTimezone(next); err != nil {
		return err
	}
	a.setStatus("timezone " + next)
	return nil
}

func (a *Application) setStatus(msg string) {
	if a.view != nil {
		a.view.SetStatus(msg)
	}
	a.dirty = true
}

func (a *Application) setError(err error) {
	if a.view != nil {
		a.view.SetError(err)
	}
	a.dirty = true
}
