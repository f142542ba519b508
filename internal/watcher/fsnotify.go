package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/timegrid/internal/logging"
)

// Watcher watches a set of files through fsnotify.
type Watcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	logger  *logging.Logger
	deb     *Debouncer
	errors  chan error

	files map[string]bool
	dirs  map[string]int

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*options)

type options struct {
	debounce time.Duration
	buffer   int
	logger   *logging.Logger
}

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithBufferSize sets the change and error channel capacity.
func WithBufferSize(n int) Option {
	return func(o *options) { o.buffer = n }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a watcher with no files.
func New(opts ...Option) (*Watcher, error) {
	o := options{debounce: DefaultDebounce, buffer: 16, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		logger:  o.logger.WithComponent("watcher"),
		deb:     NewDebouncer(o.debounce, o.buffer),
		errors:  make(chan error, o.buffer),
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Set replaces the watched files. Every path must exist. On error the
// previous set stays in effect.
func (w *Watcher) Set(paths ...string) error {
	if len(paths) == 0 {
		return ErrNoFiles
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]int)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			if os.IsNotExist(err) {
				return &PathError{Path: abs, Err: ErrPathNotExist}
			}
			return err
		}
		if !files[abs] {
			files[abs] = true
			dirs[filepath.Dir(abs)]++
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	var added []string
	for dir := range dirs {
		if w.dirs[dir] > 0 {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			for _, d := range added {
				_ = w.watcher.Remove(d)
			}
			return &PathError{Path: dir, Err: err}
		}
		added = append(added, dir)
	}
	for dir := range w.dirs {
		if dirs[dir] == 0 {
			_ = w.watcher.Remove(dir)
		}
	}

	w.files, w.dirs = files, dirs
	w.logger.Debug("watching %d files in %d directories", len(files), len(dirs))
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Changes returns debounced changes to the watched files.
func (w *Watcher) Changes() <-chan Change {
	return w.deb.Changes()
}

// Errors returns errors reported by the underlying watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching and closes both channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	w.deb.Close()
	close(w.errors)
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	// Permission changes do not alter content.
	if op == 0 || op == OpChmod {
		return
	}

	path := filepath.Clean(ev.Name)
	w.mu.Lock()
	watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	w.logger.Debug("%s %s", op, path)
	w.deb.Add(Event{Path: path, Op: op, Timestamp: time.Now()})
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

// PathError records the path an operation failed on.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "watch " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
