// Package app wires configuration, logging, the timeline document, the
// terminal view and the file watcher together.
//
// All timeline access happens on the goroutine running Run. Terminal input
// and watcher output arrive over channels and are handled one at a time.
package app

import (
	"errors"
	"io"
	"os"

	"github.com/dshills/timegrid/internal/config"
	"github.com/dshills/timegrid/internal/config/loader"
	"github.com/dshills/timegrid/internal/document"
	"github.com/dshills/timegrid/internal/logging"
	"github.com/dshills/timegrid/internal/notify"
	"github.com/dshills/timegrid/internal/render/svg"
	"github.com/dshills/timegrid/internal/render/view"
	"github.com/dshills/timegrid/internal/timeline"
	"github.com/dshills/timegrid/internal/watcher"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty uses
	// config.DefaultPath, which may not exist.
	ConfigPath string

	// DocumentPath is the timeline document to open.
	DocumentPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// Debug forces debug logging.
	Debug bool

	// Watch forces document watching on.
	Watch bool

	// Interactive discards log output unless a log file is configured, so
	// log lines do not tear the terminal view.
	Interactive bool

	// LogOutput receives log lines when no log file is configured.
	// Defaults to os.Stderr.
	LogOutput io.Writer

	// FS reads the configuration and documents. Defaults to the OS.
	FS loader.FileSystem

	// Environ supplies environment variables. Defaults to os.Environ.
	Environ func() []string
}

// Application holds the loaded document and everything that displays it.
type Application struct {
	opts    Options
	config  *config.Config
	logger  *logging.Logger
	logFile io.Closer

	docs     *document.Loader
	doc      *document.Document
	timeline *timeline.Timeline
	sub      *notify.Subscription
	dirty    bool

	theme   view.Theme
	view    *view.View
	watcher *watcher.Watcher
	running bool
}

// ReloadRequest, posted as backend interrupt data, makes Run reload the
// document.
type ReloadRequest struct{}

// New loads configuration and the document. The returned application has
// a built timeline but no backend.
func New(opts Options) (*Application, error) {
	if opts.DocumentPath == "" {
		return nil, ErrNoDocument
	}
	if opts.FS == nil {
		opts.FS = loader.OSFS{}
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a := &Application{
		opts:   opts,
		config: cfg,
		docs:   document.NewLoader(opts.FS),
	}
	if err := a.setupLogger(); err != nil {
		return nil, err
	}
	for path, cerr := range cfg.ConfigErrors() {
		a.logger.Warn("config %s: %v", path, cerr)
	}

	a.theme, err = view.NewTheme(cfg.Render())
	if err != nil {
		a.logger.Warn("%v; using %s theme", err, cfg.Render().Theme)
		a.theme = view.ThemeByName(cfg.Render().Theme)
	}

	if err := a.load(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func loadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	copts := []config.Option{config.WithFile(path), config.WithFS(opts.FS)}
	if opts.Environ != nil {
		copts = append(copts, config.WithEnviron(opts.Environ))
	}
	cfg := config.New(copts...)
	if err := cfg.Load(); err != nil {
		return nil, NewOperationError("load config", path, err)
	}

	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return nil, NewOperationError("set log level", opts.LogLevel, errors.New("must be debug, info, warn or error"))
		}
		_ = cfg.Set("logging.level", opts.LogLevel)
	}
	if opts.Debug {
		_ = cfg.Set("logging.level", "debug")
	}
	if opts.Watch {
		_ = cfg.Set("watch.enabled", true)
	}
	return cfg, nil
}

func (a *Application) setupLogger() error {
	lc := a.config.Logging()
	out := a.opts.LogOutput
	if a.opts.Interactive {
		out = io.Discard
	}
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return NewOperationError("open log file", lc.File, err)
		}
		out = f
		a.logFile = f
	}

	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(lc.Level)
	cfg.Output = out
	a.logger = logging.New(cfg)
	return nil
}

// load reads and builds the document, replacing the current timeline only
// on success. A replaced timeline keeps the interval, zoom and timezone the
// user last chose.
func (a *Application) load() error {
	path := a.opts.DocumentPath
	doc, err := a.docs.Load(path)
	if err != nil {
		return NewOperationError("load document", "", err)
	}

	tc := a.config.Timeline()
	lc := a.config.Layout()
	tl, err := doc.Build(
		document.Defaults{Interval: tc.Interval, Zoom: tc.Zoom, Timezone: tc.Timezone},
		timeline.WithLogger(a.logger.WithComponent("timeline")),
		timeline.WithHeaderWidth(lc.HeaderWidth),
		timeline.WithColumnWidths(timeline.ColumnWidths{
			Hour:  lc.HourColumnWidth,
			Day:   lc.DayColumnWidth,
			Month: lc.MonthColumnWidth,
		}),
	)
	if err != nil {
		return NewOperationError("load document", "", err)
	}

	if old := a.timeline; old != nil {
		if err := carryView(old, tl); err != nil {
			a.logger.Warn("keeping document view settings: %v", err)
		}
		a.sub.Unsubscribe()
		old.Close()
	}

	a.doc = doc
	a.timeline = tl
	a.sub = tl.Subscribe(func(notify.Change) { a.dirty = true })
	a.dirty = true

	a.logger.Info("loaded %s: %d tracks, %d hidden regions", path, len(tl.Tracks()), len(tl.Diagnostics()))
	return nil
}

func carryView(from, to *timeline.Timeline) error {
	if err := to.SetTimezone(from.Timezone()); err != nil {
		return err
	}
	if err := to.SetInterval(from.Interval()); err != nil {
		return err
	}
	return to.SetZoom(from.Zoom())
}

// Reload re-reads the document. On failure the current timeline stays.
func (a *Application) Reload() error {
	if err := a.load(); err != nil {
		a.logger.Error("%v", err)
		return err
	}
	return nil
}

// Config returns the merged configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// Timeline returns the current timeline.
func (a *Application) Timeline() *timeline.Timeline { return a.timeline }

// Document returns the current document.
func (a *Application) Document() *document.Document { return a.doc }

// Theme returns the active theme.
func (a *Application) Theme() view.Theme { return a.theme }

// ExportSVG writes the current timeline as SVG.
func (a *Application) ExportSVG(w io.Writer) error {
	if err := svg.Write(w, a.timeline, svg.OptionsFromConfig(a.config.SVG(), a.theme)); err != nil {
		return NewOperationError("export svg", a.opts.DocumentPath, err)
	}
	return nil
}

// ExportSVGFile writes the current timeline to path.
func (a *Application) ExportSVGFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return NewOperationError("export svg", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewOperationError("export svg", path, cerr)
		}
	}()
	if err := a.ExportSVG(f); err != nil {
		return err
	}
	a.logger.Info("wrote %s", path)
	return nil
}

// Close releases the timeline and the log file.
func (a *Application) Close() error {
	if a.timeline != nil {
		a.sub.Unsubscribe()
		a.timeline.Close()
	}
	if a.logFile != nil {
		err := a.logFile.Close()
		a.logFile = nil
		return err
	}
	return nil
}
