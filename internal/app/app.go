// Package app wires the eventgate components into a runnable demo host:
// configuration, logging, the dispatcher with its strategies and hooks, a
// demo panel, click detection, tracing and the input producers.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/eventgate/internal/backend"
	"github.com/dshills/eventgate/internal/click"
	"github.com/dshills/eventgate/internal/config"
	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/logging"
	"github.com/dshills/eventgate/internal/panel"
	"github.com/dshills/eventgate/internal/strategy/script"
	"github.com/dshills/eventgate/internal/trace"
)

// transcriptLimit bounds the demo transcript kept for display.
const transcriptLimit = 200

// Options configures the application. Non-zero fields override the
// config file and environment.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file.
	ConfigPath string

	// LogLevel overrides log.level.
	LogLevel string

	// Trace enables the dispatch trace.
	Trace bool

	// TracePath receives trace lines as they are recorded.
	TracePath string

	// Script is a Lua strategy file.
	Script string

	// Width and Height size the demo panel. Zero means 80x24.
	Width, Height int

	// Output receives the demo transcript. Nil keeps it in memory only.
	Output io.Writer

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Watch reloads the log level when the config file changes.
	Watch bool
}

// Application is the demo host.
type Application struct {
	opts     Options
	settings *config.Settings
	logger   *logging.Logger

	d        *dispatcher.Dispatcher
	panel    *panel.Panel
	demo     *demo
	clicks   *click.Detector
	recorder *trace.Recorder
	script   *script.Strategy
	terminal *backend.Terminal
	gio      *backend.Gio
	watcher  *config.Watcher

	traceFile  *os.File
	transcript []string
	closed     bool
}

// New creates and bootstraps an application.
func New(opts Options) (*Application, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 80, 24
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Settings returns the effective settings.
func (app *Application) Settings() *config.Settings { return app.settings }

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.logger }

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher { return app.d }

// Panel returns the demo panel.
func (app *Application) Panel() *panel.Panel { return app.panel }

// Recorder returns the trace recorder, or nil when tracing is off.
func (app *Application) Recorder() *trace.Recorder { return app.recorder }

// Terminal returns the tcell producer.
func (app *Application) Terminal() *backend.Terminal { return app.terminal }

// Gio returns the gio pointer producer.
func (app *Application) Gio() *backend.Gio { return app.gio }

// Transcript returns the most recent demo lines.
func (app *Application) Transcript() []string {
	out := make([]string, len(app.transcript))
	copy(out, app.transcript)
	return out
}

// note appends a line to the transcript and copies it to Output.
func (app *Application) note(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	app.transcript = append(app.transcript, line)
	if n := len(app.transcript) - transcriptLimit; n > 0 {
		app.transcript = append(app.transcript[:0], app.transcript[n:]...)
	}
	if app.opts.Output != nil {
		fmt.Fprintln(app.opts.Output, line)
	}
}

// Shutdown stops the watcher, closes the script and flushes the trace.
// It is safe to call more than once.
func (app *Application) Shutdown() {
	if app.closed {
		return
	}
	app.closed = true

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("closing config watcher: %v", err)
		}
	}
	if app.script != nil {
		app.script.Close()
	}
	if app.recorder != nil && app.recorder.Err() != nil {
		app.logger.Warn("trace: %v", app.recorder.Err())
	}
	if app.traceFile != nil {
		if err := app.traceFile.Close(); err != nil {
			app.logger.Warn("closing trace file: %v", err)
		}
	}
	if app.settings.Dispatcher.Metrics {
		if m := app.d.Metrics(); m != nil {
			s := m.Snapshot()
			app.logger.Info("dispatched %d events (%d queued, %d immediate, %d errors), max queue %d, max depth %d",
				s.TotalProcessed, s.Queued, s.Immediate, s.TotalErrors, s.MaxQueueLen, s.MaxDrainDepth)
		}
	}
}
