package app

import (
	"os"

	"github.com/dshills/eventgate/internal/backend"
	"github.com/dshills/eventgate/internal/click"
	"github.com/dshills/eventgate/internal/config"
	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/dispatcher/hook"
	"github.com/dshills/eventgate/internal/logging"
	"github.com/dshills/eventgate/internal/strategy"
	"github.com/dshills/eventgate/internal/strategy/script"
	"github.com/dshills/eventgate/internal/trace"
)

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, initOrder: make([]string, 0, 8)}
}

// bootstrap initializes all components in dependency order.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"logging", b.initLogging},
		{"dispatcher", b.initDispatcher},
		{"trace", b.initTrace},
		{"strategies", b.initStrategies},
		{"panel", b.initPanel},
		{"producers", b.initProducers},
		{"watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	opts := b.app.opts
	s, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		s.Log.Level = opts.LogLevel
	}
	if opts.Trace {
		s.Trace.Enabled = true
	}
	if opts.TracePath != "" {
		s.Trace.Enabled = true
		s.Trace.Path = opts.TracePath
	}
	if opts.Script != "" {
		s.Script = opts.Script
	}
	if err := s.Validate(); err != nil {
		return err
	}
	b.app.settings = s
	return nil
}

func (b *bootstrapper) initLogging() error {
	s := b.app.settings
	b.app.logger = logging.New(logging.Config{
		Level:  s.LogLevel(),
		Output: b.app.opts.LogOutput,
		Prefix: s.Log.Prefix,
	})
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	app := b.app
	app.d = dispatcher.New(app.settings.DispatcherConfig(),
		dispatcher.WithLogger(app.logger.WithComponent("dispatcher")))
	if app.logger.Level() == logging.LevelDebug {
		app.d.Hooks().Register(hook.NewAuditHook(app.logger.WithComponent("audit")))
	}
	app.d.Hooks().Register(strategy.NewMouseCompat(app.d, app.logger.WithComponent("compat")))
	return nil
}

func (b *bootstrapper) initTrace() error {
	app := b.app
	ts := app.settings.Trace
	if !ts.Enabled {
		return nil
	}
	opts := []trace.Option{trace.WithLimit(ts.Limit)}
	if ts.Path != "" {
		f, err := os.Create(ts.Path)
		if err != nil {
			return err
		}
		app.traceFile = f
		opts = append(opts, trace.WithWriter(f))
	}
	app.recorder = trace.NewRecorder(opts...)
	app.d.Hooks().Register(app.recorder)
	app.logger.Debug("trace session %s", app.recorder.Session())
	return nil
}

// initStrategies builds the chain: an optional script first, then pointer
// capture, keyboard, command and the default picker.
func (b *bootstrapper) initStrategies() error {
	app := b.app
	if path := app.settings.Script; path != "" {
		s, err := script.Load(path,
			script.WithDispatcher(app.d),
			script.WithLogger(app.logger.WithComponent("script")))
		if err != nil {
			return err
		}
		app.script = s
		app.d.Strategies().Append(s)
	}
	app.d.Strategies().Append(
		strategy.NewPointerCapture(),
		strategy.NewKeyboard(),
		strategy.NewCommand(),
		strategy.NewDefault(),
	)
	return nil
}

func (b *bootstrapper) initPanel() error {
	app := b.app
	app.panel, app.demo = buildDemo(app, app.opts.Width, app.opts.Height)
	app.clicks = click.New(app.d, app.settings.ClickConfig())
	app.d.SetClickDetector(app.clicks)
	return nil
}

func (b *bootstrapper) initProducers() error {
	app := b.app
	app.terminal = backend.NewTerminal(app.panel, app.logger.WithComponent("terminal"))
	app.gio = backend.NewGio(app.panel)
	return nil
}

func (b *bootstrapper) initWatcher() error {
	app := b.app
	if !app.opts.Watch || app.opts.ConfigPath == "" {
		return nil
	}
	w, err := config.Watch(app.opts.ConfigPath, func(s *config.Settings, err error) {
		if err != nil {
			app.logger.Warn("config reload: %v", err)
			return
		}
		if app.opts.LogLevel == "" {
			app.logger.SetLevel(s.LogLevel())
		}
		app.logger.Info("config reloaded, log level %s", app.logger.Level())
	})
	if err != nil {
		return err
	}
	app.watcher = w
	return nil
}

// cleanup releases whatever was initialized before a failure.
func (b *bootstrapper) cleanup() {
	app := b.app
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "trace":
			if app.traceFile != nil {
				app.traceFile.Close()
				app.traceFile = nil
			}
		case "strategies":
			if app.script != nil {
				app.script.Close()
				app.script = nil
			}
		}
	}
}
