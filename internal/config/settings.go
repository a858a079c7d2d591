// Package config loads eventgate settings from TOML or YAML files,
// applies EVENTGATE_* environment overrides, and watches the file for
// live reload.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment, command line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/eventgate/internal/click"
	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/dispatcher/capture"
	"github.com/dshills/eventgate/internal/event"
	"github.com/dshills/eventgate/internal/logging"
)

// Settings is the complete eventgate configuration.
type Settings struct {
	Log        LogSettings        `toml:"log" yaml:"log"`
	Dispatcher DispatcherSettings `toml:"dispatcher" yaml:"dispatcher"`
	Click      ClickSettings      `toml:"click" yaml:"click"`
	Trace      TraceSettings      `toml:"trace" yaml:"trace"`

	// Script is the path of a Lua strategy placed ahead of the built-in
	// strategies. Empty disables it.
	Script string `toml:"script" yaml:"script"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `toml:"level" yaml:"level"`
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// DispatcherSettings configures the dispatcher.
type DispatcherSettings struct {
	Metrics        bool     `toml:"metrics" yaml:"metrics"`
	PrimaryPointer int      `toml:"primary_pointer" yaml:"primary_pointer"`
	MaxDrainDepth  int      `toml:"max_drain_depth" yaml:"max_drain_depth"`
	IgnoredTypes   []string `toml:"ignored_types" yaml:"ignored_types"`
}

// ClickSettings configures click detection.
type ClickSettings struct {
	DoubleClickMS int     `toml:"double_click_ms" yaml:"double_click_ms"`
	MaxDistance   float64 `toml:"max_distance" yaml:"max_distance"`
}

// TraceSettings configures the dispatch trace.
type TraceSettings struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
	Limit   int    `toml:"limit" yaml:"limit"`
}

// Default returns the built-in settings.
func Default() *Settings {
	dc := dispatcher.DefaultConfig()
	cc := click.DefaultConfig()

	ignored := make([]string, 0, len(dc.IgnoredTypes))
	for _, t := range dc.IgnoredTypes {
		ignored = append(ignored, t.String())
	}

	return &Settings{
		Log: LogSettings{
			Level:  "info",
			Prefix: "eventgate",
		},
		Dispatcher: DispatcherSettings{
			Metrics:        dc.EnableMetrics,
			PrimaryPointer: dc.PrimaryPointerID,
			MaxDrainDepth:  dc.MaxDrainDepth,
			IgnoredTypes:   ignored,
		},
		Click: ClickSettings{
			DoubleClickMS: int(cc.MaxTime / time.Millisecond),
			MaxDistance:   float64(cc.MaxDistance),
		},
		Trace: TraceSettings{
			Limit: 4096,
		},
	}
}

// Validate checks every setting and joins the problems found.
func (s *Settings) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := logging.ParseLevel(s.Log.Level); !ok {
		fail("log.level", "unknown level %q", s.Log.Level)
	}
	if p := s.Dispatcher.PrimaryPointer; p < 0 || p >= capture.MaxPointers {
		fail("dispatcher.primary_pointer", "must be in [0, %d), got %d", capture.MaxPointers, p)
	}
	if s.Dispatcher.MaxDrainDepth < 0 {
		fail("dispatcher.max_drain_depth", "must not be negative")
	}
	for _, name := range s.Dispatcher.IgnoredTypes {
		if _, ok := event.LookupType(name); !ok {
			fail("dispatcher.ignored_types", "unknown event type %q", name)
		}
	}
	if s.Click.DoubleClickMS <= 0 {
		fail("click.double_click_ms", "must be positive")
	}
	if s.Click.MaxDistance < 0 {
		fail("click.max_distance", "must not be negative")
	}
	if s.Trace.Limit < 0 {
		fail("trace.limit", "must not be negative")
	}
	return errors.Join(errs...)
}

// LogLevel returns the configured level, INFO when unknown.
func (s *Settings) LogLevel() logging.Level {
	l, _ := logging.ParseLevel(s.Log.Level)
	return l
}

// DispatcherConfig converts the dispatcher settings. Unknown ignored
// type names are skipped; Validate reports them.
func (s *Settings) DispatcherConfig() dispatcher.Config {
	ids := make([]event.TypeID, 0, len(s.Dispatcher.IgnoredTypes))
	for _, name := range s.Dispatcher.IgnoredTypes {
		if id, ok := event.LookupType(name); ok {
			ids = append(ids, id)
		}
	}
	cfg := dispatcher.DefaultConfig().
		WithPrimaryPointer(s.Dispatcher.PrimaryPointer).
		WithMaxDrainDepth(s.Dispatcher.MaxDrainDepth).
		WithIgnoredTypes(ids...)
	if s.Dispatcher.Metrics {
		cfg = cfg.WithMetrics()
	}
	return cfg
}

// ClickConfig converts the click settings.
func (s *Settings) ClickConfig() click.Config {
	return click.Config{
		MaxTime:     time.Duration(s.Click.DoubleClickMS) * time.Millisecond,
		MaxDistance: float32(s.Click.MaxDistance),
	}
}
