package dispatcher

import (
	"github.com/dshills/eventgate/internal/dispatcher/hook"
	"github.com/dshills/eventgate/internal/event"
)

// Logger is the logging interface used by the dispatcher.
type Logger = hook.Logger

// ClickDetector receives every fully processed event.
type ClickDetector interface {
	ProcessEvent(e event.Event, s event.Surface)
}

// Option configures a Dispatcher during creation.
type Option func(*Dispatcher)

// WithLogger sets the logger used for contract violations and tracing.
func WithLogger(logger Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithStrategies appends strategies to the chain, in priority order.
func WithStrategies(strategies ...Strategy) Option {
	return func(d *Dispatcher) {
		d.chain.Append(strategies...)
	}
}

// WithClickDetector sets the click detector fed after processing.
func WithClickDetector(cd ClickDetector) Option {
	return func(d *Dispatcher) {
		d.clicks = cd
	}
}

// WithExclusiveClaim sets the predicate reporting whether a subsystem that
// does not understand capture holds an exclusive claim on the primary
// pointer. Capture requests are rejected while it returns true.
func WithExclusiveClaim(claim func() bool) Option {
	return func(d *Dispatcher) {
		d.exclusiveClaim = claim
	}
}

// WithHooks sets the hook manager.
func WithHooks(m *hook.Manager) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.hooks = m
		}
	}
}

type nullLogger struct{}

func (nullLogger) Debug(string, ...any) {}
func (nullLogger) Info(string, ...any)  {}
func (nullLogger) Warn(string, ...any)  {}
func (nullLogger) Error(string, ...any) {}
