// Package script provides a dispatch strategy written in Lua.
//
// A script defines two global functions:
//
//	function can_handle(ev) return ev.type == "KeyDown" end
//	function handle(ev)
//	  if ev.text == "q" then ev.stop_dispatch() end
//	end
//
// can_handle is optional; without it every event is offered to handle.
// The event table carries the type and target name, the pointer fields of
// positional events (pointer_id, primary, x, y, button), the key fields of
// key events (key, text), the command name and the custom event name. It
// also carries closures acting on the event: stop_propagation,
// stop_immediate_propagation, prevent_default and stop_dispatch.
//
// Two globals are installed: log(msg) and emit(name), which dispatches a
// custom event of that name to the current target in queued mode.
//
// The Lua state runs with io, os, debug and package closed. A script is
// not safe for concurrent use; it runs on the dispatcher's goroutine.
package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/event"
)

// DefaultTimeout bounds one call into the script.
const DefaultTimeout = 100 * time.Millisecond

// Strategy is a dispatcher.Strategy backed by a Lua script.
type Strategy struct {
	name    string
	L       *lua.LState
	d       *dispatcher.Dispatcher
	logger  dispatcher.Logger
	timeout time.Duration

	// The event being handled, for emit.
	cur     event.Event
	surface event.Surface
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithDispatcher enables emit, which dispatches through d.
func WithDispatcher(d *dispatcher.Dispatcher) Option {
	return func(s *Strategy) { s.d = d }
}

// WithLogger sets the logger used by log and for script failures.
func WithLogger(l dispatcher.Logger) Option {
	return func(s *Strategy) { s.logger = l }
}

// WithTimeout bounds each call into the script. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Strategy) { s.timeout = d }
}

// New compiles source and returns a strategy named name.
func New(name, source string, opts ...Option) (*Strategy, error) {
	s := newStrategy(name, opts)
	if err := s.L.DoString(source); err != nil {
		s.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return s.validate()
}

// Load compiles the script at path. The strategy is named after the path.
func Load(path string, opts ...Option) (*Strategy, error) {
	s := newStrategy(path, opts)
	if err := s.L.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s.validate()
}

func newStrategy(name string, opts []Option) *Strategy {
	s := &Strategy{
		name:    name,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(s.L)
	lua.OpenTable(s.L)
	lua.OpenString(s.L)
	lua.OpenMath(s.L)
	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		s.L.SetGlobal(fn, lua.LNil)
	}

	s.L.SetGlobal("log", s.L.NewFunction(s.luaLog))
	s.L.SetGlobal("emit", s.L.NewFunction(s.luaEmit))
	return s
}

func (s *Strategy) validate() (*Strategy, error) {
	if s.L.GetGlobal("handle").Type() != lua.LTFunction {
		s.Close()
		return nil, fmt.Errorf("%w: %s", ErrMissingHandle, s.name)
	}
	return s, nil
}

// Name returns the strategy name.
func (s *Strategy) Name() string { return s.name }

// Close releases the Lua state.
func (s *Strategy) Close() {
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}

// CanHandle implements dispatcher.Strategy. A failing can_handle is
// logged and treated as false.
func (s *Strategy) CanHandle(e event.Event) bool {
	if s.L == nil {
		return false
	}
	fn := s.L.GetGlobal("can_handle")
	if fn.Type() != lua.LTFunction {
		return true
	}
	ret, err := s.call(fn, e, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("script %s: can_handle: %v", s.name, err)
		}
		return false
	}
	return lua.LVAsBool(ret)
}

// Handle implements dispatcher.Strategy. Script errors are returned.
func (s *Strategy) Handle(e event.Event, surface event.Surface) error {
	if s.L == nil {
		return ErrClosed
	}
	if _, err := s.call(s.L.GetGlobal("handle"), e, surface); err != nil {
		return fmt.Errorf("script %s: %w", s.name, err)
	}
	return nil
}

func (s *Strategy) call(fn lua.LValue, e event.Event, surface event.Surface) (lua.LValue, error) {
	prevE, prevS := s.cur, s.surface
	s.cur, s.surface = e, surface
	defer func() { s.cur, s.surface = prevE, prevS }()

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	if err := s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, s.eventTable(e)); err != nil {
		return lua.LNil, err
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret, nil
}

func (s *Strategy) eventTable(e event.Event) *lua.LTable {
	L := s.L
	b := e.EventBase()
	t := L.NewTable()

	t.RawSetString("type", lua.LString(e.TypeID().String()))
	t.RawSetString("target", lua.LString(event.TargetName(b.Target())))

	switch ev := e.(type) {
	case *event.PointerEvent:
		t.RawSetString("pointer_id", lua.LNumber(ev.PointerID))
		t.RawSetString("pointer_type", lua.LString(ev.PointerType))
		t.RawSetString("primary", lua.LBool(ev.IsPrimary))
		t.RawSetString("button", lua.LNumber(ev.Button))
		t.RawSetString("x", lua.LNumber(ev.Position.X))
		t.RawSetString("y", lua.LNumber(ev.Position.Y))
	case *event.MouseEvent:
		t.RawSetString("pointer_id", lua.LNumber(event.MousePointerID))
		t.RawSetString("primary", lua.LTrue)
		t.RawSetString("button", lua.LNumber(ev.Button))
		t.RawSetString("x", lua.LNumber(ev.Position.X))
		t.RawSetString("y", lua.LNumber(ev.Position.Y))
	case *event.ClickEvent:
		t.RawSetString("pointer_id", lua.LNumber(ev.PointerID))
		t.RawSetString("count", lua.LNumber(ev.ClickCount))
		t.RawSetString("x", lua.LNumber(ev.Position.X))
		t.RawSetString("y", lua.LNumber(ev.Position.Y))
	case *event.KeyEvent:
		t.RawSetString("key", lua.LNumber(ev.Key))
		t.RawSetString("text", lua.LString(ev.Text))
	case *event.CommandEvent:
		t.RawSetString("command", lua.LString(ev.Command))
	case *event.CustomEvent:
		t.RawSetString("name", lua.LString(ev.Name))
		if v := toLua(ev.Data); v != lua.LNil {
			t.RawSetString("data", v)
		}
	}

	action := func(name string, fn func()) {
		t.RawSetString(name, L.NewFunction(func(*lua.LState) int {
			fn()
			return 0
		}))
	}
	action("stop_propagation", b.StopPropagation)
	action("stop_immediate_propagation", b.StopImmediatePropagation)
	action("prevent_default", b.PreventDefault)
	action("stop_dispatch", b.StopDispatch)
	return t
}

func toLua(v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float32:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	}
	return lua.LNil
}

func (s *Strategy) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	if s.logger != nil {
		s.logger.Info("script %s: %s", s.name, msg)
	}
	return 0
}

func (s *Strategy) luaEmit(L *lua.LState) int {
	name := L.CheckString(1)
	if s.d == nil || s.cur == nil {
		L.RaiseError("emit: no dispatcher")
		return 0
	}
	ce := event.NewCustomEvent(name, s.cur.EventBase().Target(), nil)
	err := s.d.Dispatch(ce, s.surface, dispatcher.Queued)
	ce.Dispose()
	if err != nil {
		L.RaiseError("emit %s: %v", name, err)
	}
	return 0
}
