package dispatcher_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/dispatcher/hook"
	"github.com/dshills/eventgate/internal/event"
)

// elem is a named target that ignores propagated events.
type elem string

func (e elem) HandleEvent(event.Event) {}
func (e elem) Name() string          { return string(e) }

type surface struct {
	defaults []string
	err      error
}

func (s *surface) ExecuteDefaultAction(e event.Event) error {
	s.defaults = append(s.defaults, event.TargetName(e.EventBase().Target()))
	return s.err
}

// harness records the order in which events reach the strategy chain.
type harness struct {
	d   *dispatcher.Dispatcher
	s   *surface
	log []string
	on  map[string]func() error
}

func label(e event.Event) string {
	switch ev := e.(type) {
	case *event.CustomEvent:
		return ev.Name
	case *event.KeyEvent:
		return ev.Text
	}
	return e.TypeID().String()
}

func newHarness(config dispatcher.Config, opts ...dispatcher.Option) *harness {
	h := &harness{s: &surface{}, on: make(map[string]func() error)}
	rec := dispatcher.StrategyFunc{
		Match: func(e event.Event) bool {
			switch e.(type) {
			case *event.CustomEvent, *event.KeyEvent:
				return true
			}
			return false
		},
		Fn: func(e event.Event, s event.Surface) error {
			name := label(e)
			h.log = append(h.log, name)
			if fn := h.on[name]; fn != nil {
				return fn()
			}
			return nil
		},
	}
	opts = append([]dispatcher.Option{dispatcher.WithStrategies(rec)}, opts...)
	h.d = dispatcher.New(config, opts...)
	return h
}

func (h *harness) dispatch(name string) error {
	return h.d.Dispatch(event.NewCustomEvent(name, nil, nil), h.s, dispatcher.Queued)
}

func (h *harness) key(text string) *event.KeyEvent {
	k := event.GetKeyEvent(event.KeyDown)
	k.Text = text
	return k
}

func expectLog(t *testing.T, h *harness, expected ...string) {
	t.Helper()
	if len(expected) == 0 {
		expected = nil
	}
	if !reflect.DeepEqual(h.log, expected) {
		t.Errorf("got %v, expected %v", h.log, expected)
	}
}

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if d == nil {
		t.Fatal("expected non-nil dispatcher")
	}
	if d.ID() == "" {
		t.Error("expected dispatcher id")
	}
	if d.PointerState() == nil || d.Hooks() == nil {
		t.Error("expected capture table and hook manager")
	}

	// Metrics should be nil by default
	if d.Metrics() != nil {
		t.Error("expected nil metrics by default")
	}
	if d.GateCount() != 0 || d.QueueLen() != 0 || d.ContextDepth() != 0 {
		t.Error("expected idle dispatcher")
	}
}

func TestNewWithMetrics(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMetrics()
	d := dispatcher.New(config)

	if d.Metrics() == nil {
		t.Error("expected non-nil metrics when enabled")
	}
}

func TestDistinctIDs(t *testing.T) {
	if dispatcher.NewWithDefaults().ID() == dispatcher.NewWithDefaults().ID() {
		t.Error("expected distinct dispatcher ids")
	}
}

func TestSynchronousWhenGateOpen(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())

	if err := h.dispatch("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectLog(t, h, "a")
	if h.d.QueueLen() != 0 {
		t.Error("expected nothing queued")
	}
}

func TestDeferredWhenGated(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())

	g := h.d.AcquireGate()
	if err := h.dispatch("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectLog(t, h)
	if h.d.QueueLen() != 1 {
		t.Fatalf("expected 1 queued event, got %d", h.d.QueueLen())
	}

	if err := g.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectLog(t, h, "a")
	if h.d.GateCount() != 0 || h.d.QueueLen() != 0 {
		t.Error("expected open gate and empty queue")
	}
}

func TestCausalOrdering(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	h.on["a"] = func() error {
		if err := h.dispatch("b"); err != nil {
			return err
		}
		return h.dispatch("c")
	}
	h.on["b"] = func() error { return h.dispatch("b1") }

	g := h.d.AcquireGate()
	h.dispatch("a")
	h.dispatch("d")
	if err := g.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectLog(t, h, "a", "b", "b1", "c", "d")
}

func TestCausalOrderingWithOpenGate(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	h.on["a"] = func() error {
		h.dispatch("b")
		h.dispatch("c")
		return nil
	}

	h.dispatch("a")
	h.dispatch("d")

	expectLog(t, h, "a", "b", "c", "d")
}

func TestGateNesting(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())

	outer := h.d.AcquireGate()
	inner := h.d.AcquireGate()
	if h.d.GateCount() != 2 {
		t.Fatalf("expected gate count 2, got %d", h.d.GateCount())
	}

	h.dispatch("a")
	inner.Release()
	expectLog(t, h)

	outer.Release()
	expectLog(t, h, "a")
}

func TestGateEquality(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	other := dispatcher.NewWithDefaults()

	g1 := d.AcquireGate()
	g2 := d.AcquireGate()
	g3 := other.AcquireGate()
	defer g3.Release()
	defer g1.Release()
	defer g2.Release()

	if g1 != g2 {
		t.Error("expected gates over the same dispatcher to be equal")
	}
	if g1 == g3 {
		t.Error("expected gates over different dispatchers to differ")
	}
	if g1.Dispatcher() != d {
		t.Error("expected gate to report its dispatcher")
	}
}

func TestUnmatchedRelease(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMetrics()
	d := dispatcher.New(config)

	if err := d.ReleaseGate(); !errors.Is(err, dispatcher.ErrUnmatchedRelease) {
		t.Errorf("expected ErrUnmatchedRelease, got %v", err)
	}
	if d.GateCount() != 0 {
		t.Errorf("expected gate count to stay 0, got %d", d.GateCount())
	}
	if d.Metrics().Snapshot().Violations != 1 {
		t.Error("expected violation recorded")
	}

	var zero dispatcher.Gate
	if err := zero.Release(); err != nil {
		t.Errorf("zero gate release should be a no-op, got %v", err)
	}
}

func TestImmediateBypassesGate(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())

	g := h.d.AcquireGate()
	h.dispatch("queued")
	if err := h.d.Dispatch(event.NewCustomEvent("now", nil, nil), h.s, dispatcher.Immediate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectLog(t, h, "now")

	g.Release()
	expectLog(t, h, "now", "queued")
}

func TestIgnoredTypesFiltered(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMetrics()
	called := false
	d := dispatcher.New(config, dispatcher.WithStrategies(dispatcher.StrategyFunc{
		Match: func(event.Event) bool { return true },
		Fn: func(event.Event, event.Surface) error {
			called = true
			return nil
		},
	}))

	e := event.NewRepaintEvent()
	if err := d.Dispatch(e, &surface{}, dispatcher.Queued); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("repaint must not be delivered")
	}
	if !e.ReceivedByDispatcher() {
		t.Error("expected event marked as received")
	}
	if d.Metrics().Snapshot().Filtered != 1 {
		t.Error("expected filtered count 1")
	}
}

func TestDoubleScheduleRejected(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	e := event.NewCustomEvent("a", nil, nil)

	g := h.d.AcquireGate()
	if err := h.d.Dispatch(e, h.s, dispatcher.Queued); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.d.Dispatch(e, h.s, dispatcher.Queued); !errors.Is(err, dispatcher.ErrAlreadyQueued) {
		t.Errorf("expected ErrAlreadyQueued, got %v", err)
	}
	g.Release()

	expectLog(t, h, "a")
}

func TestReleasedEventRejected(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	k := h.key("x")
	k.Dispose()

	if err := h.d.Dispatch(k, h.s, dispatcher.Queued); !errors.Is(err, dispatcher.ErrEventReleased) {
		t.Errorf("expected ErrEventReleased, got %v", err)
	}
	expectLog(t, h)
}

func TestQueuedEventsReturnToPool(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	pool := event.KeyPool()
	before := pool.Live()

	g := h.d.AcquireGate()
	for _, text := range []string{"x", "y", "z"} {
		k := h.key(text)
		if err := h.d.Dispatch(k, h.s, dispatcher.Queued); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// The queue holds its own reference.
		k.Dispose()
		if k.Released() {
			t.Fatal("queued event released early")
		}
	}
	g.Release()

	expectLog(t, h, "x", "y", "z")
	if pool.Live() != before {
		t.Errorf("expected %d live events, got %d", before, pool.Live())
	}
}

func TestEscapeSignalResilience(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMetrics()
	h := newHarness(config)
	h.on["2"] = func() error { return &dispatcher.ExitFrame{Reason: "layout"} }

	g := h.d.AcquireGate()
	h.dispatch("1")
	h.dispatch("2")
	h.dispatch("3")
	err := g.Release()

	expectLog(t, h, "1", "2", "3")

	var ef *dispatcher.ExitFrame
	if !errors.As(err, &ef) {
		t.Fatalf("expected exit frame after drain, got %v", err)
	}
	if ef.Reason != "layout" {
		t.Errorf("unexpected reason %q", ef.Reason)
	}
	if h.d.Metrics().Snapshot().Escapes != 1 {
		t.Error("expected one escape recorded")
	}
}

func TestEscapeSurvivesLaterError(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	errBoom := errors.New("boom")
	h.on["1"] = func() error { return &dispatcher.ExitFrame{Reason: "layout"} }
	h.on["2"] = func() error { return errBoom }

	g := h.d.AcquireGate()
	h.dispatch("1")
	h.dispatch("2")
	h.dispatch("3")
	err := g.Release()

	expectLog(t, h, "1", "2")
	if !errors.Is(err, errBoom) {
		t.Errorf("expected handler error, got %v", err)
	}
	if !dispatcher.IsExitFrame(err) {
		t.Errorf("expected escape signal kept alongside the error, got %v", err)
	}
	if h.d.QueueLen() != 0 {
		t.Errorf("expected unprocessed events released, %d queued", h.d.QueueLen())
	}
}

func TestSecondEscapeSignalDropped(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMetrics()
	h := newHarness(config)
	first := &dispatcher.ExitFrame{Reason: "first"}
	h.on["1"] = func() error { return first }
	h.on["2"] = func() error { return &dispatcher.ExitFrame{Reason: "second"} }

	g := h.d.AcquireGate()
	h.dispatch("1")
	h.dispatch("2")
	h.dispatch("3")
	err := g.Release()

	expectLog(t, h, "1", "2", "3")
	var ef *dispatcher.ExitFrame
	if !errors.As(err, &ef) || ef != first {
		t.Errorf("expected first exit frame, got %v", err)
	}
	if h.d.Metrics().Snapshot().Violations != 1 {
		t.Error("expected second signal reported as a violation")
	}
}

func TestEscapeFromNestedDrain(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	h.on["a"] = func() error { return h.dispatch("b") }
	h.on["b"] = func() error { return &dispatcher.ExitFrame{} }

	g := h.d.AcquireGate()
	h.dispatch("a")
	h.dispatch("c")
	err := g.Release()

	expectLog(t, h, "a", "b", "c")
	if !dispatcher.IsExitFrame(err) {
		t.Errorf("expected exit frame, got %v", err)
	}
}

func TestHandlerErrorAbortsDrain(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	errBoom := errors.New("boom")
	h.on["y"] = func() error { return errBoom }
	pool := event.KeyPool()
	before := pool.Live()

	g := h.d.AcquireGate()
	for _, text := range []string{"x", "y", "z"} {
		k := h.key(text)
		h.d.Dispatch(k, h.s, dispatcher.Queued)
		k.Dispose()
	}
	err := g.Release()

	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
	expectLog(t, h, "x", "y")
	if pool.Live() != before {
		t.Errorf("expected unprocessed events released, %d live", pool.Live()-before)
	}
	if h.d.GateCount() != 0 || h.d.QueueLen() != 0 {
		t.Error("expected dispatcher idle after failed drain")
	}
}

func TestHandlerErrorPropagatesImmediately(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	errBoom := errors.New("boom")
	h.on["a"] = func() error { return errBoom }

	if err := h.dispatch("a"); !errors.Is(err, errBoom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestPanicReleasesGateAndEvents(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	h.on["x"] = func() error {
		child := h.key("child")
		h.d.Dispatch(child, h.s, dispatcher.Queued)
		child.Dispose()
		panic("handler failure")
	}
	pool := event.KeyPool()
	before := pool.Live()

	g := h.d.AcquireGate()
	for _, text := range []string{"x", "y"} {
		k := h.key(text)
		h.d.Dispatch(k, h.s, dispatcher.Queued)
		k.Dispose()
	}

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic to propagate")
			}
		}()
		g.Release()
	}()

	if h.d.GateCount() != 0 {
		t.Errorf("expected gate count 0, got %d", h.d.GateCount())
	}
	if h.d.DrainDepth() != 0 {
		t.Errorf("expected no active drain, got %d", h.d.DrainDepth())
	}
	if pool.Live() != before {
		t.Errorf("expected events released, %d live", pool.Live()-before)
	}
	if h.d.QueueLen() != 0 {
		t.Fatalf("expected no deferred work after the panic, %d queued", h.d.QueueLen())
	}

	h.dispatch("later")
	expectLog(t, h, "x", "later")
}

func TestContextIsolation(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())

	outer := h.d.AcquireGate()
	h.dispatch("before")

	if err := h.d.PushContext(); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	expectLog(t, h, "before")
	if h.d.GateCount() != 0 || h.d.ContextDepth() != 1 {
		t.Fatalf("expected fresh open scope, gate=%d depth=%d", h.d.GateCount(), h.d.ContextDepth())
	}

	inner := h.d.AcquireGate()
	h.dispatch("inner")
	if err := h.d.PopContext(); !errors.Is(err, dispatcher.ErrContextNotDrained) {
		t.Errorf("expected ErrContextNotDrained, got %v", err)
	}
	inner.Release()

	if err := h.d.PopContext(); err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if h.d.GateCount() != 1 {
		t.Errorf("expected outer gate restored, got %d", h.d.GateCount())
	}

	h.dispatch("after")
	expectLog(t, h, "before", "inner")
	outer.Release()
	expectLog(t, h, "before", "inner", "after")
}

func TestPopWithoutPush(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	if err := d.PopContext(); !errors.Is(err, dispatcher.ErrNoContext) {
		t.Errorf("expected ErrNoContext, got %v", err)
	}
}

func TestPushFromInsideProcessing(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	h.on["open-modal"] = func() error {
		h.dispatch("pending")
		if err := h.d.PushContext(); err != nil {
			return err
		}
		h.dispatch("modal")
		return h.d.PopContext()
	}

	h.dispatch("open-modal")
	expectLog(t, h, "open-modal", "pending", "modal")
}

func TestPushKeepsEscapeFromDrain(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	h.on["relayout"] = func() error { return &dispatcher.ExitFrame{Reason: "relayout"} }

	outer := h.d.AcquireGate()
	h.dispatch("relayout")
	h.dispatch("after")

	err := h.d.PushContext()
	if !dispatcher.IsExitFrame(err) {
		t.Fatalf("expected escape signal from the drain, got %v", err)
	}
	if h.d.ContextDepth() != 1 {
		t.Fatalf("expected the scope pushed anyway, depth %d", h.d.ContextDepth())
	}
	h.dispatch("modal")
	if err := h.d.PopContext(); err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if err := outer.Release(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	expectLog(t, h, "relayout", "after", "modal")
}

func TestPushAbortedByDrainError(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	errBoom := errors.New("boom")
	h.on["bad"] = func() error { return errBoom }

	outer := h.d.AcquireGate()
	h.dispatch("bad")

	if err := h.d.PushContext(); !errors.Is(err, errBoom) {
		t.Fatalf("expected drain error, got %v", err)
	}
	if h.d.ContextDepth() != 0 {
		t.Errorf("expected no scope pushed, depth %d", h.d.ContextDepth())
	}
	outer.Release()
}

func TestDrainDepthLimit(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMaxDrainDepth(2)
	h := newHarness(config)
	h.on["loop"] = func() error { return h.dispatch("loop") }

	g := h.d.AcquireGate()
	h.dispatch("loop")
	err := g.Release()
	if !errors.Is(err, dispatcher.ErrDrainTooDeep) {
		t.Fatalf("expected ErrDrainTooDeep, got %v", err)
	}
	if h.d.QueueLen() != 1 {
		t.Fatalf("expected the runaway event left queued, got %d", h.d.QueueLen())
	}

	h.on["loop"] = nil
	if err := h.d.Drain(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectLog(t, h, "loop", "loop", "loop")
}

func TestDefaultActionsPerTarget(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	s := &surface{}

	leaf := elem("leaf")
	e := event.NewCustomEvent("x", leaf, nil)
	e.SetPath(&event.Path{Targets: []event.Target{elem("first"), elem("second")}})

	if err := d.Dispatch(e, s, dispatcher.Queued); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(s.defaults, []string{"first", "second"}) {
		t.Errorf("unexpected default actions %v", s.defaults)
	}
	if e.Target() != leaf {
		t.Error("expected target restored to leaf")
	}
}

func TestDefaultActionWithoutPath(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	s := &surface{}

	d.Dispatch(event.NewCustomEvent("x", elem("only"), nil), s, dispatcher.Queued)
	d.Dispatch(event.NewCustomEvent("y", nil, nil), s, dispatcher.Queued)

	if !reflect.DeepEqual(s.defaults, []string{"only"}) {
		t.Errorf("unexpected default actions %v", s.defaults)
	}
}

func TestDefaultActionRunsWhenPrevented(t *testing.T) {
	s := &surface{}
	d := dispatcher.NewWithDefaults(dispatcher.WithStrategies(dispatcher.StrategyFunc{
		Match: func(event.Event) bool { return true },
		Fn: func(e event.Event, _ event.Surface) error {
			e.EventBase().PreventDefault()
			return nil
		},
	}))

	d.Dispatch(event.NewCustomEvent("x", elem("t"), nil), s, dispatcher.Queued)
	if !reflect.DeepEqual(s.defaults, []string{"t"}) {
		t.Errorf("expected the surface to decide on a prevented event, got %v", s.defaults)
	}
}

func TestDefaultActionError(t *testing.T) {
	errFail := errors.New("default failed")
	s := &surface{err: errFail}
	d := dispatcher.NewWithDefaults()

	leaf := elem("leaf")
	e := event.NewCustomEvent("x", leaf, nil)
	e.SetPath(&event.Path{Targets: []event.Target{elem("a"), elem("b")}})

	if err := d.Dispatch(e, s, dispatcher.Queued); !errors.Is(err, errFail) {
		t.Errorf("expected default action error, got %v", err)
	}
	if len(s.defaults) != 1 {
		t.Errorf("expected processing to stop at first failure, got %v", s.defaults)
	}
	if e.Target() != leaf {
		t.Error("expected leaf target restored after failure")
	}
}

func TestChainEarlyExit(t *testing.T) {
	var order []string
	mk := func(name string, stop bool) dispatcher.Strategy {
		return dispatcher.StrategyFunc{
			Match: func(event.Event) bool { return true },
			Fn: func(e event.Event, _ event.Surface) error {
				order = append(order, name)
				if stop {
					e.EventBase().StopDispatch()
				}
				return nil
			},
		}
	}
	skip := dispatcher.StrategyFunc{
		Match: func(event.Event) bool { return false },
		Fn: func(event.Event, event.Surface) error {
			order = append(order, "skip")
			return nil
		},
	}

	d := dispatcher.NewWithDefaults(dispatcher.WithStrategies(skip, mk("first", false), mk("second", true), mk("third", false)))
	d.Dispatch(event.NewCustomEvent("x", nil, nil), &surface{}, dispatcher.Queued)

	expected := []string{"first", "second"}
	if !reflect.DeepEqual(order, expected) {
		t.Errorf("got %v, expected %v", order, expected)
	}
	if d.Strategies().Len() != 4 {
		t.Errorf("expected 4 strategies, got %d", d.Strategies().Len())
	}
}

func TestChainSkippedWhenPropagationStopped(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	e := event.NewCustomEvent("x", nil, nil)
	e.StopPropagation()

	h.d.Dispatch(e, h.s, dispatcher.Queued)
	expectLog(t, h)
}

func TestPreDispatchHookStopsDispatch(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	post := false
	h.d.Hooks().RegisterPre(hook.NewFilterHook("block-x", hook.PriorityValidation, func(e event.Event) bool {
		return label(e) != "x"
	}))
	h.d.Hooks().RegisterPost(hook.NewPostDispatchFunc("post", 0, func(e event.Event, info *hook.Info) {
		post = true
	}))

	h.d.Dispatch(event.NewCustomEvent("x", elem("t"), nil), h.s, dispatcher.Queued)
	h.dispatch("y")

	expectLog(t, h, "y")
	if !post {
		t.Error("expected post hooks to run for a blocked event")
	}
	if len(h.s.defaults) != 0 {
		t.Error("expected no default action for a blocked event")
	}
}

func TestHookInfo(t *testing.T) {
	h := newHarness(dispatcher.DefaultConfig())
	var infos []hook.Info
	h.d.Hooks().RegisterPre(hook.NewPreDispatchFunc("info", 0, func(e event.Event, info *hook.Info) bool {
		infos = append(infos, *info)
		return true
	}))
	h.on["a"] = func() error { return h.dispatch("b") }

	h.dispatch("a")

	if len(infos) != 2 {
		t.Fatalf("expected 2 infos, got %d", len(infos))
	}
	if infos[0].Seq != 1 || infos[1].Seq != 2 {
		t.Errorf("unexpected sequence numbers %d %d", infos[0].Seq, infos[1].Seq)
	}
	if infos[0].DrainDepth != 0 || infos[1].DrainDepth != 1 {
		t.Errorf("unexpected drain depths %d %d", infos[0].DrainDepth, infos[1].DrainDepth)
	}
	if infos[0].Gate != 1 || infos[0].DispatcherID != h.d.ID() {
		t.Errorf("unexpected info %+v", infos[0])
	}
}

type lifecycleEvent struct {
	event.Base
	log *[]string
}

var lifecycleType = event.RegisterType("Lifecycle")

func (e *lifecycleEvent) PreDispatch(event.Surface)  { *e.log = append(*e.log, "pre") }
func (e *lifecycleEvent) PostDispatch(event.Surface) { *e.log = append(*e.log, "post") }

type clickRecorder struct {
	log *[]string
}

func (c clickRecorder) ProcessEvent(e event.Event, s event.Surface) {
	*c.log = append(*c.log, "click-detector")
}

func TestProcessingOrder(t *testing.T) {
	var log []string
	d := dispatcher.NewWithDefaults(
		dispatcher.WithStrategies(dispatcher.StrategyFunc{
			Match: func(event.Event) bool { return true },
			Fn: func(event.Event, event.Surface) error {
				log = append(log, "strategy")
				return nil
			},
		}),
		dispatcher.WithClickDetector(clickRecorder{log: &log}),
	)
	d.Hooks().RegisterPre(hook.NewPreDispatchFunc("pre-hook", 0, func(event.Event, *hook.Info) bool {
		log = append(log, "pre-hook")
		return true
	}))
	d.Hooks().RegisterPost(hook.NewPostDispatchFunc("post-hook", 0, func(event.Event, *hook.Info) {
		log = append(log, "post-hook")
	}))

	e := &lifecycleEvent{log: &log}
	e.Init(lifecycleType, event.FlagBubbles)
	e.SetTarget(elem("t"))
	s := &surface{}

	if err := d.Dispatch(e, s, dispatcher.Queued); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"pre", "pre-hook", "strategy", "post", "post-hook", "click-detector"}
	if !reflect.DeepEqual(log, expected) {
		t.Errorf("got %v, expected %v", log, expected)
	}
	if len(s.defaults) != 1 {
		t.Error("expected one default action")
	}
	if e.Dispatching() {
		t.Error("expected dispatching flag cleared")
	}
}

func TestMetricsCounts(t *testing.T) {
	config := dispatcher.DefaultConfig().WithMetrics()
	h := newHarness(config)
	h.on["a"] = func() error { return h.dispatch("b") }

	g := h.d.AcquireGate()
	h.dispatch("a")
	h.dispatch("c")
	g.Release()

	snap := h.d.Metrics().Snapshot()
	if snap.TotalProcessed != 3 {
		t.Errorf("expected 3 processed, got %d", snap.TotalProcessed)
	}
	if snap.Queued != 3 {
		t.Errorf("expected 3 queued dispatches, got %d", snap.Queued)
	}
	if snap.MaxQueueLen != 2 {
		t.Errorf("expected max queue length 2, got %d", snap.MaxQueueLen)
	}
	if snap.MaxDrainDepth != 2 {
		t.Errorf("expected max drain depth 2, got %d", snap.MaxDrainDepth)
	}

	stats := h.d.Metrics().TypeStats(event.Custom)
	if stats == nil || stats.ProcessCount != 3 {
		t.Errorf("unexpected custom stats %+v", stats)
	}
	if top := h.d.Metrics().TopTypes(5); len(top) != 1 || top[0].Type != event.Custom {
		t.Errorf("unexpected top types %v", top)
	}

	h.d.Metrics().Reset()
	if h.d.Metrics().TotalProcessed() != 0 {
		t.Error("expected metrics reset")
	}
}

func TestCaptureTransitionsQueuedDuringProcessing(t *testing.T) {
	var log []string
	s := &surface{}
	var d *dispatcher.Dispatcher
	x, y := elem("x"), elem("y")
	d = dispatcher.NewWithDefaults(dispatcher.WithStrategies(dispatcher.StrategyFunc{
		Match: func(event.Event) bool { return true },
		Fn: func(e event.Event, _ event.Surface) error {
			log = append(log, e.TypeID().String())
			if e.TypeID() == event.PointerDown {
				return d.PointerState().Commit(s, 0)
			}
			return nil
		},
	}))

	d.PointerState().Capture(x, 0)
	p := event.GetPointerEvent(event.PointerDown)
	d.Dispatch(p, s, dispatcher.Queued)
	p.Dispose()

	d.PointerState().Capture(y, 0)
	p = event.GetPointerEvent(event.PointerMove)
	d.Dispatch(p, s, dispatcher.Queued)
	p.Dispose()
	d.PointerState().Commit(s, 0)

	expected := []string{
		"PointerDown", "GotPointerCapture", "MouseCapture",
		"PointerMove",
		"LostPointerCapture", "MouseCaptureOut", "GotPointerCapture", "MouseCapture",
	}
	if !reflect.DeepEqual(log, expected) {
		t.Errorf("got %v, expected %v", log, expected)
	}
}

func TestSharedDispatcher(t *testing.T) {
	dispatcher.TeardownShared()
	defer dispatcher.TeardownShared()

	if dispatcher.Shared() != nil {
		t.Fatal("expected no shared dispatcher")
	}
	if err := dispatcher.PushDispatcherContext(); !errors.Is(err, dispatcher.ErrNoSharedDispatcher) {
		t.Errorf("expected ErrNoSharedDispatcher, got %v", err)
	}

	d := dispatcher.InitShared(dispatcher.DefaultConfig())
	if dispatcher.InitShared(dispatcher.DefaultConfig()) != d || dispatcher.Shared() != d {
		t.Error("expected the same shared dispatcher")
	}

	if err := dispatcher.PushDispatcherContext(); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if d.ContextDepth() != 1 {
		t.Error("expected context pushed on shared dispatcher")
	}
	if err := dispatcher.PopDispatcherContext(); err != nil {
		t.Fatalf("pop failed: %v", err)
	}

	dispatcher.TeardownShared()
	if dispatcher.Shared() != nil {
		t.Error("expected shared dispatcher cleared")
	}
}

func TestModeString(t *testing.T) {
	if dispatcher.Queued.String() != "queued" || dispatcher.Immediate.String() != "immediate" {
		t.Error("unexpected mode strings")
	}
}

func TestConfigBuilders(t *testing.T) {
	c := dispatcher.DefaultConfig().
		WithPrimaryPointer(3).
		WithMaxDrainDepth(10).
		WithIgnoredTypes(event.GeometryChanged)

	if c.PrimaryPointerID != 3 || c.MaxDrainDepth != 10 {
		t.Errorf("unexpected config %+v", c)
	}
	if len(c.IgnoredTypes) != 1 || c.IgnoredTypes[0] != event.GeometryChanged {
		t.Errorf("unexpected ignored types %v", c.IgnoredTypes)
	}
	if len(dispatcher.DefaultConfig().IgnoredTypes) != 1 {
		t.Error("builders must not mutate the default config")
	}
}
