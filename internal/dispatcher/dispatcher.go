package dispatcher

import (
	"errors"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"

	"github.com/dshills/eventgate/internal/dispatcher/capture"
	"github.com/dshills/eventgate/internal/dispatcher/hook"
	"github.com/dshills/eventgate/internal/event"
)

// Dispatcher sequences events and routes them through the strategy chain.
type Dispatcher struct {
	id     string
	config Config
	logger Logger

	chain    *Chain
	hooks    *hook.Manager
	metrics  *Metrics
	pointers *capture.Table
	clicks   ClickDetector

	exclusiveClaim func() bool

	// Dispatch state
	gate       int
	q          *queue.Queue
	contexts   []dispatchContext
	drainDepth int
	seq        uint64
}

// New creates a new dispatcher with the given configuration.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		id:     uuid.NewString(),
		config: config,
		logger: nullLogger{},
		chain:  NewChain(),
		hooks:  hook.NewManager(),
		q:      getQueue(),
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	for _, opt := range opts {
		opt(d)
	}

	d.pointers = capture.NewTable(config.PrimaryPointerID, func(e event.Event, s event.Surface) error {
		return d.Dispatch(e, s, Queued)
	})
	d.pointers.SetExclusiveClaim(d.exclusiveClaim)
	d.pointers.SetLogger(d.logger)

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults(opts ...Option) *Dispatcher {
	return New(DefaultConfig(), opts...)
}

// ID returns the dispatcher's unique identifier.
func (d *Dispatcher) ID() string { return d.id }

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config { return d.config }

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *hook.Manager { return d.hooks }

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics { return d.metrics }

// PointerState returns the capture table.
func (d *Dispatcher) PointerState() *capture.Table { return d.pointers }

// Strategies returns the strategy chain.
func (d *Dispatcher) Strategies() *Chain { return d.chain }

// SetClickDetector replaces the click detector.
func (d *Dispatcher) SetClickDetector(cd ClickDetector) { d.clicks = cd }

// QueueLen returns the number of events waiting in the live queue.
func (d *Dispatcher) QueueLen() int { return d.q.Length() }

// DrainDepth returns the number of drains currently running.
func (d *Dispatcher) DrainDepth() int { return d.drainDepth }

// Dispatch hands e to the dispatcher for delivery on s. It routes e right
// away when the gate is open or mode is Immediate, and queues it otherwise.
// Errors from synchronous routing are returned unmodified.
func (d *Dispatcher) Dispatch(e event.Event, s event.Surface, mode Mode) error {
	b := e.EventBase()
	if b.Released() {
		return ErrEventReleased
	}
	b.MarkReceivedByDispatcher()

	if d.config.ignores(e.TypeID()) {
		if d.metrics != nil {
			d.metrics.RecordFiltered()
		}
		return nil
	}

	if mode == Immediate || d.gate == 0 {
		if d.metrics != nil {
			d.metrics.RecordImmediate()
		}
		return d.ProcessOne(e, s)
	}

	if b.Queued() {
		d.violation("dispatcher: %s scheduled while already queued", e.TypeID())
		return ErrAlreadyQueued
	}
	b.Acquire()
	b.SetQueued(true)
	d.q.Add(record{e: e, s: s})
	if d.metrics != nil {
		d.metrics.RecordQueued(d.q.Length())
	}
	return nil
}

// Drain processes every event in the live queue. The queue is detached
// first, so events raised while draining go to a fresh queue and are
// drained by the event that raised them.
//
// An escape signal stops only the item that returned it: the rest of the
// detached queue is still processed and the signal is returned afterwards.
// Any other error stops the drain, releases the unprocessed events, and
// is returned, joined with the escape signal if one was already raised.
func (d *Dispatcher) Drain() error {
	if d.q.Length() == 0 {
		return nil
	}
	if d.config.MaxDrainDepth > 0 && d.drainDepth >= d.config.MaxDrainDepth {
		d.logger.Error("dispatcher: drain depth %d exceeded, %d events left queued",
			d.config.MaxDrainDepth, d.q.Length())
		return ErrDrainTooDeep
	}

	detached := d.q
	d.q = getQueue()
	d.drainDepth++
	if d.metrics != nil {
		d.metrics.RecordDrain(d.drainDepth)
	}
	defer func() {
		d.drainDepth--
		discard(detached)
		putQueue(detached)
	}()

	var exit *ExitFrame
	for detached.Length() > 0 {
		r := detached.Remove().(record)
		err := d.processRecord(r)
		if err == nil {
			continue
		}
		if ef := escapeOf(err); ef != nil {
			if d.metrics != nil {
				d.metrics.RecordEscape()
			}
			if exit != nil {
				d.violation("dispatcher: second escape signal during one drain dropped: %v", ef)
				continue
			}
			exit = ef
			continue
		}
		if exit != nil {
			return errors.Join(err, exit)
		}
		return err
	}

	if exit != nil {
		return exit
	}
	return nil
}

func (d *Dispatcher) processRecord(r record) error {
	b := r.e.EventBase()
	b.SetQueued(false)
	defer b.Dispose()
	return d.ProcessOne(r.e, r.s)
}

// ProcessOne routes e on s while holding the gate, then drains whatever
// was queued meanwhile. The error of the routing and of the nested drain
// are both returned.
func (d *Dispatcher) ProcessOne(e event.Event, s event.Surface) error {
	start := time.Now()
	b := e.EventBase()

	g := d.AcquireGate()
	released := false
	defer func() {
		if !released {
			g.abandon()
			b.SetDispatching(false)
		}
	}()

	d.seq++
	info := &hook.Info{
		DispatcherID: d.id,
		Surface:      s,
		Seq:          d.seq,
		DrainDepth:   d.drainDepth,
		ContextDepth: len(d.contexts),
		Gate:         d.gate,
	}

	b.SetDispatching(true)
	routeErr := d.route(e, s, info)
	b.SetDispatching(false)

	released = true
	drainErr := g.Release()

	if d.metrics != nil {
		d.metrics.RecordProcess(e.TypeID(), time.Since(start), routeErr != nil && escapeOf(routeErr) == nil)
	}

	switch {
	case routeErr == nil:
		return drainErr
	case drainErr == nil:
		return routeErr
	default:
		return errors.Join(routeErr, drainErr)
	}
}

func (d *Dispatcher) route(e event.Event, s event.Surface, info *hook.Info) error {
	b := e.EventBase()

	if pd, ok := e.(event.PreDispatcher); ok {
		pd.PreDispatch(s)
	}
	rejected := !d.hooks.RunPreDispatch(e, info)
	if rejected {
		b.StopDispatch()
		b.PreventDefault()
	}

	if !b.IsDispatchStopped() && !b.IsPropagationStopped() {
		if err := d.chain.Run(e, s); err != nil {
			return err
		}
	}

	if !rejected {
		if err := d.executeDefaultActions(e, s); err != nil {
			return err
		}
	}

	if pd, ok := e.(event.PostDispatcher); ok {
		pd.PostDispatch(s)
	}
	d.hooks.RunPostDispatch(e, info)

	if d.clicks != nil {
		d.clicks.ProcessEvent(e, s)
	}
	return nil
}

// executeDefaultActions runs the surface's default action once per target
// on the event's path, then restores the leaf target. Whether a
// default-prevented event still acts is the surface's decision.
func (d *Dispatcher) executeDefaultActions(e event.Event, s event.Surface) error {
	b := e.EventBase()
	if s == nil {
		return nil
	}
	defer b.RestoreLeafTarget()

	if p := b.Path(); p != nil && len(p.Targets) > 0 {
		for _, t := range p.Targets {
			b.SetTarget(t)
			if err := s.ExecuteDefaultAction(e); err != nil {
				return err
			}
		}
		return nil
	}
	if b.Target() == nil {
		return nil
	}
	return s.ExecuteDefaultAction(e)
}

func (d *Dispatcher) violation(msg string, args ...any) {
	d.logger.Warn(msg, args...)
	if d.metrics != nil {
		d.metrics.RecordViolation()
	}
}
