// Package click recognizes clicks and click streaks from fully processed
// pointer events.
package click

import (
	"time"

	"gioui.org/f32"

	"github.com/dshills/eventgate/internal/dispatcher"
	"github.com/dshills/eventgate/internal/event"
)

// Default thresholds.
const (
	DefaultMaxTime     = 500 * time.Millisecond
	DefaultMaxDistance = 4
)

// Config holds click detection thresholds.
type Config struct {
	// MaxTime is the longest pause between presses of one streak.
	MaxTime time.Duration

	// MaxDistance is the largest Manhattan distance between presses of
	// one streak.
	MaxDistance float32
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MaxTime:     DefaultMaxTime,
		MaxDistance: DefaultMaxDistance,
	}
}

type press struct {
	target event.Target
	count  int
}

// Detector watches PointerDown and PointerUp pairs. A release over the
// element that received the press dispatches a Click event carrying the
// streak count.
type Detector struct {
	d        *dispatcher.Dispatcher
	config   Config
	trackers map[int]*tracker
	pressed  map[int]press
}

// New creates a detector dispatching clicks through d.
func New(d *dispatcher.Dispatcher, config Config) *Detector {
	if config.MaxTime <= 0 {
		config.MaxTime = DefaultMaxTime
	}
	if config.MaxDistance < 0 {
		config.MaxDistance = 0
	}
	return &Detector{
		d:        d,
		config:   config,
		trackers: make(map[int]*tracker),
		pressed:  make(map[int]press),
	}
}

// SetConfig replaces the thresholds. Running streaks are reset.
func (c *Detector) SetConfig(config Config) {
	c.config = config
	c.trackers = make(map[int]*tracker)
}

// ProcessEvent implements dispatcher.ClickDetector.
func (c *Detector) ProcessEvent(e event.Event, s event.Surface) {
	p, ok := e.(*event.PointerEvent)
	if !ok {
		return
	}

	switch p.TypeID() {
	case event.PointerDown:
		target := p.LeafTarget()
		if target == nil {
			return
		}
		count := c.tracker(p.PointerID).record(p.Position, p.Timestamp())
		c.pressed[p.PointerID] = press{target: target, count: count}

	case event.PointerUp:
		pr, ok := c.pressed[p.PointerID]
		delete(c.pressed, p.PointerID)
		if !ok || p.LeafTarget() != pr.target {
			return
		}
		c.send(pr.target, p.PointerID, p.Position, pr.count, s)

	case event.PointerCancel:
		delete(c.pressed, p.PointerID)
		if t := c.trackers[p.PointerID]; t != nil {
			t.reset()
		}
	}
}

func (c *Detector) send(target event.Target, id int, pos f32.Point, count int, s event.Surface) {
	ce := event.GetClickEvent(target, id, pos, count)
	defer ce.Dispose()
	// Only fails for released or already queued events; ce is neither.
	_ = c.d.Dispatch(ce, s, dispatcher.Queued)
}

func (c *Detector) tracker(id int) *tracker {
	t := c.trackers[id]
	if t == nil {
		t = newTracker(c.config.MaxTime, c.config.MaxDistance)
		c.trackers[id] = t
	}
	return t
}

// StreakCount returns the count of the last press of a pointer.
func (c *Detector) StreakCount(id int) int {
	if t := c.trackers[id]; t != nil {
		return t.lastCount
	}
	return 0
}

// Reset forgets all presses and streaks.
func (c *Detector) Reset() {
	c.trackers = make(map[int]*tracker)
	c.pressed = make(map[int]press)
}
