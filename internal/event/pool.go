package event

import (
	"sync"
	"sync/atomic"
)

// Pool recycles events of one concrete type. It is safe for concurrent use
// and is meant to be shared process-wide.
type Pool[E Event] struct {
	pool  sync.Pool
	reset func(E)

	live atomic.Int64
	gets atomic.Uint64
}

// NewPool creates a pool. reset clears a recycled event before reuse.
func NewPool[E Event](newFn func() E, reset func(E)) *Pool[E] {
	p := &Pool[E]{reset: reset}
	p.pool.New = func() any { return newFn() }
	return p
}

// Get checks out an event bound to this pool. The caller must Init its Base.
func (p *Pool[E]) Get() E {
	e := p.pool.Get().(E)
	if p.reset != nil {
		p.reset(e)
	}
	e.EventBase().bind(func() { p.put(e) })
	p.live.Add(1)
	p.gets.Add(1)
	return e
}

func (p *Pool[E]) put(e E) {
	p.live.Add(-1)
	p.pool.Put(e)
}

// Live returns the number of checked-out events not yet returned.
func (p *Pool[E]) Live() int64 { return p.live.Load() }

// Gets returns the total number of checkouts.
func (p *Pool[E]) Gets() uint64 { return p.gets.Load() }
