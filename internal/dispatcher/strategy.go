package dispatcher

import "github.com/dshills/eventgate/internal/event"

// Strategy handles a family of events.
type Strategy interface {
	// CanHandle reports whether the strategy wants e.
	CanHandle(e event.Event) bool

	// Handle routes e on the surface. A returned error aborts processing
	// of e and propagates to the caller of Dispatch.
	Handle(e event.Event, s event.Surface) error
}

// StrategyFunc adapts a pair of functions to Strategy.
type StrategyFunc struct {
	Match func(e event.Event) bool
	Fn    func(e event.Event, s event.Surface) error
}

// CanHandle implements Strategy.
func (f StrategyFunc) CanHandle(e event.Event) bool {
	return f.Match != nil && f.Match(e)
}

// Handle implements Strategy.
func (f StrategyFunc) Handle(e event.Event, s event.Surface) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(e, s)
}

// Chain is an ordered list of strategies tried until one consumes the event.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a chain with the given strategies in priority order.
func NewChain(strategies ...Strategy) *Chain {
	c := &Chain{}
	c.Append(strategies...)
	return c
}

// Append adds strategies after the existing ones.
func (c *Chain) Append(strategies ...Strategy) {
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
}

// Len returns the number of strategies.
func (c *Chain) Len() int { return len(c.strategies) }

// Run offers e to each strategy in order. It stops after the first
// strategy that leaves the event with dispatch or propagation stopped.
func (c *Chain) Run(e event.Event, s event.Surface) error {
	b := e.EventBase()
	for _, st := range c.strategies {
		if !st.CanHandle(e) {
			continue
		}
		if err := st.Handle(e, s); err != nil {
			return err
		}
		if b.IsDispatchStopped() || b.IsPropagationStopped() {
			return nil
		}
	}
	return nil
}
