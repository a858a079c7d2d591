// Package strategy provides the dispatch strategies of a panel: pointer
// capture, focus routing for keyboard and command events, and the
// catch-all path propagation. It also provides the hook that synthesizes
// compatibility mouse events from primary pointers.
//
// Strategies learn what the surface can do through small optional
// interfaces (CaptureHost, Picker, Rooted), so any surface can take part.
//
// The usual chain, in priority order:
//
//	dispatcher.WithStrategies(
//	    strategy.NewPointerCapture(),
//	    strategy.NewKeyboard(),
//	    strategy.NewCommand(),
//	    strategy.NewDefault(),
//	)
package strategy
