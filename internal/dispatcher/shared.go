package dispatcher

import "sync"

var (
	sharedMu sync.Mutex
	shared   *Dispatcher
)

// InitShared creates the process-wide shared dispatcher used by hosts
// with a single top-level surface. If it already exists it is returned
// unchanged.
func InitShared(config Config, opts ...Option) *Dispatcher {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = New(config, opts...)
	}
	return shared
}

// Shared returns the shared dispatcher, or nil before InitShared.
func Shared() *Dispatcher {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return shared
}

// TeardownShared forgets the shared dispatcher. Call it on host shutdown.
func TeardownShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = nil
}

// PushDispatcherContext pushes a context on the shared dispatcher.
func PushDispatcherContext() error {
	d := Shared()
	if d == nil {
		return ErrNoSharedDispatcher
	}
	return d.PushContext()
}

// PopDispatcherContext pops a context on the shared dispatcher.
func PopDispatcherContext() error {
	d := Shared()
	if d == nil {
		return ErrNoSharedDispatcher
	}
	return d.PopContext()
}
