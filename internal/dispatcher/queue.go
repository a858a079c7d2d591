package dispatcher

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/dshills/eventgate/internal/event"
)

// record pairs a deferred event with its destination while it is queued.
type record struct {
	e event.Event
	s event.Surface
}

// Detached and replaced queues are recycled process-wide.
var queuePool = sync.Pool{
	New: func() any { return queue.New() },
}

func getQueue() *queue.Queue {
	return queuePool.Get().(*queue.Queue)
}

// putQueue returns an empty queue to the pool.
func putQueue(q *queue.Queue) {
	if q == nil || q.Length() != 0 {
		return
	}
	queuePool.Put(q)
}

// discard releases every record left in q.
func discard(q *queue.Queue) {
	for q.Length() > 0 {
		r := q.Remove().(record)
		b := r.e.EventBase()
		b.SetQueued(false)
		b.Dispose()
	}
}
