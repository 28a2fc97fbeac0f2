package frame

import (
	"sync"
	"time"
)

// Callback runs once on the frame it was scheduled for.
type Callback func(now time.Time)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

type Scheduler interface {
	Schedule(cb Callback) Handle
	Cancel(h Handle)
}

// Queue holds callbacks until the next Flush. Callbacks registered while a
// flush is running wait for the following flush.
type Queue struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]Callback
	order   []Handle
}

func NewQueue() *Queue {
	return &Queue{pending: make(map[Handle]Callback)}
}

func (q *Queue) Schedule(cb Callback) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	h := q.next
	q.pending[h] = cb
	q.order = append(q.order, h)
	return h
}

// Cancel drops a pending callback. Unknown or already-run handles are ignored.
func (q *Queue) Cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, h)
}

// Flush runs every callback that was pending when it started, in scheduling
// order, and returns how many ran.
func (q *Queue) Flush(now time.Time) int {
	q.mu.Lock()
	batch := q.order
	q.order = nil
	q.mu.Unlock()

	ran := 0
	for _, h := range batch {
		q.mu.Lock()
		cb, ok := q.pending[h]
		delete(q.pending, h)
		q.mu.Unlock()

		if !ok {
			continue
		}
		cb(now)
		ran++
	}
	return ran
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
