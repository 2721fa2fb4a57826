// Package queue is the handoff between the intake manager and the commit
// manager. It is a strict FIFO: records come out in exactly the order they
// were pushed, each record is seen by the single consumer once.
package queue

import (
	"context"
	"sync"

	"github.com/logpile/logpile/types"
)

// Queue is an unbounded FIFO of records. Push never blocks; Pop suspends the
// consumer until a record is available instead of spinning.
type Queue struct {
	mu      sync.Mutex
	records []*types.Record

	// cap 1, single consumer re-checks the slice after every wakeup so a
	// coalesced notification is never a lost one
	notify chan struct{}
}

// New .
func New() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
	}
}

// Push appends a record at the tail and wakes the consumer.
func (q *Queue) Push(record *types.Record) {
	q.mu.Lock()
	q.records = append(q.records, record)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Pop removes and returns the head record, blocking until one is available
// or ctx is cancelled.
func (q *Queue) Pop(ctx context.Context) (*types.Record, error) {
	for {
		if record, ok := q.TryPop(); ok {
			return record, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		}
	}
}

// TryPop removes and returns the head record without blocking.
func (q *Queue) TryPop() (*types.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.records) == 0 {
		return nil, false
	}

	record := q.records[0]
	q.records[0] = nil
	q.records = q.records[1:]
	return record, true
}

// Depth returns how many records are waiting to be committed.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}
