package queue

import (
	"sync"
)

// Queue is a thread-safe FIFO. A bounded queue evicts its oldest items when
// a push would exceed the limit and counts what it dropped.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	limit   int
	dropped uint64
}

// New creates an unbounded queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{items: make([]T, 0)}
}

// NewBounded creates a queue holding at most limit items.
func NewBounded[T any](limit int) *Queue[T] {
	return &Queue[T]{items: make([]T, 0), limit: limit}
}

// Push appends items, evicting from the front when bounded.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
	if q.limit > 0 && len(q.items) > q.limit {
		over := len(q.items) - q.limit
		q.dropped += uint64(over)
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
}

// Pop removes and returns the first item. ok is false when empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many items the bound has evicted so far.
func (q *Queue[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Clear removes all items.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}

// GetAndEmpty returns all items and clears the queue.
func (q *Queue[T]) GetAndEmpty() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := q.items
	q.items = make([]T, 0, cap(q.items))
	return result
}
