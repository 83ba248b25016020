package utils

import (
	"iter"

	"github.com/oomph-ac/ricochet/assert"
)

// CircularQueue is a fixed capacity queue that overwrites its oldest element once full. It is used for
// rolling sample windows.
type CircularQueue[T any] struct {
	items []T
	head  int
	size  int
}

// NewCircularQueue returns an empty queue holding at most capacity items.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	assert.IsTrue(capacity > 0, "circular queue capacity must be positive, got %d", capacity)
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Append adds an item, dropping the oldest one if the queue is full.
func (q *CircularQueue[T]) Append(item T) {
	q.items[(q.head+q.size)%len(q.items)] = item
	if q.size == len(q.items) {
		q.head = (q.head + 1) % len(q.items)
		return
	}
	q.size++
}

// Iter yields the items from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Slice returns a copy of the items from oldest to newest.
func (q *CircularQueue[T]) Slice() []T {
	s := make([]T, 0, q.size)
	for item := range q.Iter() {
		s = append(s, item)
	}
	return s
}

// Len returns the amount of items in the queue.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum amount of items the queue holds.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}
