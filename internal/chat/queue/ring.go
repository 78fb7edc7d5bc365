package queue

import "fmt"

// Ring - accumulates a limited number of items in FIFO order.
// When ring length is reached max value, Push drops the oldest item.
// Ring is not safe for concurrent use, the owner must guard it.
type Ring[T any] struct {
	data       []T
	head, size int
}

// NewRing - builds ring with fixed capacity.
func NewRing[T any](max int) (*Ring[T], error) {
	if max <= 0 {
		return nil, fmt.Errorf("queue.NewRing: max (%d) must be greater than 0", max)
	}
	return &Ring[T]{data: make([]T, max)}, nil
}

// Len - returns number of currently queued items.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap - returns max number of items.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Full - reports whether next Push will drop the oldest item.
func (r *Ring[T]) Full() bool {
	return r.size == len(r.data)
}

// Push - appends item to the tail. Returns true if the oldest item was dropped to make room.
func (r *Ring[T]) Push(item T) (dropped bool) {
	if r.Full() {
		var zero T
		r.data[r.head] = zero
		r.head = (r.head + 1) % len(r.data)
		r.size--
		dropped = true
	}
	r.data[(r.head+r.size)%len(r.data)] = item
	r.size++
	return dropped
}

// Pop - removes and returns the oldest item.
func (r *Ring[T]) Pop() (item T, ok bool) {
	if r.size == 0 {
		return item, false
	}
	item = r.data[r.head]
	var zero T
	r.data[r.head] = zero
	r.head = (r.head + 1) % len(r.data)
	r.size--
	return item, true
}

// Reset - drops all queued items.
func (r *Ring[T]) Reset() {
	clear(r.data)
	r.head, r.size = 0, 0
}
