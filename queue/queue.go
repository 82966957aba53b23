// Package queue provides a minimal unbounded FIFO queue backed by a singly linked list.
//
// Queue is not safe for concurrent use; callers serialize access themselves.
// Depth is not limited by the queue; in this module it is bounded by the stage concurrency cap.
package queue

import "iter"

type node[T any] struct {
	value T
	next  *node[T]
}

// Queue is a first-in-first-out container. The zero value is an empty queue ready to use.
type Queue[T any] struct {
	head *node[T]
	tail *node[T]
	size int
}

// New returns a queue holding values in the given order, head first.
func New[T any](values ...T) *Queue[T] {
	q := &Queue[T]{}
	for _, v := range values {
		q.Enqueue(v)
	}
	return q
}

// Enqueue appends v at the tail in O(1).
func (q *Queue[T]) Enqueue(v T) {
	n := &node[T]{value: v}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.size++
}

// Dequeue removes and returns the head value.
// It reports false when the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	if q.head == nil {
		var zero T
		return zero, false
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	n.next = nil // let the removed node be collected independently of the rest
	q.size--
	return n.value, true
}

// Peek returns the head value without removing it.
// It reports false when the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if q.head == nil {
		var zero T
		return zero, false
	}
	return q.head.value, true
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int { return q.size }

// All yields values head to tail without removing them.
// Mutating the queue while iterating is not supported.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := q.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Values returns a snapshot of the queued values, head first.
func (q *Queue[T]) Values() []T {
	out := make([]T, 0, q.size)
	for v := range q.All() {
		out = append(out, v)
	}
	return out
}
