package randomizedqueue

import (
	"errors"
	"math/rand/v2"
)

// ErrEmpty is returned by Dequeue and Sample when the queue holds no elements.
var ErrEmpty = errors.New("randomizedqueue: empty container")

// initialCapacity is the storage size allocated by the first Enqueue.
const initialCapacity = 8

// RandomizedQueue is an unbounded container with amortized O(1) insertion,
// uniformly random sampling and uniformly random removal.
//
// Live elements always occupy the contiguous prefix buf[0:size]; slots past
// size are reusable. Removal swaps a uniformly chosen element with the last
// live one and shrinks the prefix, so no elements are ever shifted. In
// exchange, insertion order is not preserved and is not part of the contract.
//
// The queue is not safe for concurrent mutation. Concurrent access is
// allowed only if every goroutine is a reader (Sample, Size, Empty,
// iteration).
type RandomizedQueue[T any] struct {
	buf  []T
	size int
	rng  *rand.Rand
}

// New creates an empty queue seeded from the process-global random source.
func New[T any]() *RandomizedQueue[T] {
	return NewSeeded[T](rand.Uint64())
}

// NewSeeded creates an empty queue with a deterministic random source, so
// that a given sequence of operations is reproducible across runs.
func NewSeeded[T any](seed uint64) *RandomizedQueue[T] {
	return &RandomizedQueue[T]{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Enqueue appends value to the queue, doubling the underlying storage when
// it is full. A growth reallocates the storage and invalidates every
// outstanding iterator; so does Dequeue. Iterators must be re-acquired after
// any structural mutation.
func (q *RandomizedQueue[T]) Enqueue(value T) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[q.size] = value
	q.size++
}

// Dequeue removes and returns an element chosen uniformly at random among
// the current contents. It returns ErrEmpty when the queue is empty.
func (q *RandomizedQueue[T]) Dequeue() (T, error) {
	var zero T
	if q.size == 0 {
		return zero, ErrEmpty
	}
	i := q.rng.IntN(q.size)
	last := q.size - 1
	q.buf[i], q.buf[last] = q.buf[last], q.buf[i]
	out := q.buf[last]
	q.buf[last] = zero // release the slot so the GC can reclaim the value
	q.size = last
	return out, nil
}

// Sample returns an element chosen uniformly at random without removing it.
// Consecutive calls are independent draws. It returns ErrEmpty when the
// queue is empty.
func (q *RandomizedQueue[T]) Sample() (T, error) {
	if q.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.buf[q.rng.IntN(q.size)], nil
}

// Size returns the number of elements currently held.
func (q *RandomizedQueue[T]) Size() int {
	return q.size
}

// Empty reports whether the queue holds no elements.
func (q *RandomizedQueue[T]) Empty() bool {
	return q.size == 0
}

func (q *RandomizedQueue[T]) grow() {
	newCap := initialCapacity
	if len(q.buf) > 0 {
		newCap = 2 * len(q.buf)
	}
	next := make([]T, newCap)
	copy(next, q.buf[:q.size])
	q.buf = next
}
