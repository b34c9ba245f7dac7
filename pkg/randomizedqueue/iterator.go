package randomizedqueue

// Iterator is a lightweight cursor into one queue instance: a container
// back-reference plus a logical index. Iterators are plain values, cheap to
// copy and reassign, and two iterators are equal iff they point into the
// same container at the same index.
//
// An iterator stays valid only while its container is not structurally
// mutated (Enqueue/Dequeue). Using it afterwards is a contract violation on
// the caller's side; it is not detected at runtime.
type Iterator[T any] struct {
	q   *RandomizedQueue[T]
	pos int
}

// Begin returns a mutable iterator at the first element.
func (q *RandomizedQueue[T]) Begin() Iterator[T] {
	return Iterator[T]{q: q}
}

// End returns the past-the-end mutable iterator.
func (q *RandomizedQueue[T]) End() Iterator[T] {
	return Iterator[T]{q: q, pos: q.size}
}

// Get returns a copy of the element under the cursor.
func (it Iterator[T]) Get() T {
	return it.q.buf[it.pos]
}

// Ref returns a pointer to the element under the cursor, allowing in-place
// modification of the stored value without reordering the container.
func (it Iterator[T]) Ref() *T {
	return &it.q.buf[it.pos]
}

// At returns a copy of the element n positions past the cursor.
func (it Iterator[T]) At(n int) T {
	return it.q.buf[it.pos+n]
}

// Next returns an iterator advanced by one position.
func (it Iterator[T]) Next() Iterator[T] {
	return Iterator[T]{q: it.q, pos: it.pos + 1}
}

// Prev returns an iterator moved back by one position.
func (it Iterator[T]) Prev() Iterator[T] {
	return Iterator[T]{q: it.q, pos: it.pos - 1}
}

// Add returns an iterator advanced by n positions.
func (it Iterator[T]) Add(n int) Iterator[T] {
	return Iterator[T]{q: it.q, pos: it.pos + n}
}

// Sub returns an iterator moved back by n positions.
func (it Iterator[T]) Sub(n int) Iterator[T] {
	return Iterator[T]{q: it.q, pos: it.pos - n}
}

// Equal reports whether both iterators reference the same container
// instance and the same logical index.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.q == other.q && it.pos == other.pos
}

// Less reports whether the cursor precedes other within the same container.
func (it Iterator[T]) Less(other Iterator[T]) bool {
	return it.pos < other.pos
}

// LessEq reports whether the cursor does not follow other.
func (it Iterator[T]) LessEq(other Iterator[T]) bool {
	return it.pos <= other.pos
}

// GreaterEq reports whether the cursor does not precede other.
func (it Iterator[T]) GreaterEq(other Iterator[T]) bool {
	return it.pos >= other.pos
}

// Distance returns the number of increments needed to reach other.
func (it Iterator[T]) Distance(other Iterator[T]) int {
	return other.pos - it.pos
}

// ConstIterator is the read-only counterpart of Iterator: the same
// navigation surface without Ref. Dereferencing yields copies of the
// stored elements.
type ConstIterator[T any] struct {
	q   *RandomizedQueue[T]
	pos int
}

// CBegin returns a read-only iterator at the first element.
func (q *RandomizedQueue[T]) CBegin() ConstIterator[T] {
	return ConstIterator[T]{q: q}
}

// CEnd returns the past-the-end read-only iterator.
func (q *RandomizedQueue[T]) CEnd() ConstIterator[T] {
	return ConstIterator[T]{q: q, pos: q.size}
}

// Get returns a copy of the element under the cursor.
func (it ConstIterator[T]) Get() T {
	return it.q.buf[it.pos]
}

// At returns a copy of the element n positions past the cursor.
func (it ConstIterator[T]) At(n int) T {
	return it.q.buf[it.pos+n]
}

// Next returns an iterator advanced by one position.
func (it ConstIterator[T]) Next() ConstIterator[T] {
	return ConstIterator[T]{q: it.q, pos: it.pos + 1}
}

// Prev returns an iterator moved back by one position.
func (it ConstIterator[T]) Prev() ConstIterator[T] {
	return ConstIterator[T]{q: it.q, pos: it.pos - 1}
}

// Add returns an iterator advanced by n positions.
func (it ConstIterator[T]) Add(n int) ConstIterator[T] {
	return ConstIterator[T]{q: it.q, pos: it.pos + n}
}

// Sub returns an iterator moved back by n positions.
func (it ConstIterator[T]) Sub(n int) ConstIterator[T] {
	return ConstIterator[T]{q: it.q, pos: it.pos - n}
}

// Equal reports whether both iterators reference the same container
// instance and the same logical index.
func (it ConstIterator[T]) Equal(other ConstIterator[T]) bool {
	return it.q == other.q && it.pos == other.pos
}

// Less reports whether the cursor precedes other within the same container.
func (it ConstIterator[T]) Less(other ConstIterator[T]) bool {
	return it.pos < other.pos
}

// LessEq reports whether the cursor does not follow other.
func (it ConstIterator[T]) LessEq(other ConstIterator[T]) bool {
	return it.pos <= other.pos
}

// GreaterEq reports whether the cursor does not precede other.
func (it ConstIterator[T]) GreaterEq(other ConstIterator[T]) bool {
	return it.pos >= other.pos
}

// Distance returns the number of increments needed to reach other.
func (it ConstIterator[T]) Distance(other ConstIterator[T]) int {
	return other.pos - it.pos
}
