package queue

// Interface is a *type constraint* that ensures any container type Q has
// these methods. We never store Q in a runtime interface—
// we only use Interface at compile time to ensure matching signatures.
type Interface[T any] interface {
	// Enqueue adds an element to the container, growing storage as needed.
	Enqueue(T)

	// Dequeue removes and returns an element chosen uniformly at random.
	// When the container is empty it returns a classifiable error instead.
	Dequeue() (T, error)

	// Sample returns a uniformly random element without removing it.
	// When the container is empty it returns a classifiable error instead.
	Sample() (T, error)

	// Size returns how many elements are currently held.
	Size() int

	// Empty reports whether no elements are held.
	Empty() bool
}
