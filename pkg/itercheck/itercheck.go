// Package itercheck validates that an iterator type honors the contract of
// its declared capability tier. The tiers are expressed as generic type
// constraints over the iterator type itself, so which checks apply is
// decided at compile time by the constraint the caller instantiates, never
// by runtime inspection.
package itercheck

import (
	"github.com/stretchr/testify/require"
)

// TestingT is the subset of *testing.T the checks report through. It is the
// same contract testify's require package accepts, so a *testing.T (or any
// recorder implementing it) plugs in directly.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// Forward is a *type constraint* for single-direction, multipass iterators.
// I is the concrete iterator type itself: Next must return another I, and
// equality is defined between two I values.
type Forward[I, T any] interface {
	Next() I
	Equal(I) bool
	Get() T
}

// Bidirectional iterators can also step backwards.
type Bidirectional[I, T any] interface {
	Forward[I, T]
	Prev() I
}

// RandomAccess iterators support constant-time arithmetic, subscripting,
// ordering and distance on top of bidirectional navigation.
type RandomAccess[I, T any] interface {
	Bidirectional[I, T]
	Add(int) I
	Sub(int) I
	At(int) T
	Less(I) bool
	LessEq(I) bool
	GreaterEq(I) bool
	Distance(I) int
}

// multipassRounds is how many times a range is re-traversed when checking
// the multipass property.
const multipassRounds = 10

// Collect walks [begin, end) once and returns the values in traversal order.
func Collect[T any, I Forward[I, T]](begin, end I) []T {
	var out []T
	for it := begin; !it.Equal(end); it = it.Next() {
		out = append(out, it.Get())
	}
	return out
}

// CheckForward verifies the forward-iterator laws on a non-empty range:
// equality is an equivalence relation, increment advances exactly one
// position and agrees across copies, and the range is multipass: repeated
// traversals from the same begin/end yield the identical value sequence.
func CheckForward[T comparable, I Forward[I, T]](t TestingT, begin, end I) {
	require.False(t, begin.Equal(end), "forward: range must not be empty")

	// Iterators are plain values; a, b and c are independent copies.
	a, b, c := begin, begin, begin
	require.True(t, a.Equal(a), "equality: must be reflexive")
	require.True(t, a.Equal(b) && b.Equal(a), "equality: must be symmetric")
	require.True(t, a.Equal(b) && b.Equal(c) && c.Equal(a), "equality: must be transitive")

	a = a.Next()
	b = b.Next()
	require.True(t, a.Equal(b), "increment: copies advanced once must agree")
	require.False(t, a.Equal(begin), "increment: must advance exactly one position")
	if !a.Equal(end) {
		require.Equal(t, a.Get(), b.Get(), "increment: equal iterators must read the same value")
	}

	expected := Collect[T](begin, end)
	require.NotEmpty(t, expected, "multipass: first pass read no values from a non-empty range")
	for round := 0; round < multipassRounds; round++ {
		i := 0
		for it := begin; !it.Equal(end); it = it.Next() {
			require.Less(t, i, len(expected), "multipass: pass %d is longer than the first pass", round)
			require.Equal(t, expected[i], it.Get(), "multipass: pass %d diverged at position %d", round, i)
			i++
		}
		require.Equal(t, len(expected), i, "multipass: pass %d is shorter than the first pass", round)
	}
}

// CheckBidirectional verifies the forward laws plus the backward ones:
// decrement undoes increment, and walking back from end reproduces the
// forward sequence in exact reverse, element for element.
func CheckBidirectional[T comparable, I Bidirectional[I, T]](t TestingT, begin, end I) {
	CheckForward[T](t, begin, end)

	require.True(t, begin.Next().Prev().Equal(begin), "bidirectional: decrement must undo increment")

	var reference []I
	for it := begin; !it.Equal(end); it = it.Next() {
		reference = append(reference, it)
	}

	back := end
	for i := len(reference) - 1; i >= 0; i-- {
		back = back.Prev()
		require.True(t, back.Equal(reference[i]),
			"bidirectional: reverse traversal diverged at forward position %d", i)
		require.Equal(t, reference[i].Get(), back.Get(),
			"bidirectional: reverse traversal read a different value at forward position %d", i)
	}
	require.True(t, back.Equal(begin), "bidirectional: reverse traversal must end at begin")
}

// CheckRandomAccess verifies the bidirectional laws plus iterator
// arithmetic, subscripting, ordering and distance. The range must hold at
// least two elements for the arithmetic checks to be meaningful.
func CheckRandomAccess[T comparable, I RandomAccess[I, T]](t TestingT, begin, end I) {
	CheckBidirectional[T](t, begin, end)

	l := begin.Distance(end)
	require.GreaterOrEqual(t, l, 2, "random access: range must hold at least 2 elements")
	require.Equal(t, -l, end.Distance(begin), "distance: must be antisymmetric")

	n := l - 1
	last := begin.Add(n)

	stepped := begin
	for j := 0; j < n; j++ {
		stepped = stepped.Next()
	}
	require.True(t, stepped.Equal(last), "arithmetic: Add(n) must equal n increments")
	require.True(t, last.Sub(n).Equal(begin), "arithmetic: Sub(n) must undo Add(n)")
	require.True(t, end.Prev().Equal(last), "arithmetic: Add(len-1) must reach the last element")

	for j := 0; j <= n; j++ {
		require.Equal(t, begin.Add(j).Get(), begin.At(j),
			"subscript: At(%d) must equal advance-then-read", j)
	}

	require.True(t, begin.Less(last), "ordering: begin must precede the last element")
	require.True(t, begin.Less(end), "ordering: begin must precede end")
	require.False(t, last.Less(begin), "ordering: strict order must not be reversible")
	require.False(t, end.Less(begin), "ordering: end must not precede begin")
	require.True(t, begin.LessEq(last), "ordering: non-strict order must hold for begin vs last")
	require.True(t, begin.LessEq(begin), "ordering: non-strict order must be reflexive")
	require.True(t, last.GreaterEq(begin), "ordering: last must not precede begin")
	require.True(t, end.GreaterEq(begin), "ordering: end must not precede begin")
}
