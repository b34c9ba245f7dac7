package testbench

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itiviti-cpp-master/randomized-queue-test/internal/queue"
)

// Config is only about read concurrency: how many read-only workers traverse
// the container after the mutation window. Mutation is always single-threaded
// because the container gives no guarantees under concurrent writers.
type Config struct {
	NumReaders int
}

// RunTimedTest drives a single mutator over the container for the given
// duration (two enqueues, one dequeue and one sample per step, so the
// container keeps growing), then freezes it and lets cfg.NumReaders workers
// traverse it concurrently for another window of the same duration. All
// readers are joined before the function returns.
// Returns the total mutating operations, the total elements read across all
// traversals, and the actual elapsed time.
func RunTimedTest[T any, Q queue.Interface[T]](
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
	traverse func() int64,
) (mutationCount int64, traversedCount int64, elapsed time.Duration) {

	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), testDuration)

	// mutationDone is set to 1 when the mutation window expires.
	var mutationDone int32
	go func() {
		<-ctx.Done()
		atomic.StoreInt32(&mutationDone, 1)
	}()

	var mutations int64
	idx := 0
	for atomic.LoadInt32(&mutationDone) == 0 {
		q.Enqueue(valueGenerator(idx))
		q.Enqueue(valueGenerator(idx + 1))
		idx += 2
		mutations += 2
		if _, err := q.Dequeue(); err == nil {
			mutations++
		}
		if _, err := q.Sample(); err == nil {
			mutations++
		}
	}
	cancel()

	// Read window: the container is structurally frozen from here on, so
	// concurrent traversals are within contract.
	var totalTraversed int64
	if cfg.NumReaders > 0 && q.Size() > 0 {
		readCtx, readCancel := context.WithTimeout(context.Background(), testDuration)
		defer readCancel()

		var readersDone int32
		go func() {
			<-readCtx.Done()
			atomic.StoreInt32(&readersDone, 1)
		}()

		var wg sync.WaitGroup
		wg.Add(cfg.NumReaders)
		for i := 0; i < cfg.NumReaders; i++ {
			go func() {
				defer wg.Done()
				for atomic.LoadInt32(&readersDone) == 0 {
					atomic.AddInt64(&totalTraversed, traverse())
				}
			}()
		}
		wg.Wait()
	}

	elapsed = time.Since(start)
	mutationCount = mutations
	traversedCount = atomic.LoadInt64(&totalTraversed)
	return mutationCount, traversedCount, elapsed
}
