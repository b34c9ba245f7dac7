package itercheck

import (
	"runtime"
	"sync"
)

// Job pairs a range supplier with the check to run on it. Each worker pulls
// its own range once at start and must only read through it. The harness
// validates concurrent read-only traversal, not reader/writer safety.
type Job[I any] struct {
	Range func() (begin, end I)
	Test  func(t TestingT, begin, end I)
}

// RunConcurrent launches one worker goroutine per job and joins all of them
// before returning. Failures from any worker are serialized onto t; a
// worker that fails hard stops only itself, so the join always completes.
func RunConcurrent[I any](t TestingT, jobs []Job[I]) {
	shared := &lockedT{t: t}
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		go func(job Job[I]) {
			defer wg.Done()
			begin, end := job.Range()
			job.Test(shared, begin, end)
		}(job)
	}
	wg.Wait()
}

// lockedT makes a TestingT safe to share between workers. FailNow must not
// kill the whole test from a worker goroutine, so it only terminates the
// calling worker; the failure itself was already recorded through Errorf.
type lockedT struct {
	mu sync.Mutex
	t  TestingT
}

func (l *lockedT) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.t.Errorf(format, args...)
}

func (l *lockedT) FailNow() {
	runtime.Goexit()
}
