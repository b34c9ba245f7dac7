package main

import (
	"testing"
	"time"

	"github.com/itiviti-cpp-master/randomized-queue-test/internal/testbench"
)

// withAllWorkloads is a test helper that loops over all workloads and calls
// the test function for each one as a subtest.
func withAllWorkloads(t *testing.T, fn func(t *testing.T, w Workload)) {
	t.Helper()
	for _, w := range getWorkloads() {
		w := w // capture range variable
		t.Run(w.name, func(t *testing.T) {
			if w.run == nil {
				t.Skipf("Skipping stub workload %q", w.name)
				return
			}
			fn(t, w)
		})
	}
}

func TestWorkloadsProduceCounts(t *testing.T) {
	withAllWorkloads(t, func(t *testing.T, w Workload) {
		mutations, traversed, elapsed := w.run(testbench.Config{NumReaders: 2}, 30*time.Millisecond)
		if mutations <= 0 {
			t.Fatalf("Expected mutations > 0, got %d", mutations)
		}
		if traversed <= 0 {
			t.Fatalf("Expected traversed elements > 0, got %d", traversed)
		}
		if elapsed <= 0 {
			t.Fatalf("Expected positive elapsed time, got %v", elapsed)
		}
	})
}

func TestWorkloadMetadata(t *testing.T) {
	seen := make(map[string]bool)
	for _, w := range getWorkloads() {
		if w.name == "" {
			t.Fatal("Workload with empty name")
		}
		if seen[w.name] {
			t.Fatalf("Duplicate workload name %q", w.name)
		}
		seen[w.name] = true
		if len(w.features) == 0 {
			t.Fatalf("Workload %q declares no features", w.name)
		}
	}
}

func TestSummaryRowsOrdering(t *testing.T) {
	session := FullReport{
		Benchmarks: []BenchmarkResult{
			{Workload: "ScanHeavy1M", NumReaders: 16, MutationsPerSec: 10},
			{Workload: "ColdStart", NumReaders: 4, MutationsPerSec: 30},
			{Workload: "ColdStart", NumReaders: 1, MutationsPerSec: 20},
		},
	}
	rows := summaryRows(session, getWorkloads())
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].workload != "ColdStart" || rows[0].numReaders != 1 {
		t.Fatalf("Unexpected first row: %+v", rows[0])
	}
	if rows[1].workload != "ColdStart" || rows[1].numReaders != 4 {
		t.Fatalf("Unexpected second row: %+v", rows[1])
	}
	if rows[2].workload != "ScanHeavy1M" {
		t.Fatalf("Unexpected third row: %+v", rows[2])
	}
	if rows[0].features == "" {
		t.Fatal("Expected workload features to be resolved from metadata")
	}
}

func TestGatherSystemInfo(t *testing.T) {
	info := gatherSystemInfo()
	if info.NumCPU <= 0 {
		t.Fatalf("Expected NumCPU > 0, got %d", info.NumCPU)
	}
	if info.GOARCH == "" {
		t.Fatal("Expected GOARCH to be set")
	}
}
