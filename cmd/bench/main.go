package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"github.com/itiviti-cpp-master/randomized-queue-test/internal/testbench"
	"github.com/itiviti-cpp-master/randomized-queue-test/pkg/randomizedqueue"
)

// BenchmarkResult holds results for one test run.
type BenchmarkResult struct {
	Workload        string  `json:"workload"`
	NumReaders      int     `json:"num_readers"`
	NumMutations    int64   `json:"num_mutations"`          // mutating ops in the write window
	NumTraversed    int64   `json:"num_elements_traversed"` // elements read across all readers
	TestDuration    string  `json:"test_duration"`          // e.g. "5s" per window
	ActualElapsed   string  `json:"actual_elapsed"`         // measured time
	MutationsPerSec float64 `json:"mutations_per_sec"`
	TraversedPerSec float64 `json:"elements_traversed_per_sec"`
	Timestamp       int64   `json:"timestamp"`
	GoVersion       string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU            int     `json:"num_cpu"`
	TrueCPU           int     `json:"true_cpu,omitempty"`
	SimulatedCPUCount int     `json:"simulated_cpu_count,omitempty"`
	CPUModel          string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz       float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH            string  `json:"go_arch"`
	TotalMemory       uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// Workload describes one benchmark scenario over the randomized queue.
type Workload struct {
	name        string
	description string
	features    []string
	prefill     int
	run         func(cfg testbench.Config, d time.Duration) (mutations, traversed int64, elapsed time.Duration)
}

type tableRow struct {
	workload   string
	features   string
	numReaders int
	mutPerSec  float64
	scanPerSec float64
}

// summaryRows flattens one session into sorted markdown table rows.
func summaryRows(session FullReport, workloads []Workload) []tableRow {
	metaMap := make(map[string]Workload, len(workloads))
	for _, w := range workloads {
		metaMap[w.name] = w
	}
	var rows []tableRow
	for _, bench := range session.Benchmarks {
		var features string
		if meta, ok := metaMap[bench.Workload]; ok {
			features = strings.Join(meta.features, ", ")
		}
		rows = append(rows, tableRow{
			workload:   bench.Workload,
			features:   features,
			numReaders: bench.NumReaders,
			mutPerSec:  bench.MutationsPerSec,
			scanPerSec: bench.TraversedPerSec,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].workload != rows[j].workload {
			return rows[i].workload < rows[j].workload
		}
		return rows[i].numReaders < rows[j].numReaders
	})
	return rows
}

// outputMarkdownTable loads the JSON file and outputs a Markdown table.
func outputMarkdownTable(jsonFile string) {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		logrus.WithError(err).Fatalf("reading JSON file %q", jsonFile)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		logrus.WithError(err).Fatal("unmarshalling JSON")
	}
	if len(sessions) == 0 {
		logrus.Fatal("no sessions found in JSON")
	}
	// Use the last session for the table.
	rows := summaryRows(sessions[len(sessions)-1], getWorkloads())

	fmt.Println("## Last Session Benchmark Summary")
	fmt.Println()
	fmt.Println("| Workload             | Features                    | Readers | Mutations/sec | Elements scanned/sec |")
	fmt.Println("|----------------------|-----------------------------|---------|---------------|----------------------|")
	for _, r := range rows {
		fmt.Printf("| %-20s | %-27s | %7d | %13.0f | %20.0f |\n",
			r.workload, r.features, r.numReaders, r.mutPerSec, r.scanPerSec)
	}
}

func main() {
	// Flags.
	testIterations := flag.Int("iter", 5, "Number of test iterations per reader setting")
	cpuMaxFlag := flag.Int("cpu", 0, "If non-zero, test only that GOMAXPROCS value; if 0, test common CPU/vCPU values up to runtime.NumCPU()")
	jsonExport := flag.Bool("json", false, "Export results as JSON to test-results.json")
	highConcurrency := flag.Bool("high-concurrency", false, "Include high reader-count configurations")
	markdownTable := flag.Bool("markdown-table", false, "Output markdown table from test-results.json and exit")
	jsonFileForMarkdown := flag.String("jsonfile", "test-results.json", "Path to JSON file for markdown table")
	progressFlag := flag.Bool("progress", false, "Display a progress bar with ETA")
	durationFlag := flag.Duration("duration", 5*time.Second, "Duration of each mutation/read window")
	flag.Parse()

	if *markdownTable {
		outputMarkdownTable(*jsonFileForMarkdown)
		return
	}

	trueCpuCount := runtime.NumCPU()
	var cpuSettings []int
	// Define the common CPU/vCPU settings.
	commonCPUs := []int{1, 2, 3, 4, 6, 8, 12, 16, 32, 48, 56, 64, 96, 128}

	if *cpuMaxFlag > 0 {
		desired := *cpuMaxFlag
		if desired > trueCpuCount {
			desired = trueCpuCount
		}
		cpuSettings = []int{desired}
	} else {
		for _, v := range commonCPUs {
			if v <= trueCpuCount {
				cpuSettings = append(cpuSettings, v)
			}
		}
	}

	// Define reader configurations.
	readerConfigs := []testbench.Config{
		{NumReaders: 1},
		{NumReaders: 4},
		{NumReaders: 16},
	}
	if *highConcurrency {
		readerConfigs = append(readerConfigs,
			testbench.Config{NumReaders: 64},
			testbench.Config{NumReaders: 128},
		)
	}

	testDuration := *durationFlag

	// Calculate total number of tests for progress tracking.
	workloads := getWorkloads()
	totalTests := len(cpuSettings) * len(readerConfigs) * (*testIterations) * len(workloads)

	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.NewOptions(totalTests,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
		)
	}

	var allSessions []FullReport

	// Iterate over the desired GOMAXPROCS settings.
	for _, cpus := range cpuSettings {
		runtime.GOMAXPROCS(cpus)
		sysInfo := gatherSystemInfo()
		sysInfo.NumCPU = cpus
		sysInfo.TrueCPU = trueCpuCount
		sysInfo.SimulatedCPUCount = cpus

		fmt.Printf("\n=============================\n")
		fmt.Printf("GOMAXPROCS = %d\n", cpus)
		fmt.Printf("=============================\n")

		var results []BenchmarkResult

		for _, cfg := range readerConfigs {
			fmt.Printf("  [Readers: %d]\n", cfg.NumReaders)
			for iteration := 1; iteration <= *testIterations; iteration++ {
				fmt.Printf("    iteration %d/%d\n", iteration, *testIterations)
				for _, w := range workloads {
					runtime.GC()

					mutations, traversed, actualTime := w.run(cfg, testDuration)
					mutPerSec := float64(mutations) / actualTime.Seconds()
					scanPerSec := float64(traversed) / actualTime.Seconds()

					fmt.Printf("    %s => mutations=%d, scanned=%d, %.0f muts/s, took=%v\n",
						w.name, mutations, traversed, mutPerSec, actualTime)

					if bar != nil {
						_ = bar.Add(1)
					}

					results = append(results, BenchmarkResult{
						Workload:        w.name,
						NumReaders:      cfg.NumReaders,
						NumMutations:    mutations,
						NumTraversed:    traversed,
						TestDuration:    testDuration.String(),
						ActualElapsed:   actualTime.String(),
						MutationsPerSec: mutPerSec,
						TraversedPerSec: scanPerSec,
						Timestamp:       time.Now().Unix(),
						GoVersion:       runtime.Version(),
					})
				}
			}
		}

		allSessions = append(allSessions, FullReport{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  sysInfo,
			Benchmarks:  results,
		})
	}

	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	// If JSON export is requested, append the new sessions to test-results.json.
	if *jsonExport {
		const filename = "test-results.json"
		var previous []FullReport
		if _, err := os.Stat(filename); err == nil {
			data, err := os.ReadFile(filename)
			if err == nil && len(data) > 0 {
				if err := json.Unmarshal(data, &previous); err != nil {
					logrus.WithError(err).Warnf("ignoring unreadable previous results in %s", filename)
					previous = nil
				}
			}
		}
		updated := append(previous, allSessions...)
		data, err := json.MarshalIndent(updated, "", "  ")
		if err != nil {
			logrus.WithError(err).Fatal("marshalling JSON")
		}
		if err = os.WriteFile(filename, data, 0644); err != nil {
			logrus.WithError(err).Fatal("writing JSON file")
		}
		fmt.Printf("\nWrote results to %s\n", filename)
	}
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	numCPU := runtime.NumCPU()
	goArch := runtime.GOARCH

	var cpuModel string
	var cpuSpeed float64
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
		cpuSpeed = infos[0].Mhz
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}

	return SystemInfo{
		NumCPU:      numCPU,
		CPUModel:    cpuModel,
		CPUSpeedMHz: cpuSpeed,
		GOARCH:      goArch,
		TotalMemory: totalMemory,
	}
}

// runWorkload builds a queue with the given prefill and drives one timed run.
func runWorkload(prefill int, cfg testbench.Config, d time.Duration) (int64, int64, time.Duration) {
	q := randomizedqueue.New[int]()
	for i := 0; i < prefill; i++ {
		q.Enqueue(i)
	}
	traverse := func() int64 {
		var n int64
		for it := q.CBegin(); !it.Equal(q.CEnd()); it = it.Next() {
			n++
		}
		return n
	}
	return testbench.RunTimedTest[int](q, cfg, d, func(i int) int { return prefill + i }, traverse)
}

// getWorkloads enumerates the benchmark scenarios.
func getWorkloads() []Workload {
	workloads := []Workload{
		{
			name:        "ColdStart",
			description: "Empty queue; measures growth-dominated mutation throughput.",
			features:    []string{"Mutation", "Growth"},
			prefill:     0,
		},
		{
			name:        "Prefilled64K",
			description: "Queue prefilled with 64Ki elements before the mutation window.",
			features:    []string{"Mutation", "Prefill"},
			prefill:     1 << 16,
		},
		{
			name:        "ScanHeavy1M",
			description: "Queue prefilled with 1Mi elements; the read window dominates.",
			features:    []string{"Prefill", "Concurrent-Read"},
			prefill:     1 << 20,
		},
	}
	for i := range workloads {
		prefill := workloads[i].prefill
		workloads[i].run = func(cfg testbench.Config, d time.Duration) (int64, int64, time.Duration) {
			return runWorkload(prefill, cfg, d)
		}
	}
	return workloads
}
