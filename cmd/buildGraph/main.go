package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// BenchmarkResult holds one benchmark result from the bench tool.
type BenchmarkResult struct {
	Workload        string  `json:"workload"`
	NumReaders      int     `json:"num_readers"`
	NumMutations    int64   `json:"num_mutations"`
	NumTraversed    int64   `json:"num_elements_traversed"`
	TestDuration    string  `json:"test_duration"`
	ActualElapsed   string  `json:"actual_elapsed"`
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

// readerStats holds "5%-avg-min", median, and "5%-avg-max" per reader count.
type readerStats struct {
	x      float64 // plotted category position, possibly offset
	orig   float64 // original reader count
	min    float64 // average of bottom 5%
	median float64
	max    float64 // average of top 5%
}

// statsPoints implements XYer and YErrorer so we can plot lines + error bars.
type statsPoints []readerStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	low = s[i].median - s[i].min
	high = s[i].max - s[i].median
	return low, high
}

// categoryTicks implements a categorical X-axis: 0,1,2,... => reader counts.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

func main() {
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	outputPrefix := flag.String("out", "benchmark_graph", "Output graph image filename prefix")
	flag.Parse()

	data, err := os.ReadFile(*jsonFile)
	if err != nil {
		logrus.WithError(err).Fatalf("reading JSON file %q", *jsonFile)
	}

	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		logrus.WithError(err).Fatal("unmarshalling JSON")
	}

	// Group data by CPU count -> workload -> reader count -> ns/mutation samples.
	pointsByCPU := make(map[int]map[string]map[float64][]float64)

	for _, session := range sessions {
		cpus := session.SystemInfo.SimulatedCPUCount
		if cpus == 0 {
			cpus = session.SystemInfo.NumCPU
		}

		if _, ok := pointsByCPU[cpus]; !ok {
			pointsByCPU[cpus] = make(map[string]map[float64][]float64)
		}

		for _, b := range session.Benchmarks {
			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumMutations == 0 {
				continue
			}
			nsPerMutation := float64(dur.Nanoseconds()) / float64(b.NumMutations)

			workloadMap := pointsByCPU[cpus]
			if _, ok := workloadMap[b.Workload]; !ok {
				workloadMap[b.Workload] = make(map[float64][]float64)
			}
			x := float64(b.NumReaders)
			workloadMap[b.Workload][x] = append(workloadMap[b.Workload][x], nsPerMutation)
		}
	}

	// For each CPU group, produce a separate plot.
	for cpus, workloadMap := range pointsByCPU {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Mutation cost (5%%-avg-min / Median / 5%%-avg-max) vs. Readers for %d CPU(s)", cpus)
		p.X.Label.Text = "Concurrent read workers"
		p.Y.Label.Text = "Time per mutation"

		// Dark theme.
		p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
		white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		p.Title.TextStyle.Color = white
		p.X.Label.TextStyle.Color = white
		p.Y.Label.TextStyle.Color = white
		p.X.Color = white
		p.Y.Color = white
		p.X.Tick.Label.Color = white
		p.Y.Tick.Label.Color = white
		p.Legend.Top = true
		p.Legend.Left = true
		p.Legend.TextStyle.Color = white

		p.Y.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
			ticks := plot.DefaultTicks{}.Ticks(min, max)
			for i := range ticks {
				if ticks[i].Label != "" {
					ticks[i].Label = formatNs(ticks[i].Value)
				}
			}
			return ticks
		})

		p.Add(plotter.NewGrid())

		// Union of reader counts seen in this CPU group.
		readerSet := make(map[float64]struct{})
		for _, readerMap := range workloadMap {
			for readers := range readerMap {
				readerSet[readers] = struct{}{}
			}
		}
		var readerValues []float64
		for val := range readerSet {
			readerValues = append(readerValues, val)
		}
		sort.Float64s(readerValues)

		// Map reader count => category index so the X-axis is evenly spaced.
		readerMapping := make(map[float64]float64)
		var positions []float64
		var labels []string
		for i, val := range readerValues {
			readerMapping[val] = float64(i)
			positions = append(positions, float64(i))
			labels = append(labels, strconv.FormatFloat(val, 'f', -1, 64))
		}
		p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

		// Sort workloads alphabetically for consistent legend ordering.
		var workloadNames []string
		for name := range workloadMap {
			workloadNames = append(workloadNames, name)
		}
		sort.Strings(workloadNames)

		colors := plotutil.SoftColors
		shapes := []draw.GlyphDrawer{
			draw.CircleGlyph{},
			draw.SquareGlyph{},
			draw.TriangleGlyph{},
			draw.CrossGlyph{},
			draw.PlusGlyph{},
		}

		// Slight horizontal offset per workload so error bars do not overlap.
		offsetRange := 0.4
		offsetStep := offsetRange / float64(len(workloadNames))
		startOffset := -offsetRange/2 + offsetStep/2

		for i, name := range workloadNames {
			stats := buildStats(workloadMap[name])
			if len(stats) == 0 {
				continue
			}
			for j := range stats {
				base := readerMapping[stats[j].orig]
				stats[j].x = base + startOffset + float64(i)*offsetStep
			}
			sort.Slice(stats, func(a, b int) bool {
				return stats[a].x < stats[b].x
			})
			sp := statsPoints(stats)

			line, err := plotter.NewLine(sp)
			if err != nil {
				logrus.WithError(err).Warnf("creating line for %q", name)
				continue
			}
			line.Color = colors[i%len(colors)]

			points, err := plotter.NewScatter(sp)
			if err != nil {
				logrus.WithError(err).Warnf("creating scatter for %q", name)
				continue
			}
			points.GlyphStyle.Radius = vg.Points(5)
			points.Color = colors[i%len(colors)]
			points.Shape = shapes[i%len(shapes)]

			yErrBars, err := plotter.NewYErrorBars(sp)
			if err != nil {
				logrus.WithError(err).Warnf("creating error bars for %q", name)
				continue
			}
			yErrBars.Color = colors[i%len(colors)]

			p.Add(line, points, yErrBars)
			p.Legend.Add(name, line, points)
		}

		filename := fmt.Sprintf("%s_%d.png", *outputPrefix, cpus)
		if err := p.Save(12*vg.Inch, 9*vg.Inch, filename); err != nil {
			logrus.WithError(err).Warnf("saving plot for %d CPU(s)", cpus)
			continue
		}
		fmt.Printf("Graph for %d CPU(s) saved to %s\n", cpus, filename)
	}
}

// buildStats computes "average of bottom 5%", median, and "average of top 5%"
// for every reader count in the map.
func buildStats(readerMap map[float64][]float64) []readerStats {
	var out []readerStats
	for x, vals := range readerMap {
		if len(vals) == 0 {
			continue
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)

		out = append(out, readerStats{
			x:      x,
			orig:   x,
			min:    averageOfRange(sorted, 0.0, 0.05),
			median: median(sorted),
			max:    averageOfRange(sorted, 0.95, 1.0),
		})
	}
	return out
}

// averageOfRange returns the average of sortedVals in [startFrac, endFrac) of
// its length. E.g. averageOfRange(vals, 0, 0.05) averages the bottom 5%.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	startIndex := int(float64(n) * startFrac)
	endIndex := int(float64(n) * endFrac)
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > n {
		endIndex = n
	}
	if startIndex >= endIndex {
		// Too few samples for a 5% slice; fall back to the median.
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

// median expects its input already sorted.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs renders a nanosecond quantity with a readable unit.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
