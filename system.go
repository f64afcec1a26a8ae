package frameprof

import (
	"fmt"
	"math/bits"
	"runtime/metrics"
	"time"
)

// Values selects which built-in measurements a SystemProfiler tracks.
// Combine with bitwise or.
type Values uint8

const (
	// FrameTime is the wall time between two consecutive frame begins,
	// in Nanoseconds. Delayed by 2 frames, so it needs a window of at
	// least 2.
	FrameTime Values = 1 << iota
	// CPUDuration is the wall time the program spends between the
	// begin and end of a frame, in Nanoseconds. Immediate.
	CPUDuration
	// HeapAllocs is the number of bytes allocated to the heap during
	// the frame, in Bytes. Immediate.
	HeapAllocs
	// GCCycles is the number of garbage-collection cycles completed
	// during the frame, in Count. Immediate.
	GCCycles
	// Goroutines is the number of live goroutines sampled at the end
	// of the frame, in Count. Immediate.
	Goroutines
)

// Has reports whether v contains all values in q.
func (v Values) Has(q Values) bool {
	return v&q == q
}

// SystemProfiler is a Profiler preloaded with measurements backed by
// the Go runtime, mirroring what a frame loop usually wants to watch:
// frame pacing, per-frame CPU time, allocation pressure, GC activity
// and goroutine growth. Use it by pointer; the measurement callbacks
// reference the profiler's own state.
type SystemProfiler struct {
	Profiler
	values Values

	frameTimes [2]time.Time
	cpuStart   time.Time

	allocsSample    []metrics.Sample
	allocsStart     uint64
	gcSample        []metrics.Sample
	gcStart         uint64
	goroutineSample []metrics.Sample
}

// NewSystemProfiler creates a system profiler tracking the given values
// over a moving window of maxFrameCount frames. Panics under the same
// conditions as Setup; in particular FrameTime needs maxFrameCount of
// at least 2.
func NewSystemProfiler(values Values, maxFrameCount int) *SystemProfiler {
	s := &SystemProfiler{}
	s.Setup(values, maxFrameCount)
	return s
}

// Setup replaces the tracked values and window size, rebuilding the
// underlying measurement list. Measurement order follows the order the
// Values constants are declared in.
func (s *SystemProfiler) Setup(values Values, maxFrameCount int) {
	s.values = values
	ms := make([]Measurement, 0, bits.OnesCount8(uint8(values)))

	if values.Has(FrameTime) {
		ms = append(ms, NewDelayedMeasurement("Frame time", Nanoseconds, 2,
			func(current int) { s.frameTimes[current] = time.Now() },
			nil,
			func(previous, current int) uint64 {
				return uint64(s.frameTimes[current].Sub(s.frameTimes[previous]))
			}))
	}
	if values.Has(CPUDuration) {
		ms = append(ms, NewMeasurement("CPU duration", Nanoseconds,
			func() { s.cpuStart = time.Now() },
			func() uint64 { return uint64(time.Since(s.cpuStart)) }))
	}
	if values.Has(HeapAllocs) {
		s.allocsSample = runtimeSample("/gc/heap/allocs:bytes")
		ms = append(ms, NewMeasurement("Heap allocations", Bytes,
			func() { s.allocsStart = readRuntimeSample(s.allocsSample) },
			func() uint64 { return readRuntimeSample(s.allocsSample) - s.allocsStart }))
	}
	if values.Has(GCCycles) {
		s.gcSample = runtimeSample("/gc/cycles/total:gc-cycles")
		ms = append(ms, NewMeasurement("GC cycles", Count,
			func() { s.gcStart = readRuntimeSample(s.gcSample) },
			func() uint64 { return readRuntimeSample(s.gcSample) - s.gcStart }))
	}
	if values.Has(Goroutines) {
		s.goroutineSample = runtimeSample("/sched/goroutines:goroutines")
		ms = append(ms, NewMeasurement("Goroutines", Count,
			nil,
			func() uint64 { return readRuntimeSample(s.goroutineSample) }))
	}

	s.Profiler.Setup(ms, maxFrameCount)
}

// Values returns which built-in measurements are tracked.
func (s *SystemProfiler) Values() Values {
	return s.values
}

// FrameTimeMean returns the mean frame time in nanoseconds. Panics when
// FrameTime is not tracked.
func (s *SystemProfiler) FrameTimeMean() float64 {
	return s.meanFor(FrameTime, "frame time")
}

// CPUDurationMean returns the mean per-frame CPU duration in
// nanoseconds. Panics when CPUDuration is not tracked.
func (s *SystemProfiler) CPUDurationMean() float64 {
	return s.meanFor(CPUDuration, "CPU duration")
}

// HeapAllocsMean returns the mean bytes allocated per frame. Panics
// when HeapAllocs is not tracked.
func (s *SystemProfiler) HeapAllocsMean() float64 {
	return s.meanFor(HeapAllocs, "heap allocation")
}

// GCCyclesMean returns the mean GC cycles completed per frame. Panics
// when GCCycles is not tracked.
func (s *SystemProfiler) GCCyclesMean() float64 {
	return s.meanFor(GCCycles, "GC cycle")
}

// GoroutinesMean returns the mean live goroutine count per frame.
// Panics when Goroutines is not tracked.
func (s *SystemProfiler) GoroutinesMean() float64 {
	return s.meanFor(Goroutines, "goroutine")
}

func (s *SystemProfiler) meanFor(v Values, name string) float64 {
	if !s.values.Has(v) {
		panic(fmt.Sprintf("frameprof: %s measurement not enabled", name))
	}
	return s.MeasurementMean(s.measurementIndex(v))
}

// measurementIndex maps a single value to its measurement index by
// counting the tracked values declared before it.
func (s *SystemProfiler) measurementIndex(v Values) int {
	return bits.OnesCount8(uint8(s.values & (v - 1)))
}

func runtimeSample(name string) []metrics.Sample {
	return []metrics.Sample{{Name: name}}
}

func readRuntimeSample(s []metrics.Sample) uint64 {
	metrics.Read(s)
	return s[0].Value.Uint64()
}
