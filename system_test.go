package frameprof

import (
	"runtime"
	"testing"
	"time"
)

func TestValuesHas(t *testing.T) {
	v := FrameTime | HeapAllocs
	if !v.Has(FrameTime) {
		t.Error("expected FrameTime to be set")
	}
	if !v.Has(FrameTime | HeapAllocs) {
		t.Error("expected the full combination to be set")
	}
	if v.Has(CPUDuration) {
		t.Error("CPUDuration should not be set")
	}
	if v.Has(FrameTime | CPUDuration) {
		t.Error("a combination with an unset value should not match")
	}
}

func TestSystemProfilerMeasurements(t *testing.T) {
	all := FrameTime | CPUDuration | HeapAllocs | GCCycles | Goroutines
	p := NewSystemProfiler(all, 4)

	if got := p.Values(); got != all {
		t.Errorf("Values = %b, want %b", got, all)
	}
	if got := p.MeasurementCount(); got != 5 {
		t.Fatalf("MeasurementCount = %d, want 5", got)
	}

	wantNames := []string{"Frame time", "CPU duration", "Heap allocations", "GC cycles", "Goroutines"}
	wantUnits := []Units{Nanoseconds, Nanoseconds, Bytes, Count, Count}
	for i := range wantNames {
		if got := p.MeasurementName(i); got != wantNames[i] {
			t.Errorf("measurement %d name = %q, want %q", i, got, wantNames[i])
		}
		if got := p.MeasurementUnits(i); got != wantUnits[i] {
			t.Errorf("measurement %d units = %v, want %v", i, got, wantUnits[i])
		}
	}

	// Frame time spans two frame begins, so it lags two frames; the
	// runtime-backed measurements resolve within their own frame.
	if got := p.MeasurementDelay(0); got != 2 {
		t.Errorf("frame time delay = %d, want 2", got)
	}
	for i := 1; i < 5; i++ {
		if got := p.MeasurementDelay(i); got != 1 {
			t.Errorf("measurement %d delay = %d, want 1", i, got)
		}
	}
}

var allocSink []byte

func TestSystemProfilerMeans(t *testing.T) {
	p := NewSystemProfiler(FrameTime|CPUDuration|HeapAllocs|Goroutines, 4)

	for frame := 0; frame < 5; frame++ {
		p.BeginFrame()
		allocSink = make([]byte, 1<<20)
		time.Sleep(2 * time.Millisecond)
		p.EndFrame()
	}

	if got := p.FrameTimeMean(); got < float64(time.Millisecond) {
		t.Errorf("FrameTimeMean = %v ns, want at least 1ms", got)
	}
	if got := p.CPUDurationMean(); got < float64(time.Millisecond) {
		t.Errorf("CPUDurationMean = %v ns, want at least 1ms", got)
	}
	if got := p.HeapAllocsMean(); got < float64(len(allocSink)) {
		t.Errorf("HeapAllocsMean = %v B, want at least %d", got, len(allocSink))
	}
	if got := p.GoroutinesMean(); got < 1 {
		t.Errorf("GoroutinesMean = %v, want at least 1", got)
	}
}

func TestSystemProfilerGCCycles(t *testing.T) {
	p := NewSystemProfiler(GCCycles, 2)

	p.BeginFrame()
	runtime.GC()
	p.EndFrame()

	if got := p.GCCyclesMean(); got < 1 {
		t.Errorf("GCCyclesMean = %v, want at least 1 after an explicit collection", got)
	}
}

func TestSystemProfilerSubset(t *testing.T) {
	p := NewSystemProfiler(CPUDuration|Goroutines, 2)

	if got := p.MeasurementCount(); got != 2 {
		t.Fatalf("MeasurementCount = %d, want 2", got)
	}
	if got := p.MeasurementName(0); got != "CPU duration" {
		t.Errorf("measurement 0 = %q, want %q", got, "CPU duration")
	}
	if got := p.MeasurementName(1); got != "Goroutines" {
		t.Errorf("measurement 1 = %q, want %q", got, "Goroutines")
	}

	p.BeginFrame()
	p.EndFrame()
	if got := p.GoroutinesMean(); got < 1 {
		t.Errorf("GoroutinesMean = %v, want at least 1", got)
	}

	expectPanic(t, "frameprof: frame time measurement not enabled", func() {
		p.FrameTimeMean()
	})
	expectPanic(t, "frameprof: GC cycle measurement not enabled", func() {
		p.GCCyclesMean()
	})
	expectPanic(t, "frameprof: heap allocation measurement not enabled", func() {
		p.HeapAllocsMean()
	})
}

func TestSystemProfilerFrameTimeNeedsWindow(t *testing.T) {
	expectPanic(t, "frameprof: max delay 2 is larger than max frame count 1", func() {
		NewSystemProfiler(FrameTime, 1)
	})
}
