package frameprof

import (
	"log/slog"
	"math"
	"testing"
)

func TestMeasurementSummary(t *testing.T) {
	values := []uint64{10, 20, 30, 40}
	i := 0
	p := New([]Measurement{
		NewMeasurement("Latency", Nanoseconds, nil, func() uint64 {
			v := values[i]
			i++
			return v
		}),
	}, 5)

	for range values {
		p.BeginFrame()
		p.EndFrame()
	}

	s := p.MeasurementSummary(0)
	if s.Name != "Latency" || s.Units != Nanoseconds {
		t.Errorf("summary identity = %q/%v, want Latency/Nanoseconds", s.Name, s.Units)
	}
	if s.Frames != 4 {
		t.Errorf("Frames = %d, want 4", s.Frames)
	}
	if s.Mean != 25 {
		t.Errorf("Mean = %v, want 25", s.Mean)
	}
	if s.Min != 10 || s.Max != 40 {
		t.Errorf("Min/Max = %v/%v, want 10/40", s.Min, s.Max)
	}
	if s.Median != 20 {
		t.Errorf("Median = %v, want 20", s.Median)
	}
	if math.Abs(s.StdDev-12.909944) > 1e-6 {
		t.Errorf("StdDev = %v, want ~12.909944", s.StdDev)
	}
}

func TestMeasurementSummaryUnavailable(t *testing.T) {
	p := New([]Measurement{
		NewDelayedMeasurement("GPU", Nanoseconds, 3, nil, nil,
			func(previous, current int) uint64 { return 1 }),
	}, 5)

	p.BeginFrame()
	p.EndFrame()

	// No value produced yet: identity filled in, everything else zero.
	s := p.MeasurementSummary(0)
	if s.Name != "GPU" {
		t.Errorf("Name = %q, want %q", s.Name, "GPU")
	}
	if s.Frames != 0 {
		t.Errorf("Frames = %d, want 0", s.Frames)
	}
	if s.Mean != 0 || s.StdDev != 0 || s.Min != 0 || s.Max != 0 || s.Median != 0 {
		t.Errorf("expected zero statistics, got %+v", s)
	}
}

func TestMeasurementSummarySingleValue(t *testing.T) {
	p := New([]Measurement{
		NewMeasurement("Draws", Count, nil, func() uint64 { return 42 }),
	}, 3)

	p.BeginFrame()
	p.EndFrame()

	s := p.MeasurementSummary(0)
	if s.Frames != 1 {
		t.Errorf("Frames = %d, want 1", s.Frames)
	}
	if s.Mean != 42 || s.Min != 42 || s.Max != 42 || s.Median != 42 {
		t.Errorf("expected all statistics at 42, got %+v", s)
	}
	if s.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0 for a single value", s.StdDev)
	}
}

func TestSummaryLogValue(t *testing.T) {
	s := Summary{Name: "Latency", Units: Nanoseconds, Frames: 3, Mean: 20}

	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("Kind = %v, want KindGroup", v.Kind())
	}
	attrs := v.Group()
	if len(attrs) != 8 {
		t.Fatalf("group has %d attrs, want 8", len(attrs))
	}
	if attrs[0].Key != "name" || attrs[0].Value.String() != "Latency" {
		t.Errorf("first attr = %v, want name=Latency", attrs[0])
	}
	if attrs[1].Key != "units" || attrs[1].Value.String() != "Nanoseconds" {
		t.Errorf("second attr = %v, want units=Nanoseconds", attrs[1])
	}
	if attrs[3].Key != "mean" || attrs[3].Value.Float64() != 20 {
		t.Errorf("mean attr = %v, want mean=20", attrs[3])
	}
}
