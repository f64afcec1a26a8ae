package frameprof

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates one measurement's currently available window.
type Summary struct {
	Name   string
	Units  Units
	Frames int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// MeasurementSummary computes order statistics over measurement id's
// currently available window. Unlike MeasurementMean it does not panic
// before availability: a measurement with no data yet yields a Summary
// with Frames 0, so logging and export paths stay total.
func (p *Profiler) MeasurementSummary(id int) Summary {
	m := p.measurement(id)
	s := Summary{Name: m.name, Units: m.units}
	if p.measuredFrameCount < m.delay {
		return s
	}

	avail := p.availableFrames(m)
	values := make([]float64, avail)
	for f := 0; f < avail; f++ {
		values[f] = float64(p.MeasurementData(id, f))
	}
	slices.Sort(values)

	s.Frames = avail
	s.Mean = stat.Mean(values, nil)
	s.Min = values[0]
	s.Max = values[avail-1]
	s.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	if avail > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.Name),
		slog.String("units", s.Units.String()),
		slog.Int("frames", s.Frames),
		slog.Float64("mean", s.Mean),
		slog.Float64("stddev", s.StdDev),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("median", s.Median),
	)
}
