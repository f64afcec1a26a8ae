// Package record captures profiling runs on disk for offline analysis:
// a CSV log of produced values per frame, CSV window summaries and a
// YAML manifest describing the run.
package record

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/frameprof"
)

// FrameRow is one recorded value in frames.csv.
type FrameRow struct {
	Frame       int    `csv:"frame"`
	Measurement string `csv:"measurement"`
	Value       uint64 `csv:"value"`
}

// SummaryRow is one measurement's window summary in summary.csv.
type SummaryRow struct {
	Measurement string  `csv:"measurement"`
	Units       string  `csv:"units"`
	Frames      int     `csv:"frames"`
	Mean        float64 `csv:"mean"`
	StdDev      float64 `csv:"stddev"`
	Min         float64 `csv:"min"`
	Max         float64 `csv:"max"`
	Median      float64 `csv:"median"`
}

// Manifest describes a profiling run in manifest.yaml.
type Manifest struct {
	Window       int                   `yaml:"window"`
	Measurements []ManifestMeasurement `yaml:"measurements"`
}

// ManifestMeasurement describes one measurement in the manifest.
type ManifestMeasurement struct {
	Name  string `yaml:"name"`
	Units string `yaml:"units"`
	Delay int    `yaml:"delay"`
}

// Recorder writes a profiling run into a directory. A nil Recorder is
// valid and discards everything, so callers can thread one through
// unconditionally.
type Recorder struct {
	dir        string
	framesFile *os.File

	framesHeaderWritten bool
}

// New creates a recorder writing into dir, creating the directory as
// needed. Returns nil if dir is empty (recording disabled).
func New(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating record directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}

	slog.Info("recording profile", "dir", dir)
	return &Recorder{dir: dir, framesFile: f}, nil
}

// RecordFrame appends the newest produced value of every available
// measurement to frames.csv. Call it after EndFrame; measurements whose
// delay has not elapsed yet are skipped.
func (r *Recorder) RecordFrame(p *frameprof.Profiler) error {
	if r == nil {
		return nil
	}

	frame := p.MeasuredFrameCount()
	rows := make([]FrameRow, 0, p.MeasurementCount())
	for id := 0; id < p.MeasurementCount(); id++ {
		if !p.IsMeasurementAvailable(id) {
			continue
		}
		rows = append(rows, FrameRow{
			Frame:       frame,
			Measurement: p.MeasurementName(id),
			Value:       p.MeasurementData(id, newestFrame(p, id)),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if !r.framesHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(rows, r.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		r.framesHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, r.framesFile); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// newestFrame returns the logical index of measurement id's most recent
// produced value. Callers ensure the measurement is available.
func newestFrame(p *frameprof.Profiler, id int) int {
	avail := p.MeasuredFrameCount() - p.MeasurementDelay(id) + 1
	if w := p.MaxFrameCount(); avail > w {
		avail = w
	}
	return avail - 1
}

// WriteManifest writes manifest.yaml describing the profiler's current
// configuration.
func (r *Recorder) WriteManifest(p *frameprof.Profiler) error {
	if r == nil {
		return nil
	}

	m := Manifest{Window: p.MaxFrameCount()}
	for id := 0; id < p.MeasurementCount(); id++ {
		m.Measurements = append(m.Measurements, ManifestMeasurement{
			Name:  p.MeasurementName(id),
			Units: p.MeasurementUnits(id).String(),
			Delay: p.MeasurementDelay(id),
		})
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, "manifest.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing manifest.yaml: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// WriteSummary writes summary.csv with every measurement's window
// summary at the time of the call, overwriting any previous one.
func (r *Recorder) WriteSummary(p *frameprof.Profiler) error {
	if r == nil {
		return nil
	}

	rows := make([]SummaryRow, 0, p.MeasurementCount())
	for id := 0; id < p.MeasurementCount(); id++ {
		s := p.MeasurementSummary(id)
		rows = append(rows, SummaryRow{
			Measurement: s.Name,
			Units:       s.Units.String(),
			Frames:      s.Frames,
			Mean:        s.Mean,
			StdDev:      s.StdDev,
			Min:         s.Min,
			Max:         s.Max,
			Median:      s.Median,
		})
	}

	f, err := os.Create(filepath.Join(r.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Close flushes and closes the frame log.
func (r *Recorder) Close() error {
	if r == nil || r.framesFile == nil {
		return nil
	}
	return r.framesFile.Close()
}
