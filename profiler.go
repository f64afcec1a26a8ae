// Package frameprof measures per-frame quantities over a moving window.
//
// A Profiler drives a list of Measurements from a frame loop: call
// BeginFrame and EndFrame around each frame and the profiler records
// every measurement's value into a ring of the last MaxFrameCount
// frames, keeping a running sum per measurement so means are O(1).
// Measurements may be immediate (value known the same frame) or delayed
// (value collectable only several frames after the probe was issued,
// as with GPU timer queries or any asynchronously completing counter).
//
// The profiler is driven from a single goroutine and panics on misuse:
// mismatched BeginFrame/EndFrame pairs, out-of-range indices and
// queries for data that does not exist yet are programming errors, not
// runtime conditions.
package frameprof

import "fmt"

// Profiler records measurements over a moving window of frames.
//
// The zero value is an enabled profiler with no measurements and a
// window of one frame; use New or Setup to configure it.
type Profiler struct {
	measurements []Measurement
	ring         sampleRing

	maxFrameCount      int
	measuredFrameCount int

	// disabled is inverted so the zero value starts enabled.
	disabled bool
	inFrame  bool
}

// New creates a profiler tracking the given measurements over a moving
// window of maxFrameCount frames. The profiler takes ownership of the
// slice. Panics under the same conditions as Setup.
func New(measurements []Measurement, maxFrameCount int) *Profiler {
	p := &Profiler{}
	p.Setup(measurements, maxFrameCount)
	return p
}

// Setup replaces the measurement list and window size, discarding all
// recorded data and re-enabling the profiler. There is no partial
// reconfiguration; a profiler mid-frame is reset to the idle state.
//
// Panics when maxFrameCount is less than 1, when a measurement was not
// created through a constructor, or when a measurement's delay exceeds
// maxFrameCount; such a value would be evicted before it could ever be
// read.
func (p *Profiler) Setup(measurements []Measurement, maxFrameCount int) {
	if maxFrameCount < 1 {
		panic("frameprof: max frame count can't be zero")
	}
	for i := range measurements {
		d := measurements[i].delay
		if d < 1 {
			panic(fmt.Sprintf("frameprof: measurement %d delay can't be zero", i))
		}
		if d > maxFrameCount {
			panic(fmt.Sprintf("frameprof: max delay %d is larger than max frame count %d", d, maxFrameCount))
		}
	}
	p.measurements = measurements
	p.maxFrameCount = maxFrameCount
	p.ring.reset(maxFrameCount, len(measurements))
	p.Enable()
}

// Enable resets all transient statistics (moving sums, delayed-slot
// cursors, the measured frame count and the ring fill) and starts
// measuring again. The measurement list and window size are preserved.
// Calling Enable on an enabled profiler just resets it.
func (p *Profiler) Enable() {
	p.disabled = false
	p.inFrame = false
	p.measuredFrameCount = 0
	p.ring.clear()
	for i := range p.measurements {
		p.measurements[i].movingSum = 0
		p.measurements[i].current = 0
	}
}

// Disable freezes the profiler: BeginFrame and EndFrame become no-ops
// while all recorded data stays queryable. Enable starts over.
func (p *Profiler) Disable() {
	p.disabled = true
}

// IsEnabled reports whether BeginFrame and EndFrame currently measure.
func (p *Profiler) IsEnabled() bool {
	return !p.disabled
}

// BeginFrame starts a new frame, invoking every measurement's begin
// callback. No-op while disabled. Panics if the previous frame was not
// ended.
func (p *Profiler) BeginFrame() {
	if p.disabled {
		return
	}
	if p.inFrame {
		panic("frameprof: BeginFrame: expected end of frame")
	}
	p.inFrame = true
	for i := range p.measurements {
		m := &p.measurements[i]
		if m.immediate {
			if m.begin != nil {
				m.begin()
			}
		} else if m.beginDelayed != nil {
			m.beginDelayed(m.current)
		}
	}
}

// EndFrame completes the current frame: every measurement's probe is
// finalized, values whose delay has elapsed are recorded into the ring,
// and the moving sums are updated. No-op while disabled. Panics if no
// frame was begun.
func (p *Profiler) EndFrame() {
	if p.disabled {
		return
	}
	if !p.inFrame {
		panic("frameprof: EndFrame: expected begin of frame")
	}
	p.inFrame = false
	p.measuredFrameCount++
	if len(p.measurements) == 0 {
		return
	}

	if p.measuredFrameCount <= p.maxFrameCount {
		p.ring.grow()
	}

	// Finalize pass: evict the value each ready row currently holds,
	// then overwrite it with the newly collected one.
	for i := range p.measurements {
		m := &p.measurements[i]
		row := p.ring.rowBehind(m.delay)
		if p.measuredFrameCount > p.maxFrameCount+m.delay-1 {
			m.movingSum -= p.ring.at(row, i)
		}
		if m.immediate {
			p.ring.set(row, i, m.end())
		} else {
			if m.endDelayed != nil {
				m.endDelayed(m.current)
			}
			previous := (m.current + 1) % m.delay
			if p.measuredFrameCount >= m.delay {
				p.ring.set(row, i, m.query(previous, m.current))
			}
			m.current = previous
		}
	}

	// Accumulate pass. Kept separate so that on the wraparound frame
	// every eviction above has already happened before any sum grows;
	// folding the two touches a reused row in the wrong order.
	for i := range p.measurements {
		m := &p.measurements[i]
		if p.measuredFrameCount >= m.delay {
			m.movingSum += p.ring.at(p.ring.rowBehind(m.delay), i)
		}
	}

	p.ring.advance()
}

// MaxFrameCount returns the moving-average window size in frames.
func (p *Profiler) MaxFrameCount() int {
	return p.window()
}

// MeasuredFrameCount returns how many frames were completed since the
// last Enable or Setup.
func (p *Profiler) MeasuredFrameCount() int {
	return p.measuredFrameCount
}

// MeasurementCount returns the number of tracked measurements.
func (p *Profiler) MeasurementCount() int {
	return len(p.measurements)
}

// MeasurementName returns the display name of measurement id.
func (p *Profiler) MeasurementName(id int) string {
	return p.measurement(id).name
}

// MeasurementUnits returns the presentation units of measurement id.
func (p *Profiler) MeasurementUnits(id int) Units {
	return p.measurement(id).units
}

// MeasurementDelay returns how many frames pass before measurement id's
// value is collectable. Immediate measurements report 1.
func (p *Profiler) MeasurementDelay(id int) int {
	return p.measurement(id).delay
}

// IsMeasurementAvailable reports whether measurement id has produced at
// least one value, which happens once its delay has elapsed.
func (p *Profiler) IsMeasurementAvailable(id int) bool {
	return p.measuredFrameCount >= p.measurement(id).delay
}

// MeasurementMean returns the mean of measurement id over the currently
// valid window: the last min(measuredFrameCount-delay+1, maxFrameCount)
// produced values. Panics while no value has been produced yet.
func (p *Profiler) MeasurementMean(id int) float64 {
	m := p.measurement(id)
	if p.measuredFrameCount < m.delay {
		panic(fmt.Sprintf("frameprof: measurement data available after %d more frames", m.delay-p.measuredFrameCount))
	}
	return float64(m.movingSum) / float64(p.availableFrames(m))
}

// MeasurementData returns the value measurement id produced at logical
// frame index frame, where 0 is the oldest value still in the window.
// Panics when frame is at or past the window size, or when that frame
// has not been produced yet given the measurement's delay.
func (p *Profiler) MeasurementData(id, frame int) uint64 {
	m := p.measurement(id)
	w := p.window()
	if frame < 0 || frame >= w {
		panic(fmt.Sprintf("frameprof: frame %d out of bounds for max %d frames", frame, w))
	}
	avail := 0
	if p.measuredFrameCount >= m.delay {
		avail = p.availableFrames(m)
	}
	if frame >= avail {
		panic(fmt.Sprintf("frameprof: frame %d of measurement %d not available yet (delay %d, %d frames measured so far)", frame, id, m.delay, p.measuredFrameCount))
	}
	return p.ring.at(p.ring.rowForLogical(frame, avail, m.delay), id)
}

// availableFrames returns how many of m's produced values the window
// currently holds. Callers ensure at least one value exists.
func (p *Profiler) availableFrames(m *Measurement) int {
	return min(p.measuredFrameCount-m.delay+1, p.window())
}

// window returns the effective window size; the zero value behaves as a
// one-frame window.
func (p *Profiler) window() int {
	if p.maxFrameCount < 1 {
		return 1
	}
	return p.maxFrameCount
}

func (p *Profiler) measurement(id int) *Measurement {
	if id < 0 || id >= len(p.measurements) {
		panic(fmt.Sprintf("frameprof: measurement index %d out of range for %d measurements", id, len(p.measurements)))
	}
	return &p.measurements[id]
}
