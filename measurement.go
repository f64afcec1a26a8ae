package frameprof

// Measurement describes one quantity a Profiler tracks: a display name,
// units, how many frames pass between issuing the probe and its value
// being collectable, and the callbacks that drive the probe.
//
// Measurements come in two kinds. An immediate measurement (see
// NewMeasurement) produces its value in the same frame it is taken. A
// delayed measurement (see NewDelayedMeasurement) cycles through delay
// private slots so that a probe issued in one frame can be collected
// several frames later without stalling the loop. The kind is fixed by
// the constructor; a zero Measurement is not usable and is rejected by
// Profiler.Setup.
type Measurement struct {
	name      string
	units     Units
	delay     int
	immediate bool

	// immediate form
	begin func()
	end   func() uint64

	// delayed form
	beginDelayed func(current int)
	endDelayed   func(current int)
	query        func(previous, current int) uint64

	// cursor into the delayed slot cycle, range [0, delay)
	current   int
	movingSum uint64
}

// NewMeasurement creates an immediate measurement. The begin callback
// runs at BeginFrame and may be nil; end runs at EndFrame and returns
// the frame's value.
func NewMeasurement(name string, units Units, begin func(), end func() uint64) Measurement {
	if end == nil {
		panic("frameprof: immediate measurement needs an end callback")
	}
	return Measurement{
		name:      name,
		units:     units,
		delay:     1,
		immediate: true,
		begin:     begin,
		end:       end,
	}
}

// NewDelayedMeasurement creates a measurement whose value becomes
// collectable delay frames after it is taken. The begin and end
// callbacks receive the slot the current frame's probe lives in and may
// be nil; query collects the value of the probe issued delay-1 frames
// earlier, which by then has rotated into the previous slot.
func NewDelayedMeasurement(name string, units Units, delay int, begin, end func(current int), query func(previous, current int) uint64) Measurement {
	if delay < 1 {
		panic("frameprof: delayed measurement delay can't be zero")
	}
	if query == nil {
		panic("frameprof: delayed measurement needs a query callback")
	}
	return Measurement{
		name:         name,
		units:        units,
		delay:        delay,
		beginDelayed: begin,
		endDelayed:   end,
		query:        query,
	}
}

// Name returns the display name.
func (m Measurement) Name() string { return m.name }

// Units returns the presentation units.
func (m Measurement) Units() Units { return m.units }

// Delay returns how many frames pass before a value is collectable.
// Immediate measurements report 1.
func (m Measurement) Delay() int { return m.delay }
