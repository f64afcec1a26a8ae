package frameprof

// sampleRing stores the recorded values of the last frames completed,
// one row per frame and one column per measurement, in a flat slice
// reused cyclically once it holds rows rows. It grows lazily so a
// profiler that never fills its window never pays for it.
//
// All slot arithmetic lives here; callers speak in rows and columns.
type sampleRing struct {
	data    []uint64
	columns int
	rows    int
	// next is the row the frame currently being completed writes to,
	// advanced once per completed frame.
	next int
}

// reset reconfigures the ring for a measurement list of columns values
// kept over rows frames, reserving the full capacity up front.
func (r *sampleRing) reset(rows, columns int) {
	r.rows = rows
	r.columns = columns
	r.data = make([]uint64, 0, rows*columns)
	r.next = 0
}

// clear empties the ring without touching its configuration or
// capacity.
func (r *sampleRing) clear() {
	r.data = r.data[:0]
	r.next = 0
}

// grow appends one zeroed row. Callers must not grow past rows rows.
func (r *sampleRing) grow() {
	r.data = append(r.data, make([]uint64, r.columns)...)
}

// rowBehind returns the row holding the frame delay-1 frames behind the
// one being completed, which is the row whose value is ready to
// finalize. For frames that have not happened yet the returned row is
// out of the written range and must not be touched.
func (r *sampleRing) rowBehind(delay int) int {
	if r.next >= delay-1 {
		return r.next - delay + 1
	}
	return r.rows + r.next - delay + 1
}

// rowForLogical maps logical frame index f (0 = oldest of the avail
// currently available frames of a measurement with the given delay) to
// its physical row. A value finalized at the end of frame m lives in
// row (m-delay) mod rows, and logical frame f was finalized at frame
// measuredFrameCount-avail+1+f; next stands in for measuredFrameCount
// here since the two agree mod rows.
func (r *sampleRing) rowForLogical(f, avail, delay int) int {
	return (r.next + 2*r.rows + 1 - avail + f - delay) % r.rows
}

// advance moves the write cursor to the next frame's row.
func (r *sampleRing) advance() {
	r.next = (r.next + 1) % r.rows
}

// at returns the value of measurement col in row.
func (r *sampleRing) at(row, col int) uint64 {
	return r.data[row*r.columns+col]
}

// set records the value of measurement col in row.
func (r *sampleRing) set(row, col int, v uint64) {
	r.data[row*r.columns+col] = v
}
