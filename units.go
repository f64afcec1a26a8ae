package frameprof

import "fmt"

// Units describes how a measurement's values should be presented.
// It is a formatting hint only and never affects the arithmetic.
type Units uint8

const (
	// Nanoseconds values are durations; statistics auto-scale them to
	// s, ms, µs or ns.
	Nanoseconds Units = iota
	// Bytes values are sizes; statistics auto-scale them to GB, MB, kB
	// or B by powers of 1024.
	Bytes
	// Count values are plain tallies; statistics auto-scale them to G,
	// M or k by powers of 1000.
	Count
	// RatioThousandths values are ratios premultiplied by 1000 so
	// fractional ratios survive integer storage. Statistics divide by
	// 1000 and then scale like Count.
	RatioThousandths
	// PercentageThousandths values are percentages premultiplied by
	// 1000. Statistics divide by 1000 and append a % sign.
	PercentageThousandths
)

// String returns the unit name for logs and debugging.
func (u Units) String() string {
	switch u {
	case Nanoseconds:
		return "Nanoseconds"
	case Bytes:
		return "Bytes"
	case Count:
		return "Count"
	case RatioThousandths:
		return "RatioThousandths"
	case PercentageThousandths:
		return "PercentageThousandths"
	}
	return fmt.Sprintf("Units(%d)", uint8(u))
}
