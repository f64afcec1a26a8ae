package frameprof

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Statistics returns a plain-text report of every measurement's mean
// over the current window, one line per measurement, headed by the
// number of frames the means cover. Measurements whose delay has not
// elapsed yet render the -.-- placeholder with their base unit.
func (p *Profiler) Statistics() string {
	var sb strings.Builder
	out := termenv.NewOutput(&sb, termenv.WithProfile(termenv.Ascii))
	p.writeStatistics(out)
	return sb.String()
}

// PrintStatistics writes the statistics report to standard output every
// given number of frames; other frames are no-ops, as is a disabled
// profiler. On an interactive terminal the previous report is rewritten
// in place and the values are colored.
func (p *Profiler) PrintStatistics(every int) {
	p.PrintStatisticsTo(os.Stdout, every)
}

// PrintStatisticsTo is PrintStatistics writing to an arbitrary sink.
// Terminal detection is per sink: a plain writer gets uncolored text
// with no cursor movement.
func (p *Profiler) PrintStatisticsTo(w io.Writer, every int) {
	if every < 1 {
		panic("frameprof: print frequency can't be zero")
	}
	if p.disabled || p.measuredFrameCount%every != 0 {
		return
	}
	out := termenv.NewOutput(w)
	if out.Profile != termenv.Ascii && p.measuredFrameCount > every {
		// Not the first report on this terminal: clear the previous
		// one and write over it.
		out.ClearLines(len(p.measurements) + 1)
	}
	p.writeStatistics(out)
	out.WriteString("\n")
}

func (p *Profiler) writeStatistics(out *termenv.Output) {
	frames := min(p.measuredFrameCount, p.window())
	out.WriteString(out.String("Last").Bold().String())
	out.WriteString(" ")
	out.WriteString(out.String(strconv.Itoa(frames)).Bold().Foreground(termenv.ANSICyan).String())
	out.WriteString(" ")
	out.WriteString(out.String("frames:").Bold().String())

	for i := range p.measurements {
		m := &p.measurements[i]
		out.WriteString("\n  ")
		out.WriteString(out.String(m.name + ":").Bold().String())
		out.WriteString(" ")
		if p.measuredFrameCount < m.delay {
			out.WriteString(out.String("-.--").Foreground(termenv.ANSIBlue).String())
			if s := placeholderSuffix(m.units); s != "" {
				out.WriteString(" " + s)
			}
			continue
		}
		value, suffix := scaleValue(m.units, p.MeasurementMean(i))
		out.WriteString(out.String(fmt.Sprintf("%.2f", value)).Bold().Foreground(termenv.ANSIGreen).String())
		if suffix != "" {
			out.WriteString(" " + suffix)
		}
	}
}

// scaleValue picks the presentation magnitude for a mean and returns
// the scaled value with its unit suffix, empty for bare counts.
func scaleValue(units Units, mean float64) (float64, string) {
	switch units {
	case Nanoseconds:
		switch {
		case mean >= 1e9:
			return mean / 1e9, "s"
		case mean >= 1e6:
			return mean / 1e6, "ms"
		case mean >= 1e3:
			return mean / 1e3, "µs"
		}
		return mean, "ns"
	case Bytes:
		switch {
		case mean >= 1024*1024*1024:
			return mean / (1024 * 1024 * 1024), "GB"
		case mean >= 1024*1024:
			return mean / (1024 * 1024), "MB"
		case mean >= 1024:
			return mean / 1024, "kB"
		}
		return mean, "B"
	case Count:
		return scaleCount(mean)
	case RatioThousandths:
		return scaleCount(mean / 1000)
	case PercentageThousandths:
		return mean / 1000, "%"
	}
	return mean, ""
}

func scaleCount(v float64) (float64, string) {
	switch {
	case v >= 1e9:
		return v / 1e9, "G"
	case v >= 1e6:
		return v / 1e6, "M"
	case v >= 1e3:
		return v / 1e3, "k"
	}
	return v, ""
}

// placeholderSuffix is the unit shown next to the -.-- placeholder for
// a measurement with no data yet.
func placeholderSuffix(units Units) string {
	switch units {
	case Nanoseconds:
		return "s"
	case Bytes:
		return "B"
	case PercentageThousandths:
		return "%"
	}
	return ""
}
