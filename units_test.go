package frameprof

import "testing"

func TestUnitsString(t *testing.T) {
	tests := []struct {
		units Units
		want  string
	}{
		{Nanoseconds, "Nanoseconds"},
		{Bytes, "Bytes"},
		{Count, "Count"},
		{RatioThousandths, "RatioThousandths"},
		{PercentageThousandths, "PercentageThousandths"},
		{Units(9), "Units(9)"},
	}
	for _, tt := range tests {
		if got := tt.units.String(); got != tt.want {
			t.Errorf("Units(%d).String() = %q, want %q", uint8(tt.units), got, tt.want)
		}
	}
}
