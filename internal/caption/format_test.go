package caption_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/edgard/capbot/internal/caption"
)

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.00 Bytes"},
		{1023, "1023.00 Bytes"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1572864, "1.50 MB"},
		{1 << 30, "1.00 GB"},
		{5 << 40, "5.00 TB"},
		{1 << 62, "4.00 EB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := caption.FormatSize(tt.in); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSize_RoundTrip(t *testing.T) {
	t.Parallel()

	units := map[string]int{"Bytes": 0, "KB": 1, "MB": 2, "GB": 3, "TB": 4, "PB": 5, "EB": 6}

	for n := int64(1); n > 0 && n < math.MaxInt64/7; n = n*7 + 3 {
		out := caption.FormatSize(n)

		var value float64
		var unit string
		if _, err := fmt.Sscanf(out, "%f %s", &value, &unit); err != nil {
			t.Fatalf("FormatSize(%d) = %q: unparsable: %v", n, out, err)
		}
		idx, ok := units[unit]
		if !ok {
			t.Fatalf("FormatSize(%d) = %q: unknown unit", n, out)
		}

		scale := math.Pow(1024, float64(idx))
		if diff := math.Abs(value*scale - float64(n)); diff > 0.01*scale {
			t.Errorf("FormatSize(%d) = %q: off by %.2f bytes", n, out, diff)
		}
	}
}

func TestGreeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hour int
		want string
	}{
		{2, "Good Night"},
		{4, "Good Night"},
		{5, "Good Morning"},
		{6, "Good Morning"},
		{11, "Good Morning"},
		{12, "Good Afternoon"},
		{13, "Good Afternoon"},
		{16, "Good Evening"},
		{18, "Good Evening"},
		{20, "Good Night"},
		{23, "Good Night"},
	}

	for _, tt := range tests {
		if got := caption.Greeting(tt.hour); got != tt.want {
			t.Errorf("Greeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}
