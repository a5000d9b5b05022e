package caption

import "fmt"

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count in the largest unit not exceeding it,
// with two decimals, e.g. "1.50 MB".
func FormatSize(n int64) string {
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(sizeUnits)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[i])
}

// Greeting returns the time-of-day greeting for an hour in [0,24).
func Greeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good Morning"
	case hour >= 12 && hour < 16:
		return "Good Afternoon"
	case hour >= 16 && hour < 20:
		return "Good Evening"
	default:
		return "Good Night"
	}
}
