package formatter

import (
	"math"
	"strconv"
)

// FormatFloat renders v in its shortest round-trip form, switching to
// exponent notation only for very large or very small magnitudes
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
