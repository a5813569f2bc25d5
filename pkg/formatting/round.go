package formatting

import "math"

// Round rounds v half away from zero to the given number of decimal places.
// Negative places are clamped to zero.
func Round(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
