package utils

import "math"

// RoundTo rounds x to the given number of decimal places (half away from zero).
func RoundTo(x float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
