package domain

import (
	"math"
	"strconv"
)

// roundTo rounds the exact binary value of x to the given number of decimal
// places, ties to even. Used for L, c, the thermal ratio and mu.
func roundTo(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// roundScaled rounds x·10^places to an integer, ties to even, and scales
// back. Used for lambda and depth. The product can itself land on a tie
// that x was not, so results may differ from roundTo in the last place.
func roundScaled(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}
