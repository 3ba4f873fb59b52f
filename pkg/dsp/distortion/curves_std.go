//go:build !fastmath

package distortion

import "math"

func expm1(x float64) float64 {
	return math.Expm1(x)
}

func log1p(x float64) float64 {
	return math.Log1p(x)
}
