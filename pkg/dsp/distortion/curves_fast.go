//go:build fastmath

package distortion

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// expOverflow is where exp leaves the float64 range. The approximation is
// not guaranteed to saturate to +Inf on its own.
const expOverflow = 709.0

func expm1(x float64) float64 {
	if x > expOverflow {
		return math.Inf(1)
	}
	return approx.FastExp(x) - 1
}

func log1p(x float64) float64 {
	return approx.FastLog(x + 1)
}
