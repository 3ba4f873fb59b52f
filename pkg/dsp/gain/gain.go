// Package gain provides decibel conversions for amplitude parameters.
package gain

import (
	"math"
)

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// StepDb moves a linear gain by deltaDB decibels. Zero gain stays at zero.
func StepDb(linear, deltaDB float64) float64 {
	if linear <= 0 {
		return 0
	}
	return linear * math.Pow(10.0, deltaDB/20.0)
}
