package param

import (
	"fmt"
	"math"
	"strings"

	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
)

// Common parameter formatters and parsers

// MinusInfinityDB is the level at and below which gains display as -inf.
const MinusInfinityDB = -100.0

// GainToDecibelsFormatter formats a linear gain factor as decibels with the
// given number of digits.
func GainToDecibelsFormatter(digits int) func(float64) string {
	minGain := gain.DbToLinear(MinusInfinityDB)
	half := 0.5 * math.Pow(10, -float64(digits))
	return func(g float64) string {
		if g <= minGain {
			return "-inf dB"
		}
		db := gain.LinearToDb(g)
		if math.Abs(db) < half {
			db = 0 // avoid "-0.00"
		}
		return fmt.Sprintf("%.*f dB", digits, db)
	}
}

// DecibelsToGainParser parses a decibel string into a linear gain factor.
func DecibelsToGainParser(str string) (float64, error) {
	db, err := DecibelParser(str)
	if err != nil {
		return 0, err
	}
	if db <= MinusInfinityDB {
		return 0, nil
	}
	return gain.DbToLinear(db), nil
}

// DecibelParser parses dB strings
func DecibelParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	if strings.Contains(str, "∞") || strings.Contains(strings.ToLower(str), "inf") {
		return MinusInfinityDB, nil
	}
	str = strings.TrimSuffix(str, "dB")
	str = strings.TrimSuffix(str, "db")
	return parseFloat(strings.TrimSpace(str))
}

// PercentFormatter formats a 0-1 value as a percentage with the given
// number of digits.
func PercentFormatter(digits int) func(float64) string {
	return func(value float64) string {
		return fmt.Sprintf("%.*f%%", digits, value*100)
	}
}

// PercentParser parses percentage strings into a 0-1 value
func PercentParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	v, err := parseFloat(strings.TrimSpace(str))
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}
