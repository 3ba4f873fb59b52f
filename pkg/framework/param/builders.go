package param

import (
	"fmt"
	"math"
	"strings"

	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple choice parameter.
// Options are expected to have consecutive values starting at the first.
func Choice(id uint32, key, name string, options []ChoiceOption) *Builder {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}

	formatter := func(value float64) string {
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		// Fallback to index-based lookup for integer values
		index := int(math.Round(value))
		if index >= 0 && index < len(names) {
			return names[index]
		}
		return "Unknown"
	}

	parser := func(str string) (float64, error) {
		str = strings.TrimSpace(str)
		for _, opt := range options {
			if strings.EqualFold(str, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(str, alias) {
					return opt.Value, nil
				}
			}
		}
		return 0, fmt.Errorf("unknown option: %s", str)
	}

	minVal, maxVal, def := 0.0, 0.0, 0.0
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
		def = options[0].Value
	}

	steps := int32(len(options) - 1)
	if steps < 0 {
		steps = 0
	}

	return New(id, key, name).
		Range(minVal, maxVal).
		Steps(steps).
		Default(def).
		Flags(CanAutomate | IsList).
		Formatter(formatter, parser)
}

// GainSkewFactor returns the skew that puts the gain halfway between minDB
// and maxDB (in decibels) at the center of the normalized range.
func GainSkewFactor(minDB, maxDB float64) float64 {
	minGain := gain.DbToLinear(minDB)
	maxGain := gain.DbToLinear(maxDB)
	midGain := gain.DbToLinear((minDB + maxDB) / 2)
	return math.Log(0.5) / math.Log((midGain-minGain)/(maxGain-minGain))
}

// GainParameter creates a gain parameter whose plain value is a linear gain
// factor spanning minDB..maxDB, displayed in decibels. It defaults to unity
// and ramps logarithmically.
func GainParameter(id uint32, key, name string, minDB, maxDB float64) *Builder {
	return New(id, key, name).
		Range(gain.DbToLinear(minDB), gain.DbToLinear(maxDB)).
		Skew(GainSkewFactor(minDB, maxDB)).
		Default(1).
		Unit(" dB").
		Smoothing(LogarithmicSmoothing, 50).
		Formatter(GainToDecibelsFormatter(2), DecibelsToGainParser)
}

// PercentParameter creates a 0-1 parameter displayed as a percentage.
func PercentParameter(id uint32, key, name string) *Builder {
	return New(id, key, name).
		Range(0, 1).
		Default(0).
		Unit("%").
		Smoothing(LinearSmoothing, 10).
		Formatter(PercentFormatter(2), PercentParser)
}

// Helper function to parse float with error handling
func parseFloat(s string) (float64, error) {
	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	return value, nil
}
