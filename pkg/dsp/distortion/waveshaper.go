// Package distortion implements the folding waveshaper.
package distortion

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the transfer curve applied before folding.
type Mode int

const (
	// ModeLinear passes the driven magnitude through unchanged
	ModeLinear Mode = iota
	// ModeExponential applies exp(x) - 1
	ModeExponential
	// ModeLogarithmic applies ln(x + 1)
	ModeLogarithmic
	// ModeSine applies sin(x)
	ModeSine

	numModes
)

// Modes lists every mode in parameter order.
var Modes = [...]Mode{ModeLinear, ModeExponential, ModeLogarithmic, ModeSine}

var modeNames = [...]string{"Linear", "Exponential", "Logarithmic", "Sine"}

// String returns the display name of the mode.
func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < numModes
}

// ParseMode looks a mode up by name, ignoring case.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeLinear, fmt.Errorf("unknown mode: %q", s)
}

// logArgFloor keeps ln(x + 1) finite. Driven magnitudes are never negative,
// so this only matters for inputs that were already invalid.
const logArgFloor = -1 + 1e-7

// DriveScale maps drive (0..1) onto the pre-curve multiplier 1..5.
func DriveScale(drive float32) float64 {
	return 1 + 4*float64(drive)
}

// Curve applies the mode's transfer function to a driven magnitude.
func Curve(mode Mode, x float64) float64 {
	switch mode {
	case ModeExponential:
		return expm1(x)
	case ModeLogarithmic:
		if x < logArgFloor {
			x = logArgFloor
		}
		return log1p(x)
	case ModeSine:
		return math.Sin(x)
	default:
		return x
	}
}

// Fold maps y onto a period-2 triangle: rising from 0 to 1 on [0, 1) and
// falling back to 0 on [1, 2). This is (-1)^floor(y) * (y mod 2 - 1) + 1
// with a floored modulo, so the result is in [0, 1] for every finite y.
// Non-finite input yields 0.
func Fold(y float64) float64 {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0
	}
	m := y - 2*math.Floor(y/2)
	if m < 1 {
		return m
	}
	if m >= 2 {
		// rounding in y/2 for huge |y|
		return 0
	}
	return 2 - m
}

// Shape processes one sample. The input magnitude is scaled by inputGain
// and drive, bent by the mode curve, folded, scaled by outputGain and given
// the input's sign back. Zero counts as positive. Non-finite input and
// non-finite intermediates produce 0.
func Shape(x, inputGain, outputGain, drive float32, mode Mode) float32 {
	sign := float32(1)
	if math.Signbit(float64(x)) {
		sign = -1
	}

	mag := math.Abs(float64(x)) * float64(inputGain)
	folded := Fold(Curve(mode, mag*DriveScale(drive)))

	out := float32(folded) * outputGain * sign
	if out != out || out > math.MaxFloat32 || out < -math.MaxFloat32 {
		return 0
	}
	return out
}

// Waveshaper holds a fixed set of shaping settings for offline use, such as
// measuring the transfer curve. The real-time path calls Shape directly with
// smoothed values.
type Waveshaper struct {
	mode       Mode
	inputGain  float32
	outputGain float32
	drive      float32
}

// NewWaveshaper creates a waveshaper with unity gains and no drive.
func NewWaveshaper(mode Mode) *Waveshaper {
	return &Waveshaper{
		mode:       mode,
		inputGain:  1,
		outputGain: 1,
	}
}

// SetMode changes the curve.
func (w *Waveshaper) SetMode(mode Mode) {
	w.mode = mode
}

// SetDrive sets drive, clamped to 0..1.
func (w *Waveshaper) SetDrive(drive float32) {
	w.drive = float32(math.Max(0, math.Min(1, float64(drive))))
}

// SetInputGain sets the linear input gain.
func (w *Waveshaper) SetInputGain(g float32) {
	w.inputGain = g
}

// SetOutputGain sets the linear output gain.
func (w *Waveshaper) SetOutputGain(g float32) {
	w.outputGain = g
}

// Process shapes a single sample.
func (w *Waveshaper) Process(input float32) float32 {
	return Shape(input, w.inputGain, w.outputGain, w.drive, w.mode)
}
