package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter represents an automatable plugin parameter.
//
// The normalized value is stored atomically so control goroutines can write
// it while the audio goroutine reads it. Every write also bumps a version
// counter, which lets audio-side consumers detect new targets without locks.
type Parameter struct {
	ID           uint32
	Key          string // Stable identifier used for persistence and automation
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // Normalized
	StepCount    int32
	Flags        uint32

	// Skew shapes the plain/normalized mapping; 1 is linear
	Skew float64

	// Smoothing applied by audio-side consumers
	Smoothing   SmoothingType
	SmoothingMs float64

	// Atomic value for lock-free access in audio thread
	value   atomic.Uint64
	version atomic.Uint64

	// Value formatting
	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
	IsList      uint32 = 1 << 3
	IsHidden    uint32 = 1 << 4
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value (0-1). Out of range and NaN values are
// clamped rather than rejected.
func (p *Parameter) SetValue(value float64) {
	if value < 0 || math.IsNaN(value) {
		value = 0
	} else if value > 1 {
		value = 1
	}
	if p.StepCount > 0 {
		value = math.Round(value*float64(p.StepCount)) / float64(p.StepCount)
	}

	p.value.Store(math.Float64bits(value))
	p.version.Add(1)
}

// Version returns a counter that changes on every write.
func (p *Parameter) Version() uint64 {
	return p.version.Load()
}

// GetPlainValue converts normalized to plain value
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value
func (p *Parameter) SetPlainValue(plain float64) {
	if p.Max <= p.Min {
		p.SetValue(0)
		return
	}
	p.SetValue(p.Normalize(plain))
}

// Index returns the plain value rounded to the nearest integer, for list
// parameters.
func (p *Parameter) Index() int {
	return int(math.Round(p.GetPlainValue()))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// InRange reports whether a plain value lies within [Min, Max].
func (p *Parameter) InRange(plain float64) bool {
	return plain >= p.Min && plain <= p.Max
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)

	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	// Default formatting
	if p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// String returns the display string of the current value.
func (p *Parameter) String() string {
	return p.FormatValue(p.GetValue())
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %w", p.Key, err)
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s: %w", p.Key, err)
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min || math.IsNaN(plain) {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	if normalized <= 0 {
		return 0
	}
	if normalized >= 1 {
		return 1
	}
	if p.Skew != 0 && p.Skew != 1 {
		normalized = math.Pow(normalized, p.Skew)
	}
	return normalized
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	if normalized <= 0 {
		return p.Min
	}
	if normalized >= 1 {
		return p.Max
	}
	if p.Skew != 0 && p.Skew != 1 {
		normalized = math.Pow(normalized, 1/p.Skew)
	}
	return p.Min + normalized*(p.Max-p.Min)
}
