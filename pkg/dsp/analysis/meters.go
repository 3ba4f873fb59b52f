package analysis

import (
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
)

// PeakMeter follows the output peak with a hold and a logarithmic decay.
// Process is called from the audio goroutine; the readings may be taken
// from any other goroutine.
type PeakMeter struct {
	sampleRate float64
	holdTime   float64 // seconds
	decayRate  float64 // dB per second

	peak      float64
	hold      float64
	holdCount int
	scratch   []float64

	peakBits atomic.Uint64
	holdBits atomic.Uint64
}

// NewPeakMeter creates a meter with a 1 second hold and 20 dB/s decay.
// maxBlock sizes the scratch buffer.
func NewPeakMeter(sampleRate float64, maxBlock int) *PeakMeter {
	return &PeakMeter{
		sampleRate: sampleRate,
		holdTime:   1,
		decayRate:  20,
		scratch:    make([]float64, maxBlock),
	}
}

// SetHoldTime sets the peak hold time in seconds. Call before processing.
func (pm *PeakMeter) SetHoldTime(seconds float64) {
	pm.holdTime = seconds
}

// SetDecayRate sets the decay in dB per second. Call before processing.
func (pm *PeakMeter) SetDecayRate(dbPerSecond float64) {
	pm.decayRate = dbPerSecond
}

// Process updates the meter with one block. Blocks longer than the
// scratch buffer are measured in pieces.
func (pm *PeakMeter) Process(samples []float32) {
	for len(samples) > 0 {
		n := min(len(samples), len(pm.scratch))
		if n == 0 {
			return
		}
		pm.process(samples[:n])
		samples = samples[n:]
	}
}

func (pm *PeakMeter) process(samples []float32) {
	x := pm.scratch[:len(samples)]
	for i, v := range samples {
		if v != v || math.IsInf(float64(v), 0) {
			x[i] = 0
			continue
		}
		x[i] = float64(v)
	}
	blockPeak := vecmath.MaxAbs(x)

	decay := pm.decayRate / 20 * math.Ln10 / pm.sampleRate
	pm.peak *= math.Exp(-decay * float64(len(samples)))
	if blockPeak > pm.peak {
		pm.peak = blockPeak
	}

	if blockPeak >= pm.hold {
		pm.hold = blockPeak
		pm.holdCount = int(pm.holdTime * pm.sampleRate)
	} else {
		pm.holdCount -= len(samples)
		if pm.holdCount <= 0 {
			pm.hold = pm.peak
			pm.holdCount = 0
		}
	}

	pm.peakBits.Store(math.Float64bits(pm.peak))
	pm.holdBits.Store(math.Float64bits(pm.hold))
}

// Peak returns the decaying peak as a linear level.
func (pm *PeakMeter) Peak() float64 {
	return math.Float64frombits(pm.peakBits.Load())
}

// PeakDB returns the decaying peak in decibels.
func (pm *PeakMeter) PeakDB() float64 {
	return gain.LinearToDb(pm.Peak())
}

// Hold returns the held peak as a linear level.
func (pm *PeakMeter) Hold() float64 {
	return math.Float64frombits(pm.holdBits.Load())
}

// HoldDB returns the held peak in decibels.
func (pm *PeakMeter) HoldDB() float64 {
	return gain.LinearToDb(pm.Hold())
}

// Reset clears the meter. It must not race with Process.
func (pm *PeakMeter) Reset() {
	pm.peak, pm.hold, pm.holdCount = 0, 0, 0
	pm.peakBits.Store(0)
	pm.holdBits.Store(0)
}
