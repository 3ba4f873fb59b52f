// Package analysis measures processed audio: levels, harmonic distortion,
// spectra and static transfer curves.
package analysis

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
)

// Level is the peak and RMS of a block.
type Level struct {
	Peak float64
	RMS  float64
}

// PeakDB returns the peak in decibels.
func (l Level) PeakDB() float64 {
	return gain.LinearToDb(l.Peak)
}

// RMSDB returns the RMS in decibels.
func (l Level) RMSDB() float64 {
	return gain.LinearToDb(l.RMS)
}

// Meter measures float32 blocks through a reusable float64 scratch buffer.
type Meter struct {
	scratch []float64
	peak    float64
	sumSq   float64
	count   int
}

// NewMeter creates a meter sized for blocks of up to maxBlock samples.
// Longer blocks grow the scratch buffer.
func NewMeter(maxBlock int) *Meter {
	return &Meter{scratch: make([]float64, maxBlock)}
}

// Measure returns the level of one block and adds it to the running totals.
func (m *Meter) Measure(buf []float32) Level {
	if len(buf) == 0 {
		return Level{}
	}
	if cap(m.scratch) < len(buf) {
		m.scratch = make([]float64, len(buf))
	}
	x := m.scratch[:len(buf)]
	for i, v := range buf {
		x[i] = float64(v)
	}

	peak := vecmath.MaxAbs(x)
	sumSq := vecmath.DotProduct(x, x)

	m.peak = max(m.peak, peak)
	m.sumSq += sumSq
	m.count += len(buf)

	return Level{Peak: peak, RMS: math.Sqrt(sumSq / float64(len(buf)))}
}

// Total returns the level over everything measured since the last Reset.
func (m *Meter) Total() Level {
	if m.count == 0 {
		return Level{}
	}
	return Level{Peak: m.peak, RMS: math.Sqrt(m.sumSq / float64(m.count))}
}

// Reset clears the running totals.
func (m *Meter) Reset() {
	m.peak, m.sumSq, m.count = 0, 0, 0
}
