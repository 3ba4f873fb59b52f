package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a single-sided magnitude spectrum.
type Spectrum struct {
	BinHz      float64
	Magnitudes []float64
}

// NewSpectrum computes the Hann-windowed magnitude spectrum of a real
// signal. Magnitudes are scaled so a full-scale sine on a bin centre reads
// close to its amplitude.
func NewSpectrum(signal []float64, sampleRate float64) Spectrum {
	if len(signal) == 0 {
		return Spectrum{}
	}
	x := make([]float64, len(signal))
	copy(x, signal)
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)
	bins := len(coeffs)/2 + 1
	// Hann has a coherent gain of 0.5
	scale := 4 / float64(len(coeffs))

	mags := make([]float64, bins)
	for i := range mags {
		mags[i] = cmplx.Abs(coeffs[i]) * scale
	}
	return Spectrum{
		BinHz:      sampleRate / float64(len(coeffs)),
		Magnitudes: mags,
	}
}

// Peak returns the frequency and magnitude of the strongest non-DC bin.
func (s Spectrum) Peak() (freq, magnitude float64) {
	if len(s.Magnitudes) < 2 {
		return 0, 0
	}
	best := strongestBin(s.Magnitudes)
	return float64(best) * s.BinHz, s.Magnitudes[best]
}

// At returns the magnitude of the bin nearest freq.
func (s Spectrum) At(freq float64) float64 {
	if s.BinHz <= 0 || freq < 0 {
		return 0
	}
	bin := int(math.Round(freq / s.BinHz))
	if bin < 0 || bin >= len(s.Magnitudes) {
		return 0
	}
	return s.Magnitudes[bin]
}
