package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/window"
)

var (
	// ErrEmptySignal is returned when there is nothing to analyze.
	ErrEmptySignal = errors.New("empty signal")
	// ErrNoFundamental is returned when the fundamental has no energy.
	ErrNoFundamental = errors.New("fundamental not found")
)

// hannCapture is the half width in bins of a Hann main lobe.
const hannCapture = 2

// THDConfig selects what THD measures.
type THDConfig struct {
	SampleRate   float64
	Fundamental  float64 // Hz; 0 picks the strongest bin
	MaxHarmonics int     // 0 means up to Nyquist
}

// THDResult holds a harmonic distortion measurement.
type THDResult struct {
	FundamentalHz    float64
	FundamentalLevel float64
	// THD is the harmonic energy relative to the fundamental, as a ratio.
	THD float64
	// Harmonics holds the level of harmonics 2, 3, ... relative to the
	// fundamental.
	Harmonics []float64
}

// THDdB returns THD in decibels.
func (r THDResult) THDdB() float64 {
	if r.THD <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(r.THD)
}

// Odd returns the summed level of the odd harmonics.
func (r THDResult) Odd() float64 {
	return r.sumHarmonics(1)
}

// Even returns the summed level of the even harmonics.
func (r THDResult) Even() float64 {
	return r.sumHarmonics(0)
}

func (r THDResult) sumHarmonics(parity int) float64 {
	var sum float64
	for i, h := range r.Harmonics {
		// Harmonics[0] is the 2nd harmonic
		if (i+2)%2 == parity {
			sum += h * h
		}
	}
	return math.Sqrt(sum)
}

// THD windows the signal with a Hann window, transforms it and compares
// harmonic bins against the fundamental. The signal is zero padded to a
// power of two.
func THD(signal []float64, cfg THDConfig) (THDResult, error) {
	if len(signal) < 4 {
		return THDResult{}, ErrEmptySignal
	}
	if cfg.SampleRate <= 0 {
		return THDResult{}, fmt.Errorf("thd: sample rate %g", cfg.SampleRate)
	}

	size := nextPowerOf2(len(signal))
	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, window.Hann(len(signal)))

	in := make([]complex128, size)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, size)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return THDResult{}, fmt.Errorf("thd: %w", err)
	}
	if err := plan.Forward(out, in); err != nil {
		return THDResult{}, fmt.Errorf("thd: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range re {
		re[i], im[i] = real(out[i]), imag(out[i])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	binHz := cfg.SampleRate / float64(size)
	fundamental := strongestBin(mag)
	if cfg.Fundamental > 0 {
		fundamental = int(math.Round(cfg.Fundamental / binHz))
	}
	if fundamental < 1 || fundamental >= bins {
		return THDResult{}, fmt.Errorf("%w: bin %d of %d", ErrNoFundamental, fundamental, bins)
	}

	capture := min(hannCapture, fundamental/2)
	level := lobe(mag, fundamental, capture)
	if level <= 0 {
		return THDResult{}, ErrNoFundamental
	}

	result := THDResult{
		FundamentalHz:    float64(fundamental) * binHz,
		FundamentalLevel: level,
	}
	var sumSq float64
	for k := 2; k*fundamental < bins; k++ {
		if cfg.MaxHarmonics > 0 && k-1 > cfg.MaxHarmonics {
			break
		}
		h := lobe(mag, k*fundamental, capture) / level
		result.Harmonics = append(result.Harmonics, h)
		sumSq += h * h
	}
	result.THD = math.Sqrt(sumSq)
	return result, nil
}

// lobe sums the magnitudes of a bin and its neighbours.
func lobe(mag []float64, bin, capture int) float64 {
	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(mag)-1)
	return vecmath.Sum(mag[lo : hi+1])
}

func strongestBin(mag []float64) int {
	best := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	return best
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
