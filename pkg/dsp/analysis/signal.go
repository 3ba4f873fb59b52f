package analysis

import "math"

// Sine fills dst with a sine of the given frequency and amplitude.
func Sine(dst []float64, freq, sampleRate, amplitude float64) {
	w := 2 * math.Pi * freq / sampleRate
	for i := range dst {
		dst[i] = amplitude * math.Sin(w*float64(i))
	}
}

// CoherentFrequency moves freq onto the nearest FFT bin centre for the
// given size, so a test tone does not leak into its neighbours.
func CoherentFrequency(freq, sampleRate float64, fftSize int) float64 {
	binHz := sampleRate / float64(fftSize)
	return math.Max(1, math.Round(freq/binHz)) * binHz
}

// TransferCurve samples a static shaping function at n evenly spaced inputs
// from lo to hi. Each point is {input, output}.
func TransferCurve(shape func(float32) float32, lo, hi float64, n int) [][2]float64 {
	if n < 2 {
		n = 2
	}
	points := make([][2]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range points {
		x := lo + step*float64(i)
		points[i] = [2]float64{x, float64(shape(float32(x)))}
	}
	return points
}
