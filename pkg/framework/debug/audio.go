package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer inspects rendered buffers for problems the processor is
// supposed to rule out: non-finite samples, clipping and DC drift.
type AudioAnalyzer struct {
	ClippingThreshold float32
	DCThreshold       float32
	SilenceThreshold  float32
}

// NewAudioAnalyzer creates a new audio analyzer with default settings.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		ClippingThreshold: 0.99,
		DCThreshold:       0.01,
		SilenceThreshold:  0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis. Non-finite
// samples are counted but excluded from the level statistics.
type AnalysisResult struct {
	Samples        int
	Peak           float32
	RMS            float32
	DC             float32
	ClippedSamples int
	Silent         bool
	NaNCount       int
	InfCount       int
	ZeroCrossings  int
}

// Clipping reports whether any sample reached the clipping threshold.
func (r AnalysisResult) Clipping() bool {
	return r.ClippedSamples > 0
}

// Finite reports whether every sample was finite.
func (r AnalysisResult) Finite() bool {
	return r.NaNCount == 0 && r.InfCount == 0
}

// Analyze computes level statistics for a buffer.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{Samples: len(buffer)}
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var last float32
	counted := 0

	for _, sample := range buffer {
		x := float64(sample)
		switch {
		case math.IsNaN(x):
			result.NaNCount++
			continue
		case math.IsInf(x, 0):
			result.InfCount++
			continue
		}

		abs := float32(math.Abs(x))
		if abs > result.Peak {
			result.Peak = abs
		}
		if abs >= a.ClippingThreshold {
			result.ClippedSamples++
		}

		sum += x
		sumSquares += x * x

		if counted > 0 && (last < 0) != (sample < 0) {
			result.ZeroCrossings++
		}
		last = sample
		counted++
	}

	if counted > 0 {
		result.RMS = float32(math.Sqrt(sumSquares / float64(counted)))
		result.DC = float32(sum / float64(counted))
	}
	result.Silent = result.RMS < a.SilenceThreshold
	return result
}

// Check returns a description of each problem found in the buffer.
func (a *AudioAnalyzer) Check(buffer []float32, name string) []string {
	result := a.Analyze(buffer)
	var issues []string

	if result.NaNCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN values", name, result.NaNCount))
	}
	if result.InfCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d infinite values", name, result.InfCount))
	}
	if result.Clipping() {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples)", name, result.ClippedSamples))
	}
	if math.Abs(float64(result.DC)) > float64(a.DCThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}
	return issues
}

// CompareBuffers compares two audio buffers and reports differences.
func CompareBuffers(a, b []float32, tolerance float32) string {
	if len(a) != len(b) {
		return fmt.Sprintf("buffer length mismatch: %d vs %d", len(a), len(b))
	}

	var maxDiff float32
	var maxDiffIndex, diffCount int
	var totalDiff float64

	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			diffCount++
			totalDiff += float64(diff)
			if diff > maxDiff {
				maxDiff = diff
				maxDiffIndex = i
			}
		}
	}

	if diffCount == 0 {
		return "buffers are identical within tolerance"
	}

	return fmt.Sprintf("buffer differences:\n"+
		"  samples different: %d / %d (%.1f%%)\n"+
		"  max difference: %.6f at sample %d\n"+
		"  average difference: %.6f",
		diffCount, len(a), float64(diffCount)/float64(len(a))*100,
		maxDiff, maxDiffIndex,
		totalDiff/float64(diffCount))
}

var defaultAnalyzer = NewAudioAnalyzer()

// AnalyzeBuffer performs analysis on a buffer using the default analyzer.
func AnalyzeBuffer(buffer []float32) AnalysisResult {
	return defaultAnalyzer.Analyze(buffer)
}

// CheckAudioBuffer logs each problem found in the buffer as a warning and
// reports whether the buffer was clean.
func CheckAudioBuffer(buffer []float32, name string) bool {
	issues := defaultAnalyzer.Check(buffer, name)
	for _, issue := range issues {
		Warn("%s", issue)
	}
	return len(issues) == 0
}

// LogBufferStats logs statistics about an audio buffer at debug level.
func LogBufferStats(buffer []float32, name string) {
	r := defaultAnalyzer.Analyze(buffer)
	Debug("buffer %q: samples=%d peak=%.3f rms=%.3f dc=%.6f clipped=%d nan=%d inf=%d",
		name, r.Samples, r.Peak, r.RMS, r.DC, r.ClippedSamples, r.NaNCount, r.InfCount)
}
