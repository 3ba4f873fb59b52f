// Package param provides parameter management and smoothing for audio
// plugins.
package param

import (
	"math"
)

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// NoSmoothing jumps straight to the target
	NoSmoothing SmoothingType = iota
	// LinearSmoothing moves in equal additive steps
	LinearSmoothing
	// ExponentialSmoothing uses a one-pole filter that lands on the target
	// after the configured duration
	ExponentialSmoothing
	// LogarithmicSmoothing moves in equal ratios, for gains and frequencies
	LogarithmicSmoothing
)

// String returns the smoothing type name.
func (t SmoothingType) String() string {
	switch t {
	case NoSmoothing:
		return "none"
	case LinearSmoothing:
		return "linear"
	case ExponentialSmoothing:
		return "exponential"
	case LogarithmicSmoothing:
		return "logarithmic"
	default:
		return "unknown"
	}
}

// exponentialFloor is the residual left by exponential smoothing when the
// last step is reached.
const exponentialFloor = 1e-4

// Smoother ramps from its current value toward a target over a fixed number
// of samples. Every ramp takes the same duration regardless of distance.
//
// A Smoother is not safe for concurrent use; it belongs to the audio thread.
type Smoother struct {
	smoothingType SmoothingType
	durationMs    float64
	totalSteps    int

	current   float64
	target    float64
	stepsLeft int

	step  float64 // additive step (linear)
	ratio float64 // multiplicative step (logarithmic)
	coeff float64 // one-pole coefficient (exponential)
}

// NewSmoother creates a new parameter smoother with the given ramp duration
// in milliseconds. Call SetSampleRate before use.
func NewSmoother(smoothingType SmoothingType, durationMs float64) *Smoother {
	return &Smoother{
		smoothingType: smoothingType,
		durationMs:    durationMs,
	}
}

// StepsFor returns the number of samples a ramp of durationMs lasts at the
// given sample rate.
func StepsFor(sampleRate, durationMs float64) int {
	if sampleRate <= 0 || durationMs <= 0 {
		return 0
	}
	return int(math.Round(sampleRate * durationMs / 1000.0))
}

// SetSampleRate recomputes the ramp length. An ongoing ramp snaps to its
// target.
func (s *Smoother) SetSampleRate(sampleRate float64) {
	s.totalSteps = StepsFor(sampleRate, s.durationMs)
	if s.smoothingType == NoSmoothing {
		s.totalSteps = 0
	}
	if s.totalSteps > 0 {
		s.coeff = math.Pow(exponentialFloor, 1/float64(s.totalSteps))
	}
	s.Reset(s.target)
}

// Steps returns the ramp length in samples.
func (s *Smoother) Steps() int {
	return s.totalSteps
}

// SetTarget starts a new ramp from the current value. Setting the same target
// again does not restart an ongoing ramp.
func (s *Smoother) SetTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target

	if s.totalSteps == 0 {
		s.current = target
		s.stepsLeft = 0
		return
	}

	s.stepsLeft = s.totalSteps
	n := float64(s.totalSteps)

	switch s.smoothingType {
	case LogarithmicSmoothing:
		// Equal ratios need both ends strictly positive; otherwise fall back
		// to a linear ramp for this transition.
		if s.current > 0 && target > 0 {
			s.ratio = math.Pow(target/s.current, 1/n)
			s.step = 0
		} else {
			s.ratio = 0
			s.step = (target - s.current) / n
		}
	case LinearSmoothing:
		s.step = (target - s.current) / n
	}
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float64 {
	if s.stepsLeft == 0 {
		return s.current
	}

	s.stepsLeft--
	if s.stepsLeft == 0 {
		s.current = s.target
		return s.current
	}

	switch s.smoothingType {
	case ExponentialSmoothing:
		s.current = s.target + (s.current-s.target)*s.coeff
	case LogarithmicSmoothing:
		if s.ratio > 0 {
			s.current *= s.ratio
		} else {
			s.current += s.step
		}
	default:
		s.current += s.step
	}

	return s.current
}

// IsSmoothing returns true if the smoother is currently smoothing.
func (s *Smoother) IsSmoothing() bool {
	return s.stepsLeft > 0
}

// Current returns the value without advancing.
func (s *Smoother) Current() float64 {
	return s.current
}

// Target returns the value being ramped toward.
func (s *Smoother) Target() float64 {
	return s.target
}

// Reset jumps to a specific value and cancels any ramp.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.stepsLeft = 0
}
