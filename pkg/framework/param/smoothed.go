package param

// Smoothed is the audio-side view of a parameter: it follows the published
// plain value through a Smoother.
//
// Control goroutines write the Parameter; Next picks up the newest value at
// the start of the call by comparing the parameter's version counter. No
// locks are taken and nothing is allocated.
type Smoothed struct {
	param    *Parameter
	smoother Smoother
	seen     uint64
}

// NewSmoothed creates an audio-side cursor using the parameter's smoothing
// settings.
func NewSmoothed(p *Parameter) *Smoothed {
	s := &Smoothed{param: p}
	s.smoother = *NewSmoother(p.Smoothing, p.SmoothingMs)
	s.Reset()
	return s
}

// Parameter returns the underlying parameter.
func (s *Smoothed) Parameter() *Parameter {
	return s.param
}

// SetSampleRate recomputes the ramp length and jumps to the current value.
func (s *Smoothed) SetSampleRate(sampleRate float64) {
	s.smoother.SetSampleRate(sampleRate)
	s.Reset()
}

// Reset jumps to the parameter's current value.
func (s *Smoothed) Reset() {
	s.seen = s.param.Version()
	s.smoother.Reset(s.param.GetPlainValue())
}

// Next returns the value for the next sample. Call it exactly once per
// sample index.
func (s *Smoothed) Next() float32 {
	if v := s.param.Version(); v != s.seen {
		s.seen = v
		s.smoother.SetTarget(s.param.GetPlainValue())
	}
	return float32(s.smoother.Next())
}

// IsSmoothing returns true while a ramp is in progress.
func (s *Smoothed) IsSmoothing() bool {
	return s.smoother.IsSmoothing()
}

// Steps returns the ramp length in samples.
func (s *Smoothed) Steps() int {
	return s.smoother.Steps()
}
