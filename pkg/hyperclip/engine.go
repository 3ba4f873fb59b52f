package hyperclip

import (
	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
	"github.com/justyntemme/hyperclip/pkg/framework/plugin"
)

// Engine is the audio side of Hyperclip. It owns the smoothing cursors and
// must only be driven from one goroutine at a time. Process never
// allocates, blocks or takes a lock.
type Engine struct {
	params *Params

	inputGain  *param.Smoothed
	outputGain *param.Smoothed
	drive      *param.Smoothed

	channels int
	prepared bool
}

// NewEngine creates an engine reading the given parameters.
func NewEngine(params *Params) *Engine {
	return &Engine{
		params:     params,
		inputGain:  param.NewSmoothed(params.InputGain),
		outputGain: param.NewSmoothed(params.OutputGain),
		drive:      param.NewSmoothed(params.Drive),
	}
}

// Prepare sets the sample rate and channel count and snaps every cursor
// to its parameter's current value. A channel count below one leaves the
// engine unprepared.
func (e *Engine) Prepare(sampleRate float64, channels int) {
	if channels < 1 {
		e.channels = 0
		e.prepared = false
		return
	}
	e.inputGain.SetSampleRate(sampleRate)
	e.outputGain.SetSampleRate(sampleRate)
	e.drive.SetSampleRate(sampleRate)
	e.channels = channels
	e.prepared = true
}

// Reset snaps every cursor to its parameter's current value, dropping any
// ramp in progress.
func (e *Engine) Reset() {
	e.inputGain.Reset()
	e.outputGain.Reset()
	e.drive.Reset()
}

// Channels returns the prepared channel count.
func (e *Engine) Channels() int {
	return e.channels
}

// IsSmoothing reports whether any parameter is still ramping.
func (e *Engine) IsSmoothing() bool {
	return e.inputGain.IsSmoothing() || e.outputGain.IsSmoothing() || e.drive.IsSmoothing()
}

// Process shapes planar buffers in place. Each smoothed parameter advances
// once per frame and the same values apply to every channel of that frame.
// When channel lengths differ only the common prefix is processed.
func (e *Engine) Process(buffers [][]float32) plugin.Status {
	if !e.prepared {
		return plugin.StatusNotInitialized
	}
	if len(buffers) != e.channels {
		return plugin.StatusLayoutMismatch
	}

	frames := len(buffers[0])
	for _, buf := range buffers[1:] {
		frames = min(frames, len(buf))
	}

	for i := 0; i < frames; i++ {
		in, out, drive, mode := e.next()
		for _, buf := range buffers {
			buf[i] = distortion.Shape(buf[i], in, out, drive, mode)
		}
	}
	return plugin.StatusNormal
}

// ProcessInterleaved shapes interleaved frames in place. A trailing
// partial frame is left untouched.
func (e *Engine) ProcessInterleaved(samples []float32) plugin.Status {
	if !e.prepared {
		return plugin.StatusNotInitialized
	}
	channels := e.channels
	frames := len(samples) / channels

	for i := 0; i < frames; i++ {
		in, out, drive, mode := e.next()
		frame := samples[i*channels : (i+1)*channels]
		for ch, x := range frame {
			frame[ch] = distortion.Shape(x, in, out, drive, mode)
		}
	}
	return plugin.StatusNormal
}

// next advances the cursors by one frame. The mode is read fresh every
// frame, so a switch applies on the next sample without a crossfade.
func (e *Engine) next() (in, out, drive float32, mode distortion.Mode) {
	return e.inputGain.Next(), e.outputGain.Next(), e.drive.Next(), e.params.SelectedMode()
}
