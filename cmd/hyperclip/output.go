package main

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// output adapts a stereo beep.Streamer to the interleaved float32 byte
// stream oto pulls from its audio goroutine. Once the streamer is drained
// it plays silence and reports done.
type output struct {
	src    beep.Streamer
	frames [][2]float64
	done   atomic.Bool
}

func newOutput(src beep.Streamer, maxFrames int) *output {
	return &output{src: src, frames: make([][2]float64, maxFrames)}
}

// Read implements io.Reader.
func (o *output) Read(p []byte) (int, error) {
	const frameBytes = 8
	n := len(p) / frameBytes
	if n == 0 {
		return 0, nil
	}
	if cap(o.frames) < n {
		o.frames = make([][2]float64, n)
	}
	frames := o.frames[:n]

	got := 0
	if !o.done.Load() {
		var ok bool
		got, ok = o.src.Stream(frames)
		if !ok {
			o.done.Store(true)
		}
	}
	clear(frames[got:])

	for i, f := range frames {
		binary.LittleEndian.PutUint32(p[i*frameBytes:], math.Float32bits(float32(f[0])))
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], math.Float32bits(float32(f[1])))
	}
	return n * frameBytes, nil
}

// Done reports whether the source has run out.
func (o *output) Done() bool {
	return o.done.Load()
}

// tone is an endless sine test signal.
func tone(freq, sampleRate, amplitude float64) beep.Streamer {
	phase := 0.0
	step := 2 * math.Pi * freq / sampleRate
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			v := amplitude * math.Sin(phase)
			samples[i] = [2]float64{v, v}
			phase += step
			if phase >= 2*math.Pi {
				phase -= 2 * math.Pi
			}
		}
		return len(samples), true
	})
}
