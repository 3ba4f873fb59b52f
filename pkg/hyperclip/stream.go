package hyperclip

import (
	"github.com/gopxl/beep"

	"github.com/justyntemme/hyperclip/pkg/framework/debug"
)

// Streamer runs a beep.Streamer through the plugin in blocks of at most the
// configured block size. Mono layouts mix the source down and play the
// result on both sides.
type Streamer struct {
	plugin   *Plugin
	src      beep.Streamer
	position int

	before   func(position int)
	after    func(buffers [][]float32)
	profiler *debug.BlockProfiler
}

// NewStreamer wraps src. The plugin must be initialized.
func NewStreamer(p *Plugin, src beep.Streamer) *Streamer {
	return &Streamer{plugin: p, src: src}
}

// Before registers a hook called ahead of each block with the position of
// its first frame. Parameter automation goes here.
func (s *Streamer) Before(fn func(position int)) {
	s.before = fn
}

// After registers a hook called with the processed planar block.
func (s *Streamer) After(fn func(buffers [][]float32)) {
	s.after = fn
}

// SetProfiler times every block against its real-time budget.
func (s *Streamer) SetProfiler(p *debug.BlockProfiler) {
	s.profiler = p
}

// Position returns the number of frames streamed so far.
func (s *Streamer) Position() int {
	return s.position
}

// Stream implements beep.Streamer. Before the plugin is initialized the
// source passes through unprocessed.
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	ctx := s.plugin.Context()
	if ctx == nil {
		n, ok = s.src.Stream(samples)
		s.position += n
		return n, ok
	}
	block := ctx.MaxBlockSize()

	for n < len(samples) {
		chunk := samples[n:min(n+block, len(samples))]
		if s.before != nil {
			s.before(s.position)
		}

		k, more := s.src.Stream(chunk)
		if k > 0 {
			s.process(chunk[:k])
			n += k
			s.position += k
		}
		if !more {
			return n, n > 0
		}
		if k == 0 {
			break
		}
	}
	return n, true
}

func (s *Streamer) process(frames [][2]float64) {
	ctx := s.plugin.Context()
	ctx.LoadFrames(frames)

	if s.profiler != nil {
		stop := s.profiler.Block(len(frames))
		s.plugin.Process(ctx.Buffers())
		stop()
	} else {
		s.plugin.Process(ctx.Buffers())
	}

	if s.after != nil {
		s.after(ctx.Buffers())
	}
	ctx.StoreFrames(frames)
}

// Err implements beep.Streamer.
func (s *Streamer) Err() error {
	return s.src.Err()
}
