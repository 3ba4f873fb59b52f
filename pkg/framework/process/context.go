// Package process provides the audio processing context: pre-allocated
// planar buffers and the conversions between interleaved and planar audio.
package process

// Context holds planar channel buffers sized for the largest block, so the
// processing path never allocates.
type Context struct {
	SampleRate float64

	channels [][]float32
	storage  []float32
	frames   int
	maxBlock int
}

// NewContext creates a new process context with pre-allocated buffers
func NewContext(sampleRate float64, channels, maxBlockSize int) *Context {
	storage := make([]float32, channels*maxBlockSize)
	c := &Context{
		SampleRate: sampleRate,
		channels:   make([][]float32, channels),
		storage:    storage,
		maxBlock:   maxBlockSize,
	}
	for ch := range c.channels {
		c.channels[ch] = storage[ch*maxBlockSize : (ch+1)*maxBlockSize]
	}
	return c
}

// MaxBlockSize returns the largest block the context can hold.
func (c *Context) MaxBlockSize() int {
	return c.maxBlock
}

// NumChannels returns the number of channels
func (c *Context) NumChannels() int {
	return len(c.channels)
}

// NumSamples returns the number of frames in the current block
func (c *Context) NumSamples() int {
	return c.frames
}

// SetBlockSize sets the number of frames in the current block, capped at
// the maximum, and returns the value used.
func (c *Context) SetBlockSize(frames int) int {
	if frames > c.maxBlock {
		frames = c.maxBlock
	}
	if frames < 0 {
		frames = 0
	}
	c.frames = frames
	for ch := range c.channels {
		c.channels[ch] = c.storage[ch*c.maxBlock : ch*c.maxBlock+frames]
	}
	return frames
}

// Buffers returns the planar buffers for the current block. The slices are
// reused between blocks.
func (c *Context) Buffers() [][]float32 {
	return c.channels
}

// Channel returns one channel of the current block
func (c *Context) Channel(ch int) []float32 {
	return c.channels[ch]
}

