package process

// LoadFrames copies stereo frames into the context as the current block and
// returns the number of frames taken. With a single channel the frames are
// mixed down to mono.
func (c *Context) LoadFrames(frames [][2]float64) int {
	n := c.SetBlockSize(len(frames))
	switch c.NumChannels() {
	case 0:
	case 1:
		mono := c.channels[0]
		for i := 0; i < n; i++ {
			mono[i] = float32((frames[i][0] + frames[i][1]) * 0.5)
		}
	default:
		left, right := c.channels[0], c.channels[1]
		for i := 0; i < n; i++ {
			left[i] = float32(frames[i][0])
			right[i] = float32(frames[i][1])
		}
	}
	return n
}

// StoreFrames writes the current block back to stereo frames. A mono block
// is copied to both sides.
func (c *Context) StoreFrames(frames [][2]float64) {
	n := c.frames
	if len(frames) < n {
		n = len(frames)
	}
	switch c.NumChannels() {
	case 0:
	case 1:
		mono := c.channels[0]
		for i := 0; i < n; i++ {
			frames[i][0] = float64(mono[i])
			frames[i][1] = float64(mono[i])
		}
	default:
		left, right := c.channels[0], c.channels[1]
		for i := 0; i < n; i++ {
			frames[i][0] = float64(left[i])
			frames[i][1] = float64(right[i])
		}
	}
}
