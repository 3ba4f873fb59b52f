package hyperclip

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the processing setup.
type Config struct {
	SampleRate   float64
	MaxBlockSize int
	Channels     int
}

// DefaultConfig returns a stereo 48 kHz setup with 512 frame blocks.
func DefaultConfig() Config {
	return Config{
		SampleRate:   48000,
		MaxBlockSize: 512,
		Channels:     2,
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if !(c.SampleRate >= 8000 && c.SampleRate <= 768000) {
		errs = append(errs, fmt.Errorf("%w: sample rate %g Hz", ErrInvalidSampleRate, c.SampleRate))
	}
	if c.MaxBlockSize < 1 || c.MaxBlockSize > 1<<16 {
		errs = append(errs, fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.MaxBlockSize))
	}
	if c.Channels != 1 && c.Channels != 2 {
		errs = append(errs, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, c.Channels))
	}
	return errors.Join(errs...)
}
