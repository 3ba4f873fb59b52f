// Package editor is the control-side boundary for a parameter panel: it
// owns the persisted window geometry and hands the panel a handle for
// bracketed parameter edits and read-only snapshots.
package editor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
)

// Default editor size in pixels.
const (
	DefaultWidth  = 230
	DefaultHeight = 500
)

// ErrInvalidState is returned when a persisted editor blob cannot be decoded.
var ErrInvalidState = errors.New("invalid editor state")

// State is the editor geometry. It is opaque to the processor and only
// round-trips through save and load.
type State struct {
	width  atomic.Uint32
	height atomic.Uint32
}

// NewState returns the default 230×500 geometry.
func NewState() *State {
	s := &State{}
	s.SetSize(DefaultWidth, DefaultHeight)
	return s
}

// Size returns the current width and height.
func (s *State) Size() (width, height uint32) {
	return s.width.Load(), s.height.Load()
}

// SetSize records a new window size. Zero dimensions are ignored.
func (s *State) SetSize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	s.width.Store(width)
	s.height.Store(height)
}

// MarshalBinary encodes the geometry as two little endian uint32 values.
func (s *State) MarshalBinary() ([]byte, error) {
	w, h := s.Size()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], w)
	binary.LittleEndian.PutUint32(buf[4:], h)
	return buf, nil
}

// UnmarshalBinary restores geometry written by MarshalBinary.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidState, len(data))
	}
	w := binary.LittleEndian.Uint32(data[0:])
	h := binary.LittleEndian.Uint32(data[4:])
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidState, w, h)
	}
	s.SetSize(w, h)
	return nil
}

// String formats the size as WxH.
func (s *State) String() string {
	w, h := s.Size()
	return fmt.Sprintf("%dx%d", w, h)
}
