package editor

import (
	"fmt"

	"github.com/justyntemme/hyperclip/pkg/framework/param"
)

// GestureListener receives edit gestures so a host can group undo steps and
// mark automation lanes as touched.
type GestureListener interface {
	BeginEdit(id uint32)
	PerformEdit(id uint32, normalized float64)
	EndEdit(id uint32)
}

// Handle is what an editor gets: bracketed writes into the parameter
// registry and snapshots to draw from. Writes are atomic stores, so any
// goroutine other than the audio one may use it.
type Handle struct {
	params   *param.Registry
	state    *State
	listener GestureListener
}

// NewHandle creates a handle. The listener may be nil.
func NewHandle(params *param.Registry, state *State, listener GestureListener) *Handle {
	return &Handle{params: params, state: state, listener: listener}
}

// State returns the editor geometry.
func (h *Handle) State() *State {
	return h.state
}

// BeginSet starts an edit gesture on a parameter.
func (h *Handle) BeginSet(key string) error {
	p, err := h.writable(key)
	if err != nil {
		return err
	}
	if h.listener != nil {
		h.listener.BeginEdit(p.ID)
	}
	return nil
}

// Set requests a new plain value. Out of range values are clamped.
func (h *Handle) Set(key string, plain float64) error {
	p, err := h.writable(key)
	if err != nil {
		return err
	}
	p.SetPlainValue(plain)
	h.perform(p)
	return nil
}

// SetNormalized requests a new normalized value in [0, 1].
func (h *Handle) SetNormalized(key string, normalized float64) error {
	p, err := h.writable(key)
	if err != nil {
		return err
	}
	p.SetValue(normalized)
	h.perform(p)
	return nil
}

// SetText parses a display string such as "-6 dB" or "Sine" and applies it.
func (h *Handle) SetText(key, text string) error {
	p, err := h.writable(key)
	if err != nil {
		return err
	}
	normalized, err := p.ParseValue(text)
	if err != nil {
		return err
	}
	p.SetValue(normalized)
	h.perform(p)
	return nil
}

// EndSet finishes an edit gesture.
func (h *Handle) EndSet(key string) error {
	p, err := h.params.Lookup(key)
	if err != nil {
		return err
	}
	if h.listener != nil {
		h.listener.EndEdit(p.ID)
	}
	return nil
}

// Edit brackets fn with BeginSet and EndSet.
func (h *Handle) Edit(key string, fn func() error) error {
	if err := h.BeginSet(key); err != nil {
		return err
	}
	defer h.EndSet(key)
	return fn()
}

// Snapshot returns a copy of every parameter's current value.
func (h *Handle) Snapshot() []param.Value {
	return h.params.Snapshot()
}

func (h *Handle) writable(key string) (*param.Parameter, error) {
	p, err := h.params.Lookup(key)
	if err != nil {
		return nil, err
	}
	if p.Flags&param.IsReadOnly != 0 {
		return nil, fmt.Errorf("parameter %s is read-only", key)
	}
	return p, nil
}

func (h *Handle) perform(p *param.Parameter) {
	if h.listener != nil {
		h.listener.PerformEdit(p.ID, p.GetValue())
	}
}
