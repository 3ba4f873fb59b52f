package plugin

import (
	"fmt"
	"io"

	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/framework/editor"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
	"github.com/justyntemme/hyperclip/pkg/framework/state"
)

// Status is the result of one process call.
type Status int

const (
	// StatusNormal means the block was processed.
	StatusNormal Status = iota
	// StatusNotInitialized means the processor has not been set up yet and
	// the block was left untouched.
	StatusNotInitialized
	// StatusLayoutMismatch means the buffers did not match the negotiated
	// channel count and the block was left untouched.
	StatusLayoutMismatch
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusNotInitialized:
		return "not initialized"
	case StatusLayoutMismatch:
		return "layout mismatch"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Processor is the audio side of a plugin.
type Processor interface {
	// Initialize prepares for processing. It may allocate and fail.
	Initialize(sampleRate float64, maxBlockSize, inputs, outputs int) error
	// Process transforms planar buffers in place. Zero allocations allowed.
	Process(buffers [][]float32) Status
	// Reset clears processing state such as smoothing ramps.
	Reset()
}

// Base provides core functionality for all plugins
type Base struct {
	Info   Info
	params *param.Registry
	state  *state.Manager
	editor *editor.State
	logger *debug.Logger
}

// NewBase creates a new plugin base. The editor geometry is saved along
// with the parameters.
func NewBase(info Info) *Base {
	b := &Base{
		Info:   info,
		params: param.NewRegistry(),
		editor: editor.NewState(),
		logger: debug.Default(),
	}
	b.state = state.NewManager(b.params)
	b.state.SetCustomState(b.editor)
	return b
}

// Parameters returns the parameter registry for configuration
func (b *Base) Parameters() *param.Registry {
	return b.params
}

// EditorState returns the persisted editor geometry.
func (b *Base) EditorState() *editor.State {
	return b.editor
}

// Editor returns a handle for a parameter panel. The listener may be nil.
func (b *Base) Editor(listener editor.GestureListener) *editor.Handle {
	return editor.NewHandle(b.params, b.editor, listener)
}

// Logger returns the plugin's logger.
func (b *Base) Logger() *debug.Logger {
	return b.logger
}

// SetLogger replaces the logger used by the plugin and its state manager.
func (b *Base) SetLogger(l *debug.Logger) {
	b.logger = l
	b.state.SetLogger(l)
}

// SaveState writes parameter values and editor geometry.
func (b *Base) SaveState(w io.Writer) error {
	if err := b.state.Save(w); err != nil {
		return fmt.Errorf("save %s state: %w", b.Info.Name, err)
	}
	return nil
}

// LoadState restores parameter values and editor geometry. Restored values
// become new smoothing targets, so playback ramps to them.
func (b *Base) LoadState(r io.Reader) error {
	if err := b.state.Load(r); err != nil {
		return fmt.Errorf("load %s state: %w", b.Info.Name, err)
	}
	b.logger.Debug("loaded state, editor %s", b.editor)
	return nil
}
