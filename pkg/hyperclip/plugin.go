// Package hyperclip is a folding waveshaper distortion: four transfer
// curves, smoothed input gain, output gain and drive, and a triangle fold
// that keeps the output bounded by the output gain.
package hyperclip

import (
	"errors"
	"fmt"

	"github.com/justyntemme/hyperclip/pkg/framework/bus"
	"github.com/justyntemme/hyperclip/pkg/framework/plugin"
	"github.com/justyntemme/hyperclip/pkg/framework/process"
)

var (
	// ErrUnsupportedLayout is returned by Initialize for anything other
	// than mono or stereo in and out.
	ErrUnsupportedLayout = bus.ErrUnsupportedLayout
	// ErrInvalidSampleRate is returned by Initialize for unusable rates.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)

// Info describes the plugin.
var Info = plugin.Info{
	Name:    "Hyperclip",
	Vendor:  "n0emo",
	Version: "0.1.0",
	URL:     "https://github.com/n0emo/hyperclip",
	Email:   "dev_n0emo@tuta.io",
}

// Layouts are the supported channel layouts, preferred first.
var Layouts = []*bus.Configuration{
	bus.NewStereoConfiguration(),
	bus.NewMonoConfiguration(),
}

// Plugin ties the parameters, engine, state and editor together.
type Plugin struct {
	*plugin.Base

	params *Params
	engine *Engine
	layout *bus.Configuration
	config Config
	ctx    *process.Context
}

var _ plugin.Processor = (*Plugin)(nil)

// New creates a plugin with every parameter at its default. Call
// Initialize before processing.
func New() *Plugin {
	base := plugin.NewBase(Info)
	params, err := registerParams(base.Parameters())
	if err != nil {
		// keys and IDs are constants, so this only fails on a programming error
		panic(err)
	}
	return &Plugin{
		Base:   base,
		params: params,
		engine: NewEngine(params),
	}
}

// Params returns the plugin's parameters.
func (p *Plugin) Params() *Params {
	return p.params
}

// Engine returns the audio engine.
func (p *Plugin) Engine() *Engine {
	return p.engine
}

// Layout returns the negotiated channel layout, or nil before Initialize.
func (p *Plugin) Layout() *bus.Configuration {
	return p.layout
}

// Config returns the active configuration.
func (p *Plugin) Config() Config {
	return p.config
}

// Context returns the planar scratch buffers sized at Initialize.
func (p *Plugin) Context() *process.Context {
	return p.ctx
}

// Initialize negotiates the channel layout and prepares the engine. It is
// the only place setup errors are reported.
func (p *Plugin) Initialize(sampleRate float64, maxBlockSize, inputs, outputs int) error {
	layout, err := bus.Negotiate(int32(inputs), int32(outputs), Layouts...)
	if err != nil {
		return fmt.Errorf("initialize %s: %w", Info.Name, err)
	}

	cfg := Config{
		SampleRate:   sampleRate,
		MaxBlockSize: maxBlockSize,
		Channels:     int(layout.MainChannels(bus.DirectionOutput)),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initialize %s: %w", Info.Name, err)
	}

	p.layout = layout
	p.config = cfg
	p.ctx = process.NewContext(cfg.SampleRate, cfg.Channels, cfg.MaxBlockSize)
	p.engine.Prepare(cfg.SampleRate, cfg.Channels)

	p.Logger().Info("initialized %s: %s at %.0f Hz, blocks of %d",
		Info, layout, cfg.SampleRate, cfg.MaxBlockSize)
	return nil
}

// InitializeConfig is Initialize with matching input and output channels.
func (p *Plugin) InitializeConfig(cfg Config) error {
	return p.Initialize(cfg.SampleRate, cfg.MaxBlockSize, cfg.Channels, cfg.Channels)
}

// Process shapes planar buffers in place.
func (p *Plugin) Process(buffers [][]float32) plugin.Status {
	return p.engine.Process(buffers)
}

// ProcessInterleaved shapes interleaved frames in place.
func (p *Plugin) ProcessInterleaved(samples []float32) plugin.Status {
	return p.engine.ProcessInterleaved(samples)
}

// Reset drops any ramp in progress.
func (p *Plugin) Reset() {
	p.engine.Reset()
}
