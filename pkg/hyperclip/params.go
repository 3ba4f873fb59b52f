package hyperclip

import (
	"fmt"

	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
)

// Parameter IDs
const (
	ParamInputGain = iota
	ParamOutputGain
	ParamDrive
	ParamMode
)

// Stable parameter keys used for persistence, automation and the CLI.
const (
	KeyInputGain  = "input-gain"
	KeyOutputGain = "output-gain"
	KeyDrive      = "drive"
	KeyMode       = "mode"
)

// Gain range in decibels for both gain stages.
const (
	MinGainDB = -30.0
	MaxGainDB = 30.0
)

// Params holds direct pointers into the registry so the audio path never
// looks anything up by key.
type Params struct {
	InputGain  *param.Parameter
	OutputGain *param.Parameter
	Drive      *param.Parameter
	Mode       *param.Parameter
}

// SelectedMode returns the selected waveshaper mode.
func (p *Params) SelectedMode() distortion.Mode {
	m := distortion.Mode(p.Mode.Index())
	if !m.Valid() {
		return distortion.ModeLinear
	}
	return m
}

// SetMode selects a waveshaper mode.
func (p *Params) SetMode(m distortion.Mode) {
	p.Mode.SetPlainValue(float64(m))
}

func modeOptions() []param.ChoiceOption {
	options := make([]param.ChoiceOption, len(distortion.Modes))
	for i, m := range distortion.Modes {
		options[i] = param.ChoiceOption{Value: float64(m), Name: m.String()}
	}
	// Short aliases for the keyboard and MIDI control surfaces
	options[distortion.ModeLinear].Aliases = []string{"lin"}
	options[distortion.ModeExponential].Aliases = []string{"exp"}
	options[distortion.ModeLogarithmic].Aliases = []string{"log"}
	options[distortion.ModeSine].Aliases = []string{"sin"}
	return options
}

// registerParams adds the four controls to the registry in display order.
func registerParams(r *param.Registry) (*Params, error) {
	p := &Params{
		InputGain: param.GainParameter(ParamInputGain, KeyInputGain, "Input Gain", MinGainDB, MaxGainDB).
			ShortName("In").
			Build(),
		OutputGain: param.GainParameter(ParamOutputGain, KeyOutputGain, "Output Gain", MinGainDB, MaxGainDB).
			ShortName("Out").
			Build(),
		Drive: param.PercentParameter(ParamDrive, KeyDrive, "Drive").
			Build(),
		Mode: param.Choice(ParamMode, KeyMode, "Mode", modeOptions()).
			Build(),
	}

	if err := r.Add(p.InputGain, p.OutputGain, p.Drive, p.Mode); err != nil {
		return nil, fmt.Errorf("register parameters: %w", err)
	}
	return p, nil
}
