package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
	"github.com/justyntemme/hyperclip/pkg/framework/editor"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

const (
	driveStep = 0.05
	gainStep  = 1.0 // dB
)

const keyHelp = "d/D drive  i/I input  o/O output  m/M mode  r reset  q quit"

// Escape sequence states. Arrow and function keys arrive as ESC [ ... or
// ESC O x and are swallowed whole.
const (
	escNone = iota
	escStart
	escCSI
	escSS3
)

// keyboard turns single key presses into edit gestures.
type keyboard struct {
	handle   *editor.Handle
	params   *hyperclip.Params
	registry *param.Registry
	esc      int
}

func newKeyboard(p *hyperclip.Plugin) *keyboard {
	return &keyboard{handle: p.Editor(nil), params: p.Params(), registry: p.Parameters()}
}

// press applies one key. It reports whether the key asks to quit.
func (k *keyboard) press(b byte) (quit bool, err error) {
	if k.escape(b) {
		return false, nil
	}
	switch b {
	case 'q', 'Q', 3: // ctrl-c
		return true, nil
	case 'd':
		err = k.nudge(hyperclip.KeyDrive, k.params.Drive.GetPlainValue()-driveStep)
	case 'D':
		err = k.nudge(hyperclip.KeyDrive, k.params.Drive.GetPlainValue()+driveStep)
	case 'i':
		err = k.nudge(hyperclip.KeyInputGain, gain.StepDb(k.params.InputGain.GetPlainValue(), -gainStep))
	case 'I':
		err = k.nudge(hyperclip.KeyInputGain, gain.StepDb(k.params.InputGain.GetPlainValue(), gainStep))
	case 'o':
		err = k.nudge(hyperclip.KeyOutputGain, gain.StepDb(k.params.OutputGain.GetPlainValue(), -gainStep))
	case 'O':
		err = k.nudge(hyperclip.KeyOutputGain, gain.StepDb(k.params.OutputGain.GetPlainValue(), gainStep))
	case 'm':
		err = k.nudge(hyperclip.KeyMode, float64(k.shiftMode(1)))
	case 'M':
		err = k.nudge(hyperclip.KeyMode, float64(k.shiftMode(-1)))
	case 'r', 'R':
		k.registry.ResetAll()
	}
	return false, err
}

// escape reports whether b belongs to an escape sequence.
func (k *keyboard) escape(b byte) bool {
	switch k.esc {
	case escStart:
		switch b {
		case '[':
			k.esc = escCSI
			return true
		case 'O':
			k.esc = escSS3
			return true
		}
		k.esc = escNone
	case escCSI:
		// parameter and intermediate bytes until a final byte
		if b >= 0x40 && b <= 0x7e {
			k.esc = escNone
		}
		return true
	case escSS3:
		k.esc = escNone
		return true
	}
	if b == 27 {
		k.esc = escStart
		return true
	}
	return false
}

func (k *keyboard) nudge(key string, plain float64) error {
	return k.handle.Edit(key, func() error {
		return k.handle.Set(key, plain)
	})
}

func (k *keyboard) shiftMode(delta int) distortion.Mode {
	n := len(distortion.Modes)
	return distortion.Modes[((int(k.params.SelectedMode())+delta)%n+n)%n]
}

// statusLine renders the current display values on one line.
func (k *keyboard) statusLine() string {
	values := k.handle.Snapshot()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Name + " " + v.Display
	}
	return theme.status.Render(" " + strings.Join(parts, " | ") + " ")
}

// rawTerminal puts stdin in raw mode and forwards key presses until stdin
// closes. The returned function restores the terminal.
func rawTerminal() (<-chan byte, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, func() {}, fmt.Errorf("stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, func() {}, fmt.Errorf("raw mode: %w", err)
	}

	keys := make(chan byte, 16)
	go readKeys(os.Stdin, keys)
	return keys, func() { _ = term.Restore(fd, old) }, nil
}

func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}
