// Package pmsource reads MIDI input through PortMidi.
package pmsource

import (
	"errors"
	"fmt"

	"github.com/rakyll/portmidi"

	"github.com/justyntemme/hyperclip/internal/midicc"
)

// ErrNoDevice is returned when no input device is available.
var ErrNoDevice = errors.New("no midi input device")

// Device describes a MIDI input.
type Device struct {
	ID        int
	Name      string
	Interface string
}

// Devices lists the available inputs. PortMidi must be initialized, which
// Open does; call Initialize first when listing without opening.
func Devices() []Device {
	var devices []Device
	for i := 0; i < portmidi.CountDevices(); i++ {
		info := portmidi.Info(portmidi.DeviceID(i))
		if info == nil || !info.IsInputAvailable {
			continue
		}
		devices = append(devices, Device{ID: i, Name: info.Name, Interface: info.Interface})
	}
	return devices
}

// Initialize starts PortMidi. Pair it with Terminate.
func Initialize() error {
	return portmidi.Initialize()
}

// Terminate stops PortMidi.
func Terminate() error {
	return portmidi.Terminate()
}

// Source is an open PortMidi input stream.
type Source struct {
	stream *portmidi.Stream
}

// Open initializes PortMidi and opens a device. A negative id selects the
// system default input.
func Open(id int) (*Source, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("portmidi: %w", err)
	}
	device := portmidi.DeviceID(id)
	if id < 0 {
		device = portmidi.DefaultInputDeviceID()
	}
	if device < 0 {
		portmidi.Terminate()
		return nil, ErrNoDevice
	}
	stream, err := portmidi.NewInputStream(device, 1024)
	if err != nil {
		portmidi.Terminate()
		return nil, fmt.Errorf("open midi device %d: %w", device, err)
	}
	return &Source{stream: stream}, nil
}

// Read implements midicc.Source.
func (s *Source) Read(max int) ([]midicc.Event, error) {
	events, err := s.stream.Read(max)
	if err != nil {
		return nil, err
	}
	out := make([]midicc.Event, len(events))
	for i, ev := range events {
		out[i] = midicc.Event{
			Timestamp: int64(ev.Timestamp),
			Status:    ev.Status,
			Data1:     ev.Data1,
			Data2:     ev.Data2,
		}
	}
	return out, nil
}

// Close closes the stream and shuts PortMidi down.
func (s *Source) Close() error {
	err := s.stream.Close()
	return errors.Join(err, portmidi.Terminate())
}
