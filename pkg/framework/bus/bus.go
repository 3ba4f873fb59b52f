// Package bus describes audio I/O layouts and negotiates them with the host.
package bus

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLayout is returned when the host asks for a channel layout
// the plugin does not support.
var ErrUnsupportedLayout = errors.New("unsupported bus layout")

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Type represents the bus type
type Type int32

const (
	// TypeMain represents main bus
	TypeMain Type = 0
	// TypeAux represents auxiliary bus
	TypeAux Type = 1
)

// Info contains bus configuration
type Info struct {
	Direction    Direction
	ChannelCount int32
	Name         string
	BusType      Type
	IsActive     bool
}

// Configuration is one audio layout: a set of input and output buses.
type Configuration struct {
	audioBuses []Info
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return NewBuilder().
		WithStereoInput("Stereo In").
		WithStereoOutput("Stereo Out").
		MustBuild()
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return NewBuilder().
		WithMonoInput("Mono In").
		WithMonoOutput("Mono Out").
		MustBuild()
}

// GetBusCount returns the number of buses for a given direction
func (c *Configuration) GetBusCount(direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.audioBuses {
		if bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.audioBuses {
		if c.audioBuses[i].Direction == direction {
			if busIndex == index {
				return &c.audioBuses[i]
			}
			busIndex++
		}
	}
	return nil
}

// MainChannels returns the channel count of the first main bus in the given
// direction, or 0 if there is none.
func (c *Configuration) MainChannels(direction Direction) int32 {
	for _, bus := range c.audioBuses {
		if bus.Direction == direction && bus.BusType == TypeMain {
			return bus.ChannelCount
		}
	}
	return 0
}

// Matches reports whether the main buses carry the given channel counts.
func (c *Configuration) Matches(inputs, outputs int32) bool {
	return c.MainChannels(DirectionInput) == inputs && c.MainChannels(DirectionOutput) == outputs
}

// String describes the main layout, e.g. "2in/2out".
func (c *Configuration) String() string {
	return fmt.Sprintf("%din/%dout", c.MainChannels(DirectionInput), c.MainChannels(DirectionOutput))
}

// Negotiate picks the first supported configuration matching the requested
// channel counts.
func Negotiate(inputs, outputs int32, supported ...*Configuration) (*Configuration, error) {
	for _, c := range supported {
		if c.Matches(inputs, outputs) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %din/%dout", ErrUnsupportedLayout, inputs, outputs)
}
