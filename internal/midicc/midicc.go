// Package midicc maps MIDI control change messages onto parameters.
package midicc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/framework/editor"
)

// Event is a raw MIDI message.
type Event struct {
	Timestamp int64
	Status    int64
	Data1     int64
	Data2     int64
}

// Source yields pending MIDI events without blocking.
type Source interface {
	Read(max int) ([]Event, error)
}

const controlChange = 0xB0

// Mapping assigns controller numbers to parameter keys.
type Mapping map[uint8]string

// DefaultMapping puts the four controls on CC 20 to 23, which have no
// standard assignment and are free on most controllers.
func DefaultMapping() Mapping {
	return Mapping{
		20: "input-gain",
		21: "output-gain",
		22: "drive",
		23: "mode",
	}
}

// ParseMapping reads a list such as "20=drive,21=mode".
func ParseMapping(s string) (Mapping, error) {
	m := Mapping{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cc, key, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("mapping %q: want cc=key", part)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(cc), 10, 7)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", part, err)
		}
		m[uint8(n)] = strings.TrimSpace(key)
	}
	if len(m) == 0 {
		return nil, errors.New("empty mapping")
	}
	return m, nil
}

// String lists the mapping in controller order.
func (m Mapping) String() string {
	ccs := make([]int, 0, len(m))
	for cc := range m {
		ccs = append(ccs, int(cc))
	}
	sort.Ints(ccs)
	parts := make([]string, len(ccs))
	for i, cc := range ccs {
		parts[i] = fmt.Sprintf("%d=%s", cc, m[uint8(cc)])
	}
	return strings.Join(parts, ",")
}

// Controller applies control changes through an editor handle.
type Controller struct {
	mapping Mapping
	handle  *editor.Handle
	channel int
	logger  *debug.Logger
}

// NewController creates a controller listening on every channel.
func NewController(handle *editor.Handle, mapping Mapping) *Controller {
	return &Controller{
		mapping: mapping,
		handle:  handle,
		channel: -1,
		logger:  debug.Default(),
	}
}

// SetChannel restricts the controller to one MIDI channel (0-15). A
// negative channel listens on all of them.
func (c *Controller) SetChannel(ch int) {
	c.channel = ch
}

// SetLogger sets the logger used for rejected messages.
func (c *Controller) SetLogger(l *debug.Logger) {
	c.logger = l
}

// Handle applies one event and reports whether it changed a parameter.
// The controller value 0-127 maps linearly onto the normalized range.
func (c *Controller) Handle(ev Event) (bool, error) {
	if ev.Status&0xF0 != controlChange {
		return false, nil
	}
	if c.channel >= 0 && int(ev.Status&0x0F) != c.channel {
		return false, nil
	}
	key, ok := c.mapping[uint8(ev.Data1&0x7F)]
	if !ok {
		return false, nil
	}
	value := float64(ev.Data2&0x7F) / 127
	if err := c.handle.SetNormalized(key, value); err != nil {
		return false, fmt.Errorf("cc %d: %w", ev.Data1, err)
	}
	return true, nil
}

// Run polls the source until the context is done. Errors from individual
// events are logged; a read error ends the loop.
func (c *Controller) Run(ctx context.Context, src Source, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		events, err := src.Read(1024)
		if err != nil {
			return fmt.Errorf("read midi: %w", err)
		}
		for _, ev := range events {
			if _, err := c.Handle(ev); err != nil {
				c.logger.Warn("midi: %v", err)
			}
		}
	}
}
