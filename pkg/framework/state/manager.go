// Package state saves and restores parameter values together with an
// opaque custom blob such as the editor geometry.
package state

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
)

// Version is the current state format version.
const Version uint32 = 1

// MaxCustomSize bounds the custom blob accepted on load.
const MaxCustomSize = 1 << 20

var magic = [...]byte{'H', 'Y', 'P', 'R', 'C', 'L', 'I', 'P'}

var (
	// ErrInvalidFormat is returned for data that is not a saved state.
	ErrInvalidFormat = errors.New("invalid state format")
	// ErrNewerVersion is returned for states written by a newer format.
	ErrNewerVersion = errors.New("state version is newer than supported")
)

// Custom is extra state stored after the parameters.
type Custom interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Manager handles plugin state saving and loading. Parameters are stored by
// key with their plain value, so reordering or adding parameters keeps old
// states loadable.
//
// Layout, little endian:
//
//	magic[8] version:u32 count:u32
//	count × (keyLen:u16 key plain:f64)
//	customLen:u32 custom
type Manager struct {
	registry *param.Registry
	custom   Custom
	logger   *debug.Logger
}

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		registry: registry,
		logger:   debug.Default(),
	}
}

// SetCustomState sets the blob saved after the parameters.
func (m *Manager) SetCustomState(c Custom) {
	m.custom = c
}

// SetLogger sets the logger used for load warnings.
func (m *Manager) SetLogger(l *debug.Logger) {
	m.logger = l
}

// Save writes the plugin state to a writer
func (m *Manager) Save(w io.Writer) error {
	params := m.registry.All()

	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, [2]uint32{Version, uint32(len(params))}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range params {
		if len(p.Key) > math.MaxUint16 {
			return fmt.Errorf("parameter key too long: %d bytes", len(p.Key))
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(p.Key))); err != nil {
			return fmt.Errorf("write parameter %s: %w", p.Key, err)
		}
		if _, err := io.WriteString(w, p.Key); err != nil {
			return fmt.Errorf("write parameter %s: %w", p.Key, err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.GetPlainValue()); err != nil {
			return fmt.Errorf("write parameter %s: %w", p.Key, err)
		}
	}

	var blob []byte
	if m.custom != nil {
		var err error
		if blob, err = m.custom.MarshalBinary(); err != nil {
			return fmt.Errorf("encode custom state: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(blob))); err != nil {
		return fmt.Errorf("write custom state: %w", err)
	}
	if _, err := w.Write(blob); err != nil {
		return fmt.Errorf("write custom state: %w", err)
	}
	return nil
}

// Load reads the plugin state from a reader. Values outside a parameter's
// range are clamped and unknown keys are skipped, each with a warning.
// Nothing is applied unless the whole state decodes.
func (m *Manager) Load(r io.Reader) error {
	var header [len(magic)]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if header != magic {
		return ErrInvalidFormat
	}

	var head [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	version, count := head[0], head[1]
	if version > Version {
		return fmt.Errorf("%w: got %d, support %d", ErrNewerVersion, version, Version)
	}

	type entry struct {
		p     *param.Parameter
		value float64
	}
	entries := make([]entry, 0, min(count, 256))

	for i := uint32(0); i < count; i++ {
		var keyLen uint16
		if err := binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
			return fmt.Errorf("%w: parameter %d: %w", ErrInvalidFormat, i, err)
		}
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(r, key); err != nil {
			return fmt.Errorf("%w: parameter %d: %w", ErrInvalidFormat, i, err)
		}
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("%w: parameter %s: %w", ErrInvalidFormat, key, err)
		}

		p := m.registry.GetByKey(string(key))
		if p == nil {
			m.logger.Warn("state: skipping unknown parameter %q", key)
			continue
		}
		if math.IsNaN(value) {
			m.logger.Warn("state: %s is NaN, using default", p.Key)
			value = p.Denormalize(p.DefaultValue)
		} else if !p.InRange(value) {
			m.logger.Warn("state: %s = %g outside [%g, %g], clamping", p.Key, value, p.Min, p.Max)
		}
		entries = append(entries, entry{p, value})
	}

	var customLen uint32
	if err := binary.Read(r, binary.LittleEndian, &customLen); err != nil {
		return fmt.Errorf("%w: custom state: %w", ErrInvalidFormat, err)
	}
	if customLen > MaxCustomSize {
		return fmt.Errorf("%w: custom state of %d bytes", ErrInvalidFormat, customLen)
	}
	blob := make([]byte, customLen)
	if _, err := io.ReadFull(r, blob); err != nil {
		return fmt.Errorf("%w: custom state: %w", ErrInvalidFormat, err)
	}

	if m.custom != nil && customLen > 0 {
		if err := m.custom.UnmarshalBinary(blob); err != nil {
			return fmt.Errorf("decode custom state: %w", err)
		}
	}
	for _, e := range entries {
		e.p.SetPlainValue(e.value)
	}
	return nil
}
