package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
)

type blob struct {
	data []byte
}

func (b *blob) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), b.data...), nil
}

func (b *blob) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty blob")
	}
	b.data = append(b.data[:0], data...)
	return nil
}

func newRegistry(t *testing.T) *param.Registry {
	t.Helper()
	r := param.NewRegistry()
	err := r.Add(
		param.GainParameter(0, "gain", "Gain", -30, 30).Build(),
		param.PercentParameter(1, "drive", "Drive").Build(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func quietManager(r *param.Registry) (*Manager, *bytes.Buffer) {
	var log bytes.Buffer
	m := NewManager(r)
	m.SetLogger(debug.New(&log, "state", debug.FlagLevel))
	return m, &log
}

// writeState builds a state by hand so tests can store values Save never
// would.
func writeState(t *testing.T, version uint32, values map[string]float64, custom []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(magic[:])
	binary.Write(&buf, binary.LittleEndian, [2]uint32{version, uint32(len(values))})
	for key, v := range values {
		binary.Write(&buf, binary.LittleEndian, uint16(len(key)))
		buf.WriteString(key)
		binary.Write(&buf, binary.LittleEndian, v)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(len(custom)))
	buf.Write(custom)
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	src := newRegistry(t)
	src.GetByKey("gain").SetPlainValue(3.5)
	src.GetByKey("drive").SetPlainValue(0.42)

	m, _ := quietManager(src)
	m.SetCustomState(&blob{data: []byte("geometry")})

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newRegistry(t)
	restored := &blob{}
	m2, _ := quietManager(dst)
	m2.SetCustomState(restored)
	if err := m2.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, key := range []string{"gain", "drive"} {
		want := src.GetByKey(key).GetPlainValue()
		got := dst.GetByKey(key).GetPlainValue()
		if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("%s: got %v, want %v", key, got, want)
		}
	}
	if string(restored.data) != "geometry" {
		t.Errorf("custom state = %q", restored.data)
	}
}

func TestLoadClampsAndSkips(t *testing.T) {
	r := newRegistry(t)
	m, log := quietManager(r)

	data := writeState(t, Version, map[string]float64{
		"drive":   7,
		"gain":    math.NaN(),
		"retired": 1,
	}, nil)
	if err := m.Load(bytes.NewReader(data)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := r.GetByKey("drive").GetPlainValue(); got != 1 {
		t.Errorf("drive = %v, want clamp to 1", got)
	}
	if got := r.GetByKey("gain").GetPlainValue(); math.Abs(got-1) > 1e-9 {
		t.Errorf("NaN gain should fall back to the default, got %v", got)
	}
	for _, want := range []string{"retired", "clamping", "NaN"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log missing %q:\n%s", want, log.String())
		}
	}
}

func TestLoadErrors(t *testing.T) {
	valid := writeState(t, Version, map[string]float64{"drive": 0.5}, nil)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, ErrInvalidFormat},
		{"BadMagic", append([]byte("NOTMAGIC"), valid[8:]...), ErrInvalidFormat},
		{"Newer", writeState(t, Version+1, nil, nil), ErrNewerVersion},
		{"Truncated", valid[:len(valid)-3], ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegistry(t)
			m, _ := quietManager(r)
			err := m.Load(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if r.GetByKey("drive").GetPlainValue() != 0 {
				t.Error("a failed load must not change parameters")
			}
		})
	}

	t.Run("OversizedCustom", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(magic[:])
		binary.Write(&buf, binary.LittleEndian, [2]uint32{Version, 0})
		binary.Write(&buf, binary.LittleEndian, uint32(MaxCustomSize+1))

		m, _ := quietManager(newRegistry(t))
		if err := m.Load(&buf); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("AbsentCustomKeepsCurrent", func(t *testing.T) {
		r := newRegistry(t)
		m, _ := quietManager(r)
		current := &blob{data: []byte("keep")}
		m.SetCustomState(current)

		data := writeState(t, Version, map[string]float64{"drive": 0.5}, nil)
		if err := m.Load(bytes.NewReader(data)); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(current.data) != "keep" {
			t.Errorf("custom state replaced by an empty blob: %q", current.data)
		}
	})
}
