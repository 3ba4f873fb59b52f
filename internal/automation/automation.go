// Package automation runs Lua scripts that move parameters over time.
//
// A script defines a global function automate(t, frame) that returns a
// table mapping parameter keys to values. Numbers are plain values and
// strings are parsed like display text, so both of these work:
//
//	function automate(t)
//	  return { drive = 0.5 + 0.5 * math.sin(t), mode = "sine" }
//	end
//
// The helpers db(x) and lerp(a, b, x) and the global sample_rate are
// available to scripts.
package automation

import (
	"errors"
	"fmt"
	"math"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
)

// FunctionName is the global a script must define.
const FunctionName = "automate"

// ErrNoFunction is returned when a script does not define automate.
var ErrNoFunction = errors.New("script does not define " + FunctionName)

// Script is a loaded automation script. It is not safe for concurrent use.
type Script struct {
	L          *lua.LState
	fn         *lua.LFunction
	params     *param.Registry
	sampleRate float64
	name       string
}

// Load reads and runs a script file.
func Load(path string, params *param.Registry, sampleRate float64) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load automation: %w", err)
	}
	return LoadString(path, string(src), params, sampleRate)
}

// LoadString runs a script held in memory. The name is used in errors.
func LoadString(name, src string, params *param.Registry, sampleRate float64) (*Script, error) {
	L := lua.NewState()
	s := &Script{L: L, params: params, sampleRate: sampleRate, name: name}
	s.install()

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation %s: %w", name, err)
	}
	fn, ok := L.GetGlobal(FunctionName).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("automation %s: %w", name, ErrNoFunction)
	}
	s.fn = fn
	return s, nil
}

func (s *Script) install() {
	s.L.SetGlobal("sample_rate", lua.LNumber(s.sampleRate))
	s.L.SetGlobal("db", s.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(gain.DbToLinear(float64(L.CheckNumber(1)))))
		return 1
	}))
	s.L.SetGlobal("lerp", s.L.NewFunction(func(L *lua.LState) int {
		a, b, x := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
		L.Push(a + (b-a)*x)
		return 1
	}))
}

// Apply evaluates the script at a frame position and writes the results
// into the registry. Values are clamped by the parameters. All values are
// checked before any is written.
func (s *Script) Apply(frame int) error {
	t := float64(frame) / s.sampleRate
	values, err := s.Evaluate(t, frame)
	if err != nil {
		return err
	}

	type write struct {
		p          *param.Parameter
		normalized float64
	}
	writes := make([]write, 0, len(values))
	for key, v := range values {
		p, err := s.params.Lookup(key)
		if err != nil {
			return fmt.Errorf("automation %s at %.3fs: %w", s.name, t, err)
		}
		var n float64
		switch v := v.(type) {
		case float64:
			if math.IsNaN(v) {
				return fmt.Errorf("automation %s at %.3fs: %s is NaN", s.name, t, key)
			}
			n = p.Normalize(v)
		case string:
			if n, err = p.ParseValue(v); err != nil {
				return fmt.Errorf("automation %s at %.3fs: %w", s.name, t, err)
			}
		}
		writes = append(writes, write{p, n})
	}

	for _, w := range writes {
		w.p.SetValue(w.normalized)
	}
	return nil
}

// Evaluate calls automate(t, frame) and returns its table as key → float64
// or string.
func (s *Script) Evaluate(t float64, frame int) (map[string]any, error) {
	err := s.L.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(t), lua.LNumber(frame))
	if err != nil {
		return nil, fmt.Errorf("automation %s at %.3fs: %w", s.name, t, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	if ret == lua.LNil {
		return nil, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("automation %s at %.3fs: returned %s, want table", s.name, t, ret.Type())
	}

	values := make(map[string]any)
	var bad error
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			bad = fmt.Errorf("automation %s: table key %v is not a string", s.name, k)
			return
		}
		switch v := v.(type) {
		case lua.LNumber:
			values[string(key)] = float64(v)
		case lua.LString:
			values[string(key)] = string(v)
		case lua.LBool:
			values[string(key)] = boolValue(bool(v))
		default:
			bad = fmt.Errorf("automation %s: %s has unsupported type %s", s.name, key, v.Type())
		}
	})
	if bad != nil {
		return nil, bad
	}
	return values, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.L.Close()
}
