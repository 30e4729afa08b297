// Package automation drives simulated pedal controls from Lua scripts.
//
// A script defines a global update function that receives the elapsed time
// in seconds and moves controls through the pedal table:
//
//	duration = 4
//
//	function update(t)
//	  pedal.knob(1, 0.5 + 0.5 * math.sin(t))
//	  if t > 2 then pedal.toggle(1, "down") end
//	  pedal.footswitch(1, t > 3)
//	end
//
// Knobs, toggles and footswitches are numbered from 1 as on the enclosure.
package automation

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pedal/dsp/control"
	lua "github.com/yuin/gopher-lua"
)

// ErrNoUpdate is returned when a script does not define update(t).
var ErrNoUpdate = errors.New("automation: script defines no update function")

// Script is a loaded automation program bound to a control port.
type Script struct {
	state  *lua.LState
	port   *control.StaticPort
	update lua.LValue
}

// Load runs the script file at path.
func Load(path string, port *control.StaticPort) (*Script, error) {
	return load(port, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadString runs script source.
func LoadString(src string, port *control.StaticPort) (*Script, error) {
	return load(port, func(L *lua.LState) error { return L.DoString(src) })
}

func load(port *control.StaticPort, run func(*lua.LState) error) (*Script, error) {
	if port == nil {
		return nil, errors.New("automation: nil port")
	}

	L := lua.NewState()
	s := &Script{state: L, port: port}
	L.SetGlobal("pedal", s.module())

	if err := run(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation: %w", err)
	}

	s.update = L.GetGlobal("update")
	if s.update.Type() != lua.LTFunction {
		L.Close()
		return nil, ErrNoUpdate
	}

	return s, nil
}

// Update calls update(t) with t in seconds.
func (s *Script) Update(t float64) error {
	err := s.state.CallByParam(lua.P{Fn: s.update, NRet: 0, Protect: true}, lua.LNumber(t))
	if err != nil {
		return fmt.Errorf("automation: update(%g): %w", t, err)
	}
	return nil
}

// Duration returns the global duration in seconds if the script sets one.
func (s *Script) Duration() (float64, bool) {
	v, ok := s.state.GetGlobal("duration").(lua.LNumber)
	if !ok || v <= 0 {
		return 0, false
	}
	return float64(v), true
}

// Port returns the driven port.
func (s *Script) Port() *control.StaticPort { return s.port }

// Close releases the interpreter.
func (s *Script) Close() {
	s.state.Close()
}

func (s *Script) module() *lua.LTable {
	tb := s.state.NewTable()
	s.state.SetFuncs(tb, map[string]lua.LGFunction{
		"knob":       s.luaKnob,
		"get_knob":   s.luaGetKnob,
		"toggle":     s.luaToggle,
		"footswitch": s.luaFootswitch,
	})
	return tb
}

// pedal.knob(n, value)
func (s *Script) luaKnob(L *lua.LState) int {
	k := checkIndex(L, 1, control.NumKnobs)
	s.port.SetKnob(control.Knob(k), float64(L.CheckNumber(2)))
	return 0
}

// pedal.get_knob(n) -> value
func (s *Script) luaGetKnob(L *lua.LState) int {
	k := checkIndex(L, 1, control.NumKnobs)
	L.Push(lua.LNumber(s.port.Knob(control.Knob(k))))
	return 1
}

// pedal.toggle(n, "up" | "middle" | "down")
func (s *Script) luaToggle(L *lua.LState) int {
	t := checkIndex(L, 1, control.NumToggles)
	name := L.CheckString(2)

	pos, err := control.ParsePosition(name)
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}

	s.port.SetToggle(control.Toggle(t), pos)
	return 0
}

// pedal.footswitch(n, pressed)
func (s *Script) luaFootswitch(L *lua.LState) int {
	f := checkIndex(L, 1, control.NumFootswitches)
	s.port.SetFootswitch(control.Footswitch(f), L.CheckBool(2))
	return 0
}

// checkIndex converts a 1-based Lua argument to a 0-based index below n.
func checkIndex(L *lua.LState, arg, n int) int {
	i := L.CheckInt(arg)
	if i < 1 || i > n {
		L.ArgError(arg, fmt.Sprintf("index must be 1..%d", n))
	}
	return i - 1
}
