package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Func is a compiled snippet taking one string argument.
type Func struct {
	state  *State
	fn     *lua.LFunction
	source string
}

// Compile turns a snippet into a Func. Snippets containing a return
// statement are used as a function body; anything else is treated as an
// expression.
func (s *State) Compile(src string) (*Func, error) {
	chunk := "return function(item) return (" + src + ") end"
	if hasReturn(src) {
		chunk = "return function(item)\n" + src + "\nend"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	loaded, err := s.L.LoadString(chunk)
	if err != nil {
		return nil, &CompileError{Source: src, Err: err}
	}

	var fn *lua.LFunction
	err = s.withDeadline(func() error {
		if err := s.L.CallByParam(lua.P{Fn: loaded, NRet: 1, Protect: true}); err != nil {
			return err
		}
		v := s.L.Get(-1)
		s.L.Pop(1)
		f, ok := v.(*lua.LFunction)
		if !ok {
			return ErrNotFunction
		}
		fn = f
		return nil
	})
	if err != nil {
		return nil, &CompileError{Source: src, Err: err}
	}
	return &Func{state: s, fn: fn, source: src}, nil
}

func hasReturn(src string) bool {
	for _, field := range strings.FieldsFunc(src, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		if field == "return" {
			return true
		}
	}
	return false
}

// Source returns the snippet text.
func (f *Func) Source() string {
	return f.source
}

// Call runs the snippet with item and returns its result.
func (f *Func) Call(item string) (lua.LValue, error) {
	return f.state.call(f.fn, lua.LString(item))
}

// Bool runs the snippet and applies Lua truthiness to the result.
func (f *Func) Bool(item string) (bool, error) {
	v, err := f.Call(item)
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(v), nil
}

// String runs the snippet and converts the result to a string. Nil maps
// to the empty string.
func (f *Func) String(item string) (string, error) {
	v, err := f.Call(item)
	if err != nil {
		return "", err
	}
	if v == lua.LNil {
		return "", nil
	}
	return v.String(), nil
}

// Predicate adapts f for use as a filter. A failing call reports to
// onErr, if set, and rejects the item.
func (f *Func) Predicate(onErr func(item string, err error)) func(string) bool {
	return func(item string) bool {
		ok, err := f.Bool(item)
		if err != nil {
			if onErr != nil {
				onErr(item, err)
			}
			return false
		}
		return ok
	}
}

// Mapper adapts f for use as a map function. A failing call reports to
// onErr, if set, and leaves the item unchanged.
func (f *Func) Mapper(onErr func(item string, err error)) func(string) string {
	return func(item string) string {
		out, err := f.String(item)
		if err != nil {
			if onErr != nil {
				onErr(item, err)
			}
			return item
		}
		return out
	}
}
