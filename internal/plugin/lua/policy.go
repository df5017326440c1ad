package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/filter"
	"github.com/dshills/textform/internal/indent"
)

// Provider returns a substitution function backed by the global Lua
// function fn. The function is called as fn(whitespace, line) and must
// return the replacement whitespace as a string.
func (s *State) Provider(fn string) (filter.SubstitutionFunc, error) {
	if !s.HasFunction(fn) {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, fn)
	}

	return func(r buffer.Range, st buffer.Storage) (string, error) {
		ws, err := st.Substring(r)
		if err != nil {
			return "", err
		}
		line := ""
		if lr, ok := st.LineRange(r.Start); ok {
			line = buffer.LineText(st, lr)
		}

		ret, err := s.Call(fn, lua.LString(ws), lua.LString(line))
		if err != nil {
			return "", err
		}
		str, ok := ret.(lua.LString)
		if !ok {
			return "", fmt.Errorf("%w: %q returned %s, want string", ErrBadReturn, fn, ret.Type())
		}
		return string(str), nil
	}, nil
}

// Predicate returns a reference-line predicate backed by the global Lua
// function fn. The function is called as fn(line) and its result is
// interpreted with Lua truthiness. Errors and timeouts count as rejection
// and are logged at Debug.
func (s *State) Predicate(fn string) (indent.LinePredicate, error) {
	if !s.HasFunction(fn) {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, fn)
	}

	return func(st buffer.Storage, r buffer.Range) bool {
		ret, err := s.Call(fn, lua.LString(buffer.LineText(st, r)))
		if err != nil {
			s.logger.Debug("predicate failed", "function", fn, "range", r.String(), "error", err)
			return false
		}
		return lua.LVAsBool(ret)
	}, nil
}
