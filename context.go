package canopy

import (
	"fmt"
	"sort"
	"strconv"
)

// valueKind discriminates the scalar kinds a Value can hold.
type valueKind int

const (
	kindBool valueKind = iota
	kindNumber
	kindString
)

// Value is a scalar bound in a data context or produced by evaluating an
// expression. It is a closed union of bool, number and string; there is
// no "any" escape hatch.
type Value struct {
	kind valueKind
	b    bool
	n    float64
	s    string
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// Number returns a numeric Value. Numbers are float64 internally;
// integers survive the round trip through Display unchanged.
func Number(n float64) Value { return Value{kind: kindNumber, n: n} }

// String returns a string Value.
func String(s string) Value { return Value{kind: kindString, s: s} }

// Truthy applies the fixed boolean coercion rule: false, zero and the
// empty string are false; every other scalar is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case kindBool:
		return v.b
	case kindNumber:
		return v.n != 0
	default:
		return v.s != ""
	}
}

// Display applies the fixed string coercion rule: strings pass through
// unchanged, booleans become "true" or "false", and numbers render in
// canonical decimal form with no exponent and no trailing zeros.
func (v Value) Display() string {
	switch v.kind {
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	default:
		return v.s
	}
}

// Native returns the value as its underlying Go type: bool, float64 or
// string. Evaluator implementations use it to hand bindings to their
// expression runtime.
func (v Value) Native() any {
	switch v.kind {
	case kindBool:
		return v.b
	case kindNumber:
		return v.n
	default:
		return v.s
	}
}

// Context is an immutable set of variable bindings available to
// expressions. It is copied on construction and read-only thereafter;
// nothing an expression does can write back into it.
type Context struct {
	vars map[string]Value
}

// NewContext copies vars into a new Context. A nil map yields an empty
// context, in which every variable reference is an unknown-variable
// error.
func NewContext(vars map[string]Value) *Context {
	m := make(map[string]Value, len(vars))
	for k, v := range vars {
		m[k] = v
	}
	return &Context{vars: m}
}

// ContextFromMap builds a Context from dynamically typed scalars, such
// as the output of a YAML or JSON decoder. Supported value types are
// bool, string, int, int64 and float64; anything else is an error.
func ContextFromMap(m map[string]any) (*Context, error) {
	vars := make(map[string]Value, len(m))
	for k, raw := range m {
		switch v := raw.(type) {
		case bool:
			vars[k] = Bool(v)
		case string:
			vars[k] = String(v)
		case int:
			vars[k] = Number(float64(v))
		case int64:
			vars[k] = Number(float64(v))
		case float64:
			vars[k] = Number(v)
		default:
			return nil, fmt.Errorf("context key %q: unsupported type %T", k, raw)
		}
	}
	return NewContext(vars), nil
}

// Value returns the binding for name.
func (c *Context) Value(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c.vars[name]
	return v, ok
}

// Names returns the bound variable names in sorted order.
func (c *Context) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.vars))
	for k := range c.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.vars)
}
