// Package starlark implements the canopy Evaluator interface backed by
// the Starlark-in-Go interpreter (go.starlark.net).
//
// Only single expressions are accepted, not full Starlark programs:
// statements, load() and function definitions fail to parse. The
// interpreter runs with no Load hook and a bounded execution budget, so
// expressions can read the data context and call the pure built-ins
// (len, string methods such as upper and lower) but cannot perform I/O
// or mutate host state.
package starlark

import (
	"fmt"
	"strings"

	starlarklib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/canopyui/canopy"
)

// defaultMaxSteps bounds the interpreter's execution budget per
// expression. UI predicates are tiny; anything that hits this is
// hostile or broken.
const defaultMaxSteps = 100000

// Evaluator evaluates Starlark expressions against a canopy data
// context. It implements canopy.Evaluator. The zero evaluation budget
// means unlimited; NewEvaluator sets a sane default.
type Evaluator struct {
	maxSteps uint64
}

var _ canopy.Evaluator = (*Evaluator)(nil)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxSteps overrides the per-expression execution budget.
func WithMaxSteps(n uint64) Option {
	return func(e *Evaluator) {
		e.maxSteps = n
	}
}

// NewEvaluator creates a Starlark evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{maxSteps: defaultMaxSteps}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile parses the expression, reporting syntax errors. Starlark
// resolves names at evaluation time, so unknown-variable errors surface
// from Evaluate instead.
func (e *Evaluator) Compile(expr string, _ *canopy.Context) error {
	_, err := parseExpr(expr)
	return err
}

// Evaluate runs the expression against the context.
func (e *Evaluator) Evaluate(expr string, ctx *canopy.Context) (canopy.Value, error) {
	parsed, err := parseExpr(expr)
	if err != nil {
		return canopy.Value{}, err
	}

	thread := &starlarklib.Thread{Name: "canopy"}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}

	out, err := starlarklib.EvalExprOptions(fileOptions(), thread, parsed, environment(ctx))
	if err != nil {
		return canopy.Value{}, classifyEvalError(expr, err)
	}
	return fromStarlark(expr, out)
}

func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{}
}

func parseExpr(expr string) (syntax.Expr, error) {
	parsed, err := fileOptions().ParseExpr("<expr>", expr, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", canopy.ErrSyntax, expr, err)
	}
	return parsed, nil
}

// environment converts the context bindings into the predeclared
// environment for one evaluation. The universe built-ins (len, bool,
// string methods) are ambient.
func environment(ctx *canopy.Context) starlarklib.StringDict {
	env := make(starlarklib.StringDict, ctx.Len())
	for _, name := range ctx.Names() {
		v, _ := ctx.Value(name)
		switch n := v.Native().(type) {
		case bool:
			env[name] = starlarklib.Bool(n)
		case float64:
			env[name] = starlarklib.Float(n)
		default:
			env[name] = starlarklib.String(v.Display())
		}
	}
	return env
}

// fromStarlark converts a Starlark result into the closed scalar value
// set.
func fromStarlark(expr string, out starlarklib.Value) (canopy.Value, error) {
	switch v := out.(type) {
	case starlarklib.Bool:
		return canopy.Bool(bool(v)), nil
	case starlarklib.Int:
		i, ok := v.Int64()
		if !ok {
			return canopy.Value{}, fmt.Errorf("%w: expression %q produced an integer out of range", canopy.ErrTypeMismatch, expr)
		}
		return canopy.Number(float64(i)), nil
	case starlarklib.Float:
		return canopy.Number(float64(v)), nil
	case starlarklib.String:
		return canopy.String(string(v)), nil
	default:
		return canopy.Value{}, fmt.Errorf("%w: expression %q produced non-scalar %s", canopy.ErrTypeMismatch, expr, out.Type())
	}
}

// classifyEvalError maps Starlark resolver and runtime errors onto the
// canopy error taxonomy.
func classifyEvalError(expr string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "undefined:"):
		return fmt.Errorf("%w: %q: %v", canopy.ErrUnknownVariable, expr, err)
	case strings.Contains(msg, "unknown binary op"), strings.Contains(msg, "not supported"), strings.Contains(msg, "cannot"):
		return fmt.Errorf("%w: %q: %v", canopy.ErrTypeMismatch, expr, err)
	default:
		return fmt.Errorf("%w: %q: %v", canopy.ErrDisallowedOperation, expr, err)
	}
}
