package cel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/canopyui/canopy"
)

// Evaluator compiles and evaluates CEL expressions against a canopy
// data context. It implements canopy.Evaluator.
//
// Compiled programs are cached per expression string. The programs
// embed the variable declarations derived from the first context the
// Evaluator saw; a later call with a context of a different shape
// (different names, or the same name at a different type) is rejected
// with ErrTypeMismatch rather than evaluated against stale
// declarations. Bind one Evaluator per Engine.
type Evaluator struct {
	mu       sync.RWMutex
	programs map[string]cel.Program
	shape    string
}

var _ canopy.Evaluator = (*Evaluator)(nil)

// NewEvaluator creates an empty CEL evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		programs: map[string]cel.Program{},
	}
}

// Compile parses and type-checks the expression against the context,
// caching the resulting program for evaluation.
func (e *Evaluator) Compile(expr string, ctx *canopy.Context) error {
	_, err := e.program(expr, ctx)
	return err
}

// Evaluate runs the expression against the context, compiling it first
// if it has not been seen before.
func (e *Evaluator) Evaluate(expr string, ctx *canopy.Context) (canopy.Value, error) {
	prg, err := e.program(expr, ctx)
	if err != nil {
		return canopy.Value{}, err
	}

	out, _, err := prg.Eval(activation(ctx))
	if err != nil {
		return canopy.Value{}, classifyEvalError(expr, err)
	}
	return fromRef(expr, out)
}

func (e *Evaluator) program(expr string, ctx *canopy.Context) (cel.Program, error) {
	shape := contextShape(ctx)

	e.mu.RLock()
	prg, ok := e.programs[expr]
	bound := e.shape
	e.mu.RUnlock()
	if bound != "" && bound != shape {
		return nil, fmt.Errorf("%w: evaluator already bound to a context of a different shape", canopy.ErrTypeMismatch)
	}
	if ok {
		return prg, nil
	}

	env, err := newEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, classifyCompileError(expr, iss.Err())
	}

	prg, err = env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: building program for %q: %v", canopy.ErrSyntax, expr, err)
	}

	e.mu.Lock()
	if e.shape == "" {
		e.shape = shape
	} else if e.shape != shape {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: evaluator already bound to a context of a different shape", canopy.ErrTypeMismatch)
	}
	e.programs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}

// contextShape fingerprints the context's declarations: sorted variable
// names with their CEL types. Cached programs are only valid for
// contexts with an identical shape.
func contextShape(ctx *canopy.Context) string {
	var b strings.Builder
	b.WriteString("|") // distinguishes an empty context from an unbound evaluator
	for _, name := range ctx.Names() {
		v, _ := ctx.Value(name)
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(celType(v).String())
		b.WriteString(";")
	}
	return b.String()
}

// newEnv declares one CEL variable per context binding, plus the string
// extension functions (size, lowerAscii, upperAscii, ...). Cross-type
// numeric comparisons are enabled so that `count >= 3` works against a
// double-typed variable.
func newEnv(ctx *canopy.Context) (*cel.Env, error) {
	opts := []cel.EnvOption{
		ext.Strings(),
		cel.CrossTypeNumericComparisons(true),
	}
	for _, name := range ctx.Names() {
		v, _ := ctx.Value(name)
		opts = append(opts, cel.Variable(name, celType(v)))
	}
	return cel.NewEnv(opts...)
}

// celType maps a context value onto its CEL declaration type.
func celType(v canopy.Value) *cel.Type {
	switch v.Native().(type) {
	case bool:
		return cel.BoolType
	case float64:
		return cel.DoubleType
	default:
		return cel.StringType
	}
}

// activation converts the context into the variable map CEL evaluates
// against. A fresh map per evaluation keeps the context itself out of
// reach of the runtime.
func activation(ctx *canopy.Context) map[string]any {
	m := make(map[string]any, ctx.Len())
	for _, name := range ctx.Names() {
		v, _ := ctx.Value(name)
		m[name] = v.Native()
	}
	return m
}

// fromRef converts a CEL result into the closed scalar value set.
func fromRef(expr string, out ref.Val) (canopy.Value, error) {
	switch v := out.Value().(type) {
	case bool:
		return canopy.Bool(v), nil
	case int64:
		return canopy.Number(float64(v)), nil
	case uint64:
		return canopy.Number(float64(v)), nil
	case float64:
		return canopy.Number(v), nil
	case string:
		return canopy.String(v), nil
	default:
		return canopy.Value{}, fmt.Errorf("%w: expression %q produced non-scalar %T", canopy.ErrTypeMismatch, expr, v)
	}
}

// classifyCompileError maps cel-go compile issues onto the canopy error
// taxonomy. The fragments track the message wording of the cel-go
// release pinned in go.mod; an unrecognized message classifies as
// ErrSyntax. TestErrorTaxonomy asserts the mapping against the pinned
// version.
func classifyCompileError(expr string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "undeclared reference"):
		return fmt.Errorf("%w: %q: %v", canopy.ErrUnknownVariable, expr, err)
	case strings.Contains(msg, "no matching overload"):
		return fmt.Errorf("%w: %q: %v", canopy.ErrTypeMismatch, expr, err)
	default:
		return fmt.Errorf("%w: %q: %v", canopy.ErrSyntax, expr, err)
	}
}

// classifyEvalError maps cel-go runtime errors onto the canopy error
// taxonomy. The fragments track the message wording of the cel-go
// release pinned in go.mod; anything unrecognized is treated as the
// sandbox refusing the operation. TestErrorTaxonomy asserts the mapping
// against the pinned version.
func classifyEvalError(expr string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such attribute"), strings.Contains(msg, "no such key"):
		return fmt.Errorf("%w: %q: %v", canopy.ErrUnknownVariable, expr, err)
	case strings.Contains(msg, "no such overload"), strings.Contains(msg, "unsupported conversion"):
		return fmt.Errorf("%w: %q: %v", canopy.ErrTypeMismatch, expr, err)
	default:
		return fmt.Errorf("%w: %q: %v", canopy.ErrDisallowedOperation, expr, err)
	}
}
