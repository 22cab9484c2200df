package canopy

// Engine combines an expression evaluator with the template
// interpolator, bound to one immutable data context. It is the only
// evaluation surface the renderer talks to; raw evaluation errors never
// escape it.
//
// An Engine holds no mutable state of its own, so a single instance may
// serve any number of render passes, including concurrent ones.
type Engine struct {
	ctx       *Context
	evaluator Evaluator
}

// NewEngine creates an engine bound to the context. The evaluator is
// typically cel.NewEvaluator() or starlark.NewEvaluator(). A nil
// context is treated as empty.
func NewEngine(ctx *Context, evaluator Evaluator) *Engine {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	return &Engine{ctx: ctx, evaluator: evaluator}
}

// Context returns the bound data context.
func (e *Engine) Context() *Context { return e.ctx }

// Evaluate evaluates a single expression against the bound context.
func (e *Engine) Evaluate(expr string) (Value, error) {
	return e.evaluator.Evaluate(expr, e.ctx)
}

// EvaluatePredicate reports whether the expression holds under the
// fixed truthiness rule. An absent (empty) expression is true. An
// expression that fails to evaluate is false: visibility errs toward
// hiding, never toward crashing the pass or inventing content.
func (e *Engine) EvaluatePredicate(expr string) bool {
	if expr == "" {
		return true
	}
	v, err := e.Evaluate(expr)
	if err != nil {
		return false
	}
	return v.Truthy()
}
