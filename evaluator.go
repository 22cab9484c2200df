package canopy

// Evaluator is the interface implemented by expression engines that can
// evaluate a single expression against a data context.
//
// Implementations must be sandboxed: expressions have read-only access
// to the context and no way to perform I/O, mutate external state or
// reach host-registered callbacks. The canopy/cel and canopy/starlark
// packages provide implementations.
type Evaluator interface {
	// Compile parses and checks the expression against the variables
	// in the context. Implementations may cache the compiled form;
	// a compilation failure here is not fatal, the same expression
	// simply fails again at evaluation time.
	Compile(expr string, ctx *Context) error

	// Evaluate evaluates the expression against the context,
	// compiling it first if it has not been compiled. Errors wrap one
	// of ErrSyntax, ErrUnknownVariable, ErrTypeMismatch or
	// ErrDisallowedOperation.
	Evaluate(expr string, ctx *Context) (Value, error)
}
