package canopy

import "errors"

// Evaluation errors returned by Evaluator implementations. All of them
// are recoverable: the engine absorbs them at the point of use, mapping
// any of them to a false predicate or an empty template substitution.
// They never propagate past the engine boundary.
var (
	// ErrSyntax indicates a malformed expression.
	ErrSyntax = errors.New("expression syntax error")

	// ErrUnknownVariable indicates a reference to a name that is not
	// bound in the data context.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrTypeMismatch indicates an operator applied to incompatible
	// scalar types, or an expression whose result falls outside the
	// bool/number/string value set.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDisallowedOperation indicates the expression attempted a
	// capability outside the read-only evaluation sandbox, such as
	// exceeding the backend's execution budget.
	ErrDisallowedOperation = errors.New("disallowed operation")
)
