// Package cel implements the canopy Evaluator interface backed by
// Google's cel-go expression engine.
//
// See https://github.com/google/cel-go and https://cel.dev for more
// information about CEL. The expressions you write in visibility
// predicates and template spans must conform to the CEL spec.
//
// CEL fits the evaluation sandbox exactly: expressions are pure, can
// read the declared variables and call the built-in and string
// extension functions, and have no way to perform I/O, mutate state or
// reach host callbacks. That makes this backend safe to drive from an
// untrusted UI description.
//
// Each variable in the data context is declared to the CEL type checker
// with the type derived from its bound value (bool, double or string),
// so most type errors are caught at compile time rather than during the
// render pass.
package cel
