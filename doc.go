// Package canopy renders a user interface from a declarative, data-driven
// description: a tree of typed elements (Container, Text, Actionable)
// annotated with conditional-visibility expressions and text templates.
//
// The element tree typically arrives from an external source such as a
// network payload. Canopy evaluates it against a caller-supplied data
// context to decide what is shown and what text appears. Activation
// behavior is resolved through a caller-owned action registry, never
// through the expression language, so a description can evaluate values
// but has no way to invoke host behavior.
//
// Typical use is as follows:
//
//  1. Decode a payload into an element tree (DecodeJSON or Decode)
//  2. Build a Context with the variable bindings expressions may read
//  3. Create an Engine from the context and an expression Evaluator
//  4. Create a Renderer bound to the engine, a ViewFactory and an
//     ActionRegistry
//  5. Call Render on the root element and hand the returned handle to
//     your widget layer
//
// Canopy itself does not specify an expression language, relying instead
// on the Evaluator interface. The canopy/cel and canopy/starlark
// packages provide sandboxed implementations.
//
// # Failure Semantics
//
// There are no fatal errors inside a render pass. A malformed or hostile
// expression degrades to "renders less": a visibility predicate that
// fails to evaluate hides its element and the entire subtree below it,
// and a template span that fails to evaluate is replaced with the empty
// string, leaving the rest of the template intact. The renderer and its
// caller never observe raw evaluation errors.
//
// # Ownership and Concurrency
//
// The element tree, the data context and the action registry are owned
// by the caller and are only ever read by canopy. They must not be
// mutated while a render pass is in progress. The engine and renderer
// hold no mutable state beyond an internal compiled-expression cache
// guarded by a lock, so independent render passes on separate trees and
// contexts may run concurrently.
package canopy
