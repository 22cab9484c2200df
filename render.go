package canopy

import (
	"errors"
	"log/slog"

	"github.com/canopyui/canopy/internal/logging"
)

// Handle is an opaque reference to a view constructed by a ViewFactory.
// Factories must return non-nil handles; the renderer returns nil for a
// hidden element.
type Handle any

// ViewFactory is the external collaborator that turns render decisions
// into actual widgets. Canopy never styles or lays out anything itself.
type ViewFactory interface {
	// NewContainer returns a handle for an empty container.
	NewContainer() Handle

	// NewText returns a handle for a block of already-interpolated
	// text.
	NewText(text string) Handle

	// NewActionable returns a handle for an activatable element with
	// an already-interpolated label. onActivate may be nil, in which
	// case activation is a no-op.
	NewActionable(label string, onActivate func()) Handle

	// AttachChild arranges child inside parent at the given index.
	// Within one parent, indexes are contiguous and increasing;
	// hidden children leave no gaps.
	AttachChild(parent, child Handle, index int)
}

// ActionRegistry resolves action identifiers to native callbacks. It is
// populated and owned entirely by the caller and only ever read by the
// renderer. Expressions cannot reach it.
type ActionRegistry interface {
	Lookup(id string) (func(), bool)
}

// Actions is a map-based ActionRegistry.
type Actions map[string]func()

// Lookup returns the callback registered under id.
func (a Actions) Lookup(id string) (func(), bool) {
	fn, ok := a[id]
	return fn, ok
}

const defaultMaxDepth = 64

type renderOptions struct {
	maxDepth int
	logger   *slog.Logger
}

// RenderOption configures a Renderer.
type RenderOption func(*renderOptions)

// MaxDepth caps recursion. Elements nested deeper than n do not render.
// Default: 64.
func MaxDepth(n int) RenderOption {
	return func(o *renderOptions) {
		o.maxDepth = n
	}
}

// WithLogger enables debug logging of hidden elements and absorbed
// evaluation errors. Default: discard.
func WithLogger(l *slog.Logger) RenderOption {
	return func(o *renderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Renderer walks an element tree, consulting the engine for visibility
// and text, and emits calls to the view factory. It holds no mutable
// state: renders on separate trees and contexts may run concurrently.
type Renderer struct {
	engine  *Engine
	factory ViewFactory
	actions ActionRegistry
	opts    renderOptions
}

// NewRenderer creates a renderer bound to an engine, a view factory and
// an action registry. The registry may be nil if the tree contains no
// actionable elements, or if all activations should be no-ops.
func NewRenderer(engine *Engine, factory ViewFactory, actions ActionRegistry, opts ...RenderOption) *Renderer {
	o := renderOptions{
		maxDepth: defaultMaxDepth,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{engine: engine, factory: factory, actions: actions, opts: o}
}

// Render renders the element tree rooted at el in a single synchronous
// pass, returning the handle of the root view, or nil if the root is
// hidden. A malformed expression anywhere degrades to "hidden" or to an
// empty substitution; it never aborts the render of sibling or ancestor
// elements.
func (r *Renderer) Render(el *Element) Handle {
	return r.render(el, 0)
}

func (r *Renderer) render(el *Element, depth int) Handle {
	if el == nil {
		return nil
	}
	if depth > r.opts.maxDepth {
		r.opts.logger.Debug("element beyond max depth, skipping subtree", "depth", depth)
		return nil
	}

	// Visibility short-circuit: a false predicate omits the element
	// and its entire subtree with no factory calls.
	if !r.engine.EvaluatePredicate(el.VisibleIf) {
		r.opts.logger.Debug("element hidden", "type", el.Kind, "visible_if", el.VisibleIf)
		return nil
	}

	switch el.Kind {
	case Container:
		parent := r.factory.NewContainer()
		i := 0
		for _, child := range el.Children {
			h := r.render(child, depth+1)
			if h == nil {
				continue
			}
			r.factory.AttachChild(parent, h, i)
			i++
		}
		return parent

	case Text:
		return r.factory.NewText(r.engine.Interpolate(el.Text))

	case Actionable:
		var onActivate func()
		if el.ActionID != "" && r.actions != nil {
			// A missing registry entry is not an error; the
			// activation is simply a no-op.
			onActivate, _ = r.actions.Lookup(el.ActionID)
		}
		return r.factory.NewActionable(r.engine.Interpolate(el.Text), onActivate)

	default:
		// Unknown kinds are a decode-time concern. Skip rather
		// than fail the pass.
		r.opts.logger.Warn("skipping element with unknown type", "type", el.Kind)
		return nil
	}
}

// Precompile walks the tree compiling every visibility predicate and
// template span so that Render does no compilation work. The joined
// compilation errors are returned for diagnostics, but they do not
// prevent rendering: a failed expression degrades at render time
// exactly as if it had never been compiled.
func (r *Renderer) Precompile(el *Element) error {
	var errs []error
	r.precompile(el, 0, &errs)
	return errors.Join(errs...)
}

func (r *Renderer) precompile(el *Element, depth int, errs *[]error) {
	if el == nil || depth > r.opts.maxDepth {
		return
	}
	if el.VisibleIf != "" {
		if err := r.engine.evaluator.Compile(el.VisibleIf, r.engine.ctx); err != nil {
			*errs = append(*errs, err)
		}
	}
	for _, expr := range templateExprs(el.Text) {
		if err := r.engine.evaluator.Compile(expr, r.engine.ctx); err != nil {
			*errs = append(*errs, err)
		}
	}
	for _, c := range el.Children {
		r.precompile(c, depth+1, errs)
	}
}
