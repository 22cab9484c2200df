package canopy_test

import (
	"fmt"
	"testing"

	"github.com/matryer/is"

	"github.com/canopyui/canopy"
)

// fakeNode is the handle type built by fakeFactory.
type fakeNode struct {
	kind       string
	text       string
	children   []*fakeNode
	onActivate func()
}

func (n *fakeNode) activate() {
	if n.onActivate != nil {
		n.onActivate()
	}
}

// fakeFactory records every call the renderer makes, so tests can
// assert on call counts and ordering.
type fakeFactory struct {
	calls []string
}

func (f *fakeFactory) NewContainer() canopy.Handle {
	f.calls = append(f.calls, "container")
	return &fakeNode{kind: "container"}
}

func (f *fakeFactory) NewText(text string) canopy.Handle {
	f.calls = append(f.calls, "text:"+text)
	return &fakeNode{kind: "text", text: text}
}

func (f *fakeFactory) NewActionable(label string, onActivate func()) canopy.Handle {
	f.calls = append(f.calls, "actionable:"+label)
	return &fakeNode{kind: "actionable", text: label, onActivate: onActivate}
}

func (f *fakeFactory) AttachChild(parent, child canopy.Handle, index int) {
	p := parent.(*fakeNode)
	c := child.(*fakeNode)
	f.calls = append(f.calls, fmt.Sprintf("attach:%d:%s", index, c.kind))
	p.children = append(p.children, c)
}

func newTestRenderer(vars map[string]canopy.Value, actions canopy.ActionRegistry, opts ...canopy.RenderOption) (*canopy.Renderer, *fakeFactory) {
	f := &fakeFactory{}
	r := canopy.NewRenderer(newTestEngine(vars), f, actions, opts...)
	return r, f
}

func TestRenderHiddenRoot(t *testing.T) {
	is := is.New(t)
	r, f := newTestRenderer(nil, nil)

	h := r.Render(&canopy.Element{Kind: canopy.Text, Text: "hi", VisibleIf: "false"})
	is.Equal(h, nil)
	is.Equal(len(f.calls), 0)
}

// A false predicate omits the whole subtree: no factory calls for the
// node or any descendant.
func TestRenderHiddenSubtreeShortCircuits(t *testing.T) {
	is := is.New(t)
	r, f := newTestRenderer(nil, nil)

	root := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{
				Kind:      canopy.Container,
				VisibleIf: "false",
				Children: []*canopy.Element{
					{Kind: canopy.Text, Text: "never built"},
				},
			},
		},
	}

	h := r.Render(root)
	is.True(h != nil)
	is.Equal(f.calls, []string{"container"})
}

// Children [A(hidden), B, C] attach as [B, C] with contiguous indexes
// and no placeholder for A.
func TestRenderContainerOrdering(t *testing.T) {
	is := is.New(t)
	r, f := newTestRenderer(nil, nil)

	root := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{Kind: canopy.Text, Text: "A", VisibleIf: "false"},
			{Kind: canopy.Text, Text: "B"},
			{Kind: canopy.Text, Text: "C"},
		},
	}

	h := r.Render(root)
	root2 := h.(*fakeNode)
	is.Equal(len(root2.children), 2)
	is.Equal(root2.children[0].text, "B")
	is.Equal(root2.children[1].text, "C")
	is.Equal(f.calls, []string{
		"container",
		"text:B",
		"attach:0:text",
		"text:C",
		"attach:1:text",
	})
}

func TestRenderTextInterpolates(t *testing.T) {
	is := is.New(t)
	r, _ := newTestRenderer(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	}, nil)

	h := r.Render(&canopy.Element{Kind: canopy.Text, Text: "Hello, {{ name }}"})
	is.Equal(h.(*fakeNode).text, "Hello, Ann")
}

func TestRenderActionableBindsAction(t *testing.T) {
	is := is.New(t)

	fired := false
	r, _ := newTestRenderer(nil, canopy.Actions{
		"checkout": func() { fired = true },
	})

	h := r.Render(&canopy.Element{Kind: canopy.Actionable, Text: "Checkout", ActionID: "checkout"})
	n := h.(*fakeNode)
	is.True(n.onActivate != nil)
	n.activate()
	is.True(fired)
}

// A missing registry entry is not an error; activation is a no-op.
func TestRenderActionableUnregisteredAction(t *testing.T) {
	is := is.New(t)
	r, _ := newTestRenderer(nil, canopy.Actions{})

	h := r.Render(&canopy.Element{Kind: canopy.Actionable, Text: "Mystery", ActionID: "not-registered"})
	is.True(h != nil)
	n := h.(*fakeNode)
	is.Equal(n.text, "Mystery")
	n.activate() // must not panic
}

func TestRenderActionableNilRegistry(t *testing.T) {
	is := is.New(t)
	r, _ := newTestRenderer(nil, nil)

	h := r.Render(&canopy.Element{Kind: canopy.Actionable, Text: "Go", ActionID: "go"})
	is.True(h != nil)
	h.(*fakeNode).activate()
}

// Re-running render on the same immutable tree and context produces
// structurally equivalent output: no hidden state drift.
func TestRenderIdempotent(t *testing.T) {
	is := is.New(t)

	vars := map[string]canopy.Value{
		"name":      canopy.String("Ann"),
		"cartCount": canopy.Number(2),
	}
	root := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{Kind: canopy.Text, Text: "Hello, {{ name }}"},
			{Kind: canopy.Text, Text: "hidden", VisibleIf: "cartCount > 10"},
			{Kind: canopy.Actionable, Text: "Checkout ({{ cartCount }})", ActionID: "checkout"},
		},
	}

	r, _ := newTestRenderer(vars, canopy.Actions{})
	first := r.Render(root).(*fakeNode)
	second := r.Render(root).(*fakeNode)
	is.Equal(flatten(first), flatten(second))
	is.Equal(flatten(first), []string{"container", "text:Hello, Ann", "actionable:Checkout (2)"})
}

func flatten(n *fakeNode) []string {
	out := []string{n.kind}
	if n.kind != "container" {
		out = []string{n.kind + ":" + n.text}
	}
	for _, c := range n.children {
		out = append(out, flatten(c)...)
	}
	return out
}

// A malformed predicate hides only its own subtree; siblings still
// render.
func TestRenderMalformedPredicateDegradesToHidden(t *testing.T) {
	is := is.New(t)
	r, _ := newTestRenderer(nil, nil)

	root := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{Kind: canopy.Text, Text: "bad", VisibleIf: "((("},
			{Kind: canopy.Text, Text: "good"},
		},
	}

	h := r.Render(root).(*fakeNode)
	is.Equal(len(h.children), 1)
	is.Equal(h.children[0].text, "good")
}

func TestRenderUnknownKindSkipped(t *testing.T) {
	is := is.New(t)
	r, f := newTestRenderer(nil, nil)

	root := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{Kind: canopy.Kind("Carousel"), Text: "nope"},
			{Kind: canopy.Text, Text: "yes"},
		},
	}

	h := r.Render(root).(*fakeNode)
	is.Equal(len(h.children), 1)
	is.Equal(f.calls, []string{"container", "text:yes", "attach:0:text"})
}

func TestRenderNilElement(t *testing.T) {
	is := is.New(t)
	r, f := newTestRenderer(nil, nil)

	is.Equal(r.Render(nil), nil)
	is.Equal(len(f.calls), 0)
}

func TestRenderMaxDepth(t *testing.T) {
	is := is.New(t)
	r, _ := newTestRenderer(nil, nil, canopy.MaxDepth(1))

	root := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{
				Kind: canopy.Container,
				Children: []*canopy.Element{
					{Kind: canopy.Text, Text: "too deep"},
				},
			},
		},
	}

	h := r.Render(root).(*fakeNode)
	is.Equal(len(h.children), 1)
	is.Equal(len(h.children[0].children), 0)
}

func TestPrecompile(t *testing.T) {
	is := is.New(t)
	r, _ := newTestRenderer(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	}, nil)

	good := &canopy.Element{
		Kind:      canopy.Text,
		Text:      "Hello, {{ name }}",
		VisibleIf: `name != ""`,
	}
	is.NoErr(r.Precompile(good))

	bad := &canopy.Element{
		Kind: canopy.Container,
		Children: []*canopy.Element{
			{Kind: canopy.Text, Text: "{{ missing }}", VisibleIf: "((("},
			good,
		},
	}
	err := r.Precompile(bad)
	is.True(err != nil)

	// Compilation failures do not prevent rendering; the bad element
	// degrades exactly as in a cold render.
	h := r.Render(bad).(*fakeNode)
	is.Equal(len(h.children), 1)
	is.Equal(h.children[0].text, "Hello, Ann")
}
