// Package termview provides a canopy ViewFactory that renders to styled
// terminal text using lipgloss. It backs the canopy CLI and the
// examples; real hosts supply a factory for their own widget toolkit.
package termview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/canopyui/canopy"
)

// Node is the handle type produced by Factory. It records what the
// renderer decided; Factory.Render turns a node tree into text.
type Node struct {
	kind       canopy.Kind
	text       string
	children   []*Node
	onActivate func()
}

// Text returns the node's interpolated text or label.
func (n *Node) Text() string { return n.text }

// Children returns the attached children in order.
func (n *Node) Children() []*Node { return n.children }

// Activate invokes the action callback bound to the node. Activating a
// node with no bound action is a no-op.
func (n *Node) Activate() {
	if n.onActivate != nil {
		n.onActivate()
	}
}

// Styles controls how each element kind is drawn.
type Styles struct {
	Container  lipgloss.Style
	Text       lipgloss.Style
	Actionable lipgloss.Style
}

// DefaultStyles returns the styles used by New.
func DefaultStyles() Styles {
	return Styles{
		Container:  lipgloss.NewStyle(),
		Text:       lipgloss.NewStyle(),
		Actionable: lipgloss.NewStyle().Bold(true),
	}
}

// Factory implements canopy.ViewFactory for the terminal.
type Factory struct {
	styles Styles
}

var _ canopy.ViewFactory = (*Factory)(nil)

// New creates a factory with the default styles.
func New() *Factory {
	return &Factory{styles: DefaultStyles()}
}

// NewWithStyles creates a factory with custom styles.
func NewWithStyles(s Styles) *Factory {
	return &Factory{styles: s}
}

// NewContainer returns an empty container node.
func (f *Factory) NewContainer() canopy.Handle {
	return &Node{kind: canopy.Container}
}

// NewText returns a text node.
func (f *Factory) NewText(text string) canopy.Handle {
	return &Node{kind: canopy.Text, text: text}
}

// NewActionable returns an activatable node.
func (f *Factory) NewActionable(label string, onActivate func()) canopy.Handle {
	return &Node{kind: canopy.Actionable, text: label, onActivate: onActivate}
}

// AttachChild arranges child inside parent at the given index.
func (f *Factory) AttachChild(parent, child canopy.Handle, index int) {
	p, pok := parent.(*Node)
	c, cok := child.(*Node)
	if !pok || !cok {
		return
	}
	if index < 0 || index >= len(p.children) {
		p.children = append(p.children, c)
		return
	}
	p.children = append(p.children[:index], append([]*Node{c}, p.children[index:]...)...)
}

// Render turns a handle returned by canopy.Renderer.Render into styled
// terminal text. A nil handle renders to "".
func (f *Factory) Render(h canopy.Handle) string {
	n, ok := h.(*Node)
	if !ok || n == nil {
		return ""
	}
	return f.renderNode(n)
}

func (f *Factory) renderNode(n *Node) string {
	switch n.kind {
	case canopy.Container:
		parts := make([]string, 0, len(n.children))
		for _, c := range n.children {
			parts = append(parts, f.renderNode(c))
		}
		if len(parts) == 0 {
			return ""
		}
		return f.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	case canopy.Actionable:
		return f.styles.Actionable.Render("[ " + n.text + " ]")
	default:
		return f.styles.Text.Render(n.text)
	}
}
