package canopy

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// String returns a table listing the element hierarchy with its
// templates, actions and visibility predicates. Useful when inspecting
// a decoded payload.
func (e *Element) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nCANOPY ELEMENTS\n")
	tw.AppendHeader(table.Row{"\nElement", "\nText", "\nAction", "Visible\nIf"})

	for _, r := range e.elementsToRows(0) {
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1},
		{Number: 2, WidthMax: 40},
		{Number: 3},
		{Number: 4, WidthMax: 30},
	})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func (e *Element) elementsToRows(n int) []table.Row {
	rows := []table.Row{}
	indent := strings.Repeat("  ", n)

	rows = append(rows, table.Row{
		fmt.Sprintf("%s%s", indent, e.Kind),
		e.Text,
		e.ActionID,
		e.VisibleIf,
	})
	for _, c := range e.Children {
		rows = append(rows, c.elementsToRows(n+1)...)
	}
	return rows
}

// Tree returns a tree representation of the element hierarchy using
// box-drawing characters. Recursion is limited to a maximum depth of 20
// levels.
//
// Example output:
//
//	Container
//	├── Text "Hello, {{ name }}"
//	└── Container
//	    └── Actionable "Checkout"
func (e *Element) Tree() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(e.treeLabel())
	sb.WriteString("\n")
	e.buildTree(&sb, "", 0)
	return sb.String()
}

func (e *Element) treeLabel() string {
	if e.Text == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Text)
}

// buildTree recursively builds the tree representation with proper
// indentation and tree characters (├──, └──, │).
func (e *Element) buildTree(sb *strings.Builder, prefix string, depth int) {
	if depth >= 20 {
		return
	}
	for i, child := range e.Children {
		isLast := i == len(e.Children)-1
		var connector, childPrefix string
		if isLast {
			connector = "└── "
			childPrefix = "    "
		} else {
			connector = "├── "
			childPrefix = "│   "
		}

		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(child.treeLabel())
		sb.WriteString("\n")
		child.buildTree(sb, prefix+childPrefix, depth+1)
	}
}
