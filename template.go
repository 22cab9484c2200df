package canopy

import "strings"

// Template span markers. Spans do not nest; the first close marker
// after an open marker ends the span.
const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// Interpolate scans the template left to right for {{ expr }} spans,
// evaluates each against the bound context, and substitutes the
// stringified result in place of the whole span, markers included.
//
// A span that fails to evaluate is replaced with the empty string; the
// rest of the template is unaffected. A span containing a nested open
// marker is a syntax error local to that span and also substitutes
// empty, as does an open marker with no matching close. An empty
// template interpolates to "".
func (e *Engine) Interpolate(template string) string {
	if !strings.Contains(template, openMarker) {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		open := strings.Index(rest, openMarker)
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		rest = rest[open+len(openMarker):]

		end := strings.Index(rest, closeMarker)
		if end < 0 {
			// Unterminated span: malformed, substitutes empty.
			return b.String()
		}
		span := rest[:end]
		rest = rest[end+len(closeMarker):]

		if strings.Contains(span, openMarker) {
			continue
		}
		expr := strings.TrimSpace(span)
		if expr == "" {
			continue
		}
		if v, err := e.Evaluate(expr); err == nil {
			b.WriteString(v.Display())
		}
	}
}

// templateExprs returns the expressions embedded in the template's
// spans, in textual order. Malformed spans are omitted. Used by
// Renderer.Precompile to warm the evaluator's cache.
func templateExprs(template string) []string {
	var exprs []string
	rest := template
	for {
		open := strings.Index(rest, openMarker)
		if open < 0 {
			return exprs
		}
		rest = rest[open+len(openMarker):]

		end := strings.Index(rest, closeMarker)
		if end < 0 {
			return exprs
		}
		span := rest[:end]
		rest = rest[end+len(closeMarker):]

		if strings.Contains(span, openMarker) {
			continue
		}
		if expr := strings.TrimSpace(span); expr != "" {
			exprs = append(exprs, expr)
		}
	}
}
