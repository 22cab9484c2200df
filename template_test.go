package canopy_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/canopyui/canopy"
	"github.com/canopyui/canopy/cel"
)

func newTestEngine(vars map[string]canopy.Value) *canopy.Engine {
	return canopy.NewEngine(canopy.NewContext(vars), cel.NewEvaluator())
}

func TestInterpolateNoSpans(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(nil)

	is.Equal(e.Interpolate("plain text, no markers"), "plain text, no markers")
	is.Equal(e.Interpolate(""), "")
	is.Equal(e.Interpolate("a } b { c"), "a } b { c")
}

func TestInterpolateVariable(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	})

	is.Equal(e.Interpolate("Hello, {{ name }}"), "Hello, Ann")
	is.Equal(e.Interpolate("{{name}}"), "Ann")
	is.Equal(e.Interpolate("{{   name   }}"), "Ann")
}

func TestInterpolateArithmetic(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(nil)

	is.Equal(e.Interpolate("{{ 1 + 2 }}"), "3")
}

func TestInterpolateNumberFormat(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"price": canopy.Number(3.5),
		"count": canopy.Number(4),
	})

	is.Equal(e.Interpolate("{{ price }}"), "3.5")
	is.Equal(e.Interpolate("{{ count }}"), "4")
}

func TestInterpolateBoolean(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"count": canopy.Number(4),
	})

	is.Equal(e.Interpolate("{{ count > 1 }}"), "true")
	is.Equal(e.Interpolate("{{ count > 10 }}"), "false")
}

// One bad span must not void the rest of the template.
func TestInterpolateMixedValidAndInvalidSpans(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	})

	is.Equal(e.Interpolate("a {{ missing }} b {{ name }} c"), "a  b Ann c")
	is.Equal(e.Interpolate("{{ 1 ++ }}ok"), "ok")
}

func TestInterpolateMultipleSpans(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"name":  canopy.String("Ann"),
		"count": canopy.Number(2),
	})

	is.Equal(e.Interpolate("{{ name }} has {{ count }} items"), "Ann has 2 items")
}

func TestInterpolateStringFunctions(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	})

	is.Equal(e.Interpolate("{{ name.upperAscii() }}"), "ANN")
	is.Equal(e.Interpolate("{{ size(name) }}"), "3")
}

func TestInterpolateUnterminatedSpan(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	})

	is.Equal(e.Interpolate("x {{ name"), "x ")
}

// A nested open marker is a syntax error local to that span.
func TestInterpolateNestedMarkers(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(map[string]canopy.Value{
		"name": canopy.String("Ann"),
	})

	is.Equal(e.Interpolate("a {{ x {{ name }} b"), "a  b")
}

func TestInterpolateEmptySpan(t *testing.T) {
	is := is.New(t)
	e := newTestEngine(nil)

	is.Equal(e.Interpolate("a {{ }} b"), "a  b")
	is.Equal(e.Interpolate("a {{}} b"), "a  b")
}
