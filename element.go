package canopy

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Kind identifies what an element is. The set is closed: decoders
// reject any other value, and adding a new kind is a breaking schema
// change.
type Kind string

const (
	Container  Kind = "Container"
	Text       Kind = "Text"
	Actionable Kind = "Actionable"
)

// Element is one node of the declarative UI tree. The tree is decoded
// once from an external payload, is acyclic and finite by construction,
// and is never mutated after decoding. The renderer only reads it.
type Element struct {
	// Kind of the element. Required.
	Kind Kind `json:"type" mapstructure:"type"`

	// Text is a template string: the body of a Text element, or the
	// label of an Actionable one. It may contain {{ expr }} spans.
	Text string `json:"text,omitempty" mapstructure:"text"`

	// ActionID names a caller-registered callback bound on
	// activation. Only meaningful for Actionable elements.
	ActionID string `json:"actionId,omitempty" mapstructure:"actionId"`

	// VisibleIf is an expression controlling whether the element and
	// its subtree render. Absent means always visible.
	VisibleIf string `json:"visibleIf,omitempty" mapstructure:"visibleIf"`

	// Children are rendered in order. Only meaningful for Container
	// elements.
	Children []*Element `json:"children,omitempty" mapstructure:"children"`
}

// Validate checks that the element and all of its children carry a
// known kind. Structural validity is a decode-time concern; the
// renderer assumes a validated tree.
func (e *Element) Validate() error {
	if e == nil {
		return fmt.Errorf("nil element")
	}
	switch e.Kind {
	case Container, Text, Actionable:
	default:
		return fmt.Errorf("unknown element type %q", e.Kind)
	}
	for i, c := range e.Children {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

// DecodeJSON decodes a JSON payload into a validated element tree.
func DecodeJSON(payload []byte) (*Element, error) {
	var e Element
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("decoding element payload: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Decode builds a validated element tree from an already-parsed generic
// payload, such as the output of a YAML or JSON decoder. Unknown fields
// in the payload are an error.
func Decode(raw map[string]any) (*Element, error) {
	var e Element
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &e,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding element payload: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
