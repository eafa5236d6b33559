// Package jsonview renders a form view as JSON for clients that draw their
// own widgets.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-sendmoney/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "json"

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent sets the indentation; an empty string yields compact output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer producing two-space indented JSON.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, view render.FormView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		out []byte
		err error
	)
	if r.indent == "" {
		out, err = json.Marshal(view)
	} else {
		out, err = json.MarshalIndent(view, "", r.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: encode view: %w", err)
	}
	return out, nil
}
