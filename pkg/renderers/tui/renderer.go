package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-sendmoney/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "tui"

// Renderer implements render.Renderer by prompting for every field of the
// view and serialising the answers. It does not validate; the send-money
// flow of App does.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer with the survey driver and JSON output.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialisation format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render prompts for each field in view order.
func (r *Renderer) Render(ctx context.Context, view render.FormView) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	if view.Title != "" {
		if err := r.driver.Info(ctx, view.Title); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(view.Fields))
	values := make(map[string]string, len(view.Fields))
	for _, field := range view.Fields {
		for _, message := range field.Errors {
			if err := r.driver.Info(ctx, message); err != nil {
				return nil, err
			}
		}
		value, err := promptField(ctx, r.driver, field)
		if err != nil {
			return nil, err
		}
		keys = append(keys, field.Key)
		values[field.Key] = value
	}
	return r.serialize(keys, values)
}

func (r *Renderer) serialize(keys []string, values map[string]string) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		var buf bytes.Buffer
		for _, key := range keys {
			fmt.Fprintf(&buf, "%s: %s\n", key, values[key])
		}
		return buf.Bytes(), nil
	}
	out, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("tui: encode values: %w", err)
	}
	return out, nil
}
