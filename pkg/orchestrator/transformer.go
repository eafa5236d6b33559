package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/render"
)

// Transformer mutates a described view before errors are applied and it is
// rendered. Implementations can relabel fields or reword interface text.
type Transformer interface {
	Transform(ctx context.Context, view *render.FormView) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, view *render.FormView) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, view *render.FormView) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, view)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Patches are keyed by locale so one document can serve both languages; the
// "*" entry applies to every locale and is applied first:
//
//	{
//	  "*":  {"fields": {"msisdn": {"placeholder": "05XXXXXXXX"}}},
//	  "en": {"title": "Top up", "submit": "Top up now",
//	         "fields": {"amount": {"label": "Amount (SAR)"}}}
//	}
type JSONPresetTransformer struct {
	document map[string]jsonViewPatch
}

type jsonViewPatch struct {
	Title          string                    `json:"title"`
	SelectService  string                    `json:"selectService"`
	SelectProvider string                    `json:"selectProvider"`
	Submit         string                    `json:"submit"`
	Fields         map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

const anyLocale = "*"

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document map[string]jsonViewPatch
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches for the view locale. Patches naming a field
// the view does not show are ignored, since the fields depend on the
// selected provider.
func (t *JSONPresetTransformer) Transform(ctx context.Context, view *render.FormView) error {
	if view == nil {
		return errors.New("json preset transformer: view is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range []string{anyLocale, view.Locale.String()} {
		patch, ok := t.document[key]
		if !ok {
			continue
		}
		applyViewPatch(view, patch)
	}
	return nil
}

func applyViewPatch(view *render.FormView, patch jsonViewPatch) {
	if patch.Title != "" {
		view.Title = patch.Title
	}
	if patch.SelectService != "" {
		view.Strings.SelectService = patch.SelectService
	}
	if patch.SelectProvider != "" {
		view.Strings.SelectProvider = patch.SelectProvider
	}
	if patch.Submit != "" {
		view.Strings.Submit = patch.Submit
	}
	for key, fieldPatch := range patch.Fields {
		field := findField(view.Fields, key)
		if field == nil {
			continue
		}
		applyFieldPatch(field, fieldPatch)
	}
}

func applyFieldPatch(field *render.FieldDescriptor, patch jsonFieldPatch) {
	if field == nil {
		return
	}
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
}

func findField(fields []render.FieldDescriptor, key string) *render.FieldDescriptor {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	for idx := range fields {
		if fields[idx].Key == key {
			return &fields[idx]
		}
	}
	return nil
}
