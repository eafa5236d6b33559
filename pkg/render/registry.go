package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned when no renderer serves the requested format.
var ErrUnknownFormat = errors.New("render: unknown output format")

// Format describes one output format a registry can produce.
type Format struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// Registry maps output formats to renderers. A format is requested either by
// renderer name ("html", "json") or by media type ("text/html",
// "application/json"); both are matched case-insensitively.
type Registry struct {
	mu          sync.RWMutex
	renderers   map[string]Renderer
	contentType map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers:   make(map[string]Renderer),
		contentType: make(map[string]string),
	}
}

// Register adds renderer under its Name. The first renderer registered for a
// media type also answers requests for that media type.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := formatKey(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if media := mediaType(renderer.ContentType()); media != "" {
		if _, taken := r.contentType[media]; !taken {
			r.contentType[media] = name
		}
	}
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered under name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if renderer, ok := r.renderers[formatKey(name)]; ok {
		return renderer, nil
	}
	return nil, r.unknown(name)
}

// Resolve returns the renderer for format, which may be a renderer name or a
// media type with optional parameters.
func (r *Registry) Resolve(format string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if renderer, ok := r.renderers[formatKey(format)]; ok {
		return renderer, nil
	}
	if name, ok := r.contentType[mediaType(format)]; ok {
		return r.renderers[name], nil
	}
	return nil, r.unknown(format)
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.names()
}

// Formats returns every registered format sorted by name.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.names()
	formats := make([]Format, 0, len(names))
	for _, name := range names {
		formats = append(formats, Format{Name: name, ContentType: r.renderers[name].ContentType()})
	}
	return formats
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) unknown(format string) error {
	names := r.names()
	if len(names) == 0 {
		return fmt.Errorf("%w %q: no renderers registered", ErrUnknownFormat, format)
	}
	return fmt.Errorf("%w %q (available: %s)", ErrUnknownFormat, format, strings.Join(names, ", "))
}

func formatKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func mediaType(contentType string) string {
	trimmed := strings.TrimSpace(contentType)
	if trimmed == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(trimmed)
	if err != nil {
		return ""
	}
	return parsed
}
