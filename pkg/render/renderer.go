package render

import "context"

// Renderer converts a FormView into a byte representation (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view FormView) ([]byte, error)
}
