package sendmoney

import (
	"context"

	"github.com/goliatone/go-sendmoney/pkg/orchestrator"
	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// Request aliases orchestrator.Request for callers of the root package.
type Request = orchestrator.Request

// HiddenField aliases render.HiddenField.
type HiddenField = render.HiddenField

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the catalog at path (the embedded one when empty) and
// renders the form for the given selection as HTML.
func GenerateHTML(ctx context.Context, path, service, provider string, locale schema.Locale, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   SourceFor(path),
		Service:  service,
		Provider: provider,
		Locale:   locale,
	})
}

// GenerateFromCatalog renders a form for an already loaded catalog with the
// named renderer, bypassing the loader stage.
func GenerateFromCatalog(ctx context.Context, cat schema.Catalog, req Request, options ...orchestrator.Option) ([]byte, error) {
	req.Catalog = &cat
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, req)
}

// WithTransformer registers a view transformer with the orchestrator.
func WithTransformer(t orchestrator.Transformer) orchestrator.Option {
	return orchestrator.WithTransformer(t)
}
