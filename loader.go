package sendmoney

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-sendmoney/internal/catalog/loader"
	"github.com/goliatone/go-sendmoney/pkg/catalog"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

// NewLoader constructs a catalog loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...catalog.LoaderOption) catalog.Loader {
	cfg := catalog.NewLoaderOptions(options...)
	return loader.New(cfg)
}

// SourceFor returns the file source for path, or the embedded default
// catalog when path is empty.
func SourceFor(path string) catalog.Source {
	if strings.TrimSpace(path) == "" {
		return catalog.DefaultSource()
	}
	return catalog.SourceFromFile(path)
}

// LoadCatalog loads the catalog at path (the embedded one when empty) and
// lints it. Lint issues never fail the load.
func LoadCatalog(ctx context.Context, path string, options ...catalog.LoaderOption) (schema.Catalog, validation.Report, error) {
	src := SourceFor(path)
	cat, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return schema.Catalog{}, validation.Report{}, fmt.Errorf("sendmoney: load %s: %w", src.Location(), err)
	}
	return cat, validation.LintCatalog(cat), nil
}
