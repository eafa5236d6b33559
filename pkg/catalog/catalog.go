// Package catalog defines how the service catalog is located and loaded.
// Implementations of Loader live under internal/catalog and are wired by
// the top-level sendmoney package.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// DefaultName is the embedded catalog file name inside EmbeddedFS.
const DefaultName = "services_data.json"

//go:embed data/*.json
var embeddedData embed.FS

// EmbeddedFS returns the catalog bundled with the module.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultSource points at the bundled catalog within EmbeddedFS.
func DefaultSource() Source {
	return SourceFromFS(DefaultName)
}

// ErrNotFound reports that the catalog source does not exist.
var ErrNotFound = errors.New("catalog: not found")

// DecodeError reports a catalog that exists but cannot be turned into a
// schema.Catalog. Pointer is set when the failure is structural.
type DecodeError struct {
	Location string
	Pointer  string
	Reason   string
	Err      error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("catalog: decode")
	if e.Location != "" {
		b.WriteString(" " + e.Location)
	}
	if e.Pointer != "" {
		b.WriteString(" at " + e.Pointer)
	}
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	if reason != "" {
		b.WriteString(": " + reason)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Loader reads and decodes a catalog from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (schema.Catalog, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src Source) (schema.Catalog, error)

func (f LoaderFunc) Load(ctx context.Context, src Source) (schema.Catalog, error) {
	return f(ctx, src)
}

// LoaderOptions configures a Loader implementation.
type LoaderOptions struct {
	// FileSystem resolves SourceKindFS locations. Defaults to EmbeddedFS.
	FileSystem fs.FS
	// SkipStructuralCheck disables the document shape check that runs before
	// decoding.
	SkipStructuralCheck bool
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem sets the fs.FS used for SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithoutStructuralCheck decodes documents without checking their shape
// first. Type errors are still reported by the decoder.
func WithoutStructuralCheck() LoaderOption {
	return func(opts *LoaderOptions) {
		opts.SkipStructuralCheck = true
	}
}

// NewLoaderOptions applies options over the defaults.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.FileSystem == nil {
		cfg.FileSystem = EmbeddedFS()
	}
	return cfg
}

// IsUnavailable reports whether err means no catalog could be loaded.
func IsUnavailable(err error) bool {
	var decodeErr *DecodeError
	return errors.Is(err, ErrNotFound) || errors.As(err, &decodeErr)
}

// NotFound wraps cause as an ErrNotFound for location.
func NotFound(location string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return fmt.Errorf("%w: %s: %v", ErrNotFound, location, cause)
}
