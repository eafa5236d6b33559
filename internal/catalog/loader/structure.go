package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-sendmoney/pkg/catalog"
)

//go:embed catalog.openapi.yaml
var catalogSpec []byte

var (
	structureOnce   sync.Once
	structureSchema *openapi3.Schema
	structureErr    error
)

// catalogSchema returns the Catalog component of the embedded OpenAPI
// description.
func catalogSchema() (*openapi3.Schema, error) {
	structureOnce.Do(func() {
		doc, err := openapi3.NewLoader().LoadFromData(catalogSpec)
		if err != nil {
			structureErr = fmt.Errorf("catalog loader: load structural schema: %w", err)
			return
		}
		ref := doc.Components.Schemas["Catalog"]
		if ref == nil || ref.Value == nil {
			structureErr = errors.New("catalog loader: structural schema has no Catalog component")
			return
		}
		structureSchema = ref.Value
	})
	return structureSchema, structureErr
}

func checkStructure(location string, tree any) error {
	s, err := catalogSchema()
	if err != nil {
		return err
	}
	if err := s.VisitJSON(tree); err != nil {
		return structuralError(location, err)
	}
	return nil
}

func structuralError(location string, err error) error {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return &catalog.DecodeError{
			Location: location,
			Pointer:  pointerFrom(schemaErr.JSONPointer()),
			Reason:   strings.TrimSpace(schemaErr.Reason),
			Err:      err,
		}
	}
	return &catalog.DecodeError{Location: location, Reason: err.Error(), Err: err}
}

func pointerFrom(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		escaped[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}
