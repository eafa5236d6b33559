package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sendmoney/pkg/catalog"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// Decode turns a JSON or YAML document into a schema.Catalog. When check is
// set the document shape is verified before decoding so that failures carry
// a JSON pointer.
func Decode(location string, raw []byte, check bool) (schema.Catalog, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return schema.Catalog{}, &catalog.DecodeError{Location: location, Reason: "document is empty"}
	}

	payload, tree, err := normalise(location, raw)
	if err != nil {
		return schema.Catalog{}, err
	}

	if check {
		if err := checkStructure(location, tree); err != nil {
			return schema.Catalog{}, err
		}
	}

	var out schema.Catalog
	if err := json.Unmarshal(payload, &out); err != nil {
		return schema.Catalog{}, &catalog.DecodeError{Location: location, Reason: err.Error(), Err: err}
	}
	out.ApplyDefaults()
	return out, nil
}

// normalise returns the document as JSON bytes plus its generic tree.
func normalise(location string, raw []byte) ([]byte, any, error) {
	if !isYAMLPath(location) {
		var tree any
		jsonErr := json.Unmarshal(raw, &tree)
		if jsonErr == nil {
			return raw, tree, nil
		}
		if looksLikeJSON(raw) {
			return nil, nil, &catalog.DecodeError{Location: location, Reason: jsonErr.Error(), Err: jsonErr}
		}
	}

	var node any
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, nil, &catalog.DecodeError{Location: location, Reason: err.Error(), Err: err}
	}
	tree := jsonCompatible(node)
	payload, err := json.Marshal(tree)
	if err != nil {
		return nil, nil, &catalog.DecodeError{Location: location, Reason: fmt.Sprintf("convert yaml: %v", err), Err: err}
	}

	// re-read so numbers take the same shape as the JSON path
	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return nil, nil, &catalog.DecodeError{Location: location, Reason: err.Error(), Err: err}
	}
	return payload, generic, nil
}

func jsonCompatible(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = jsonCompatible(value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[fmt.Sprint(key)] = jsonCompatible(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = jsonCompatible(value)
		}
		return out
	default:
		return v
	}
}

func isYAMLPath(location string) bool {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func looksLikeJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
