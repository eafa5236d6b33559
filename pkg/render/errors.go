package render

import (
	"strings"
)

// ErrorMapping splits an error payload into messages keyed by field key and
// form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload matches the paths of an error payload (plain names, dotted
// paths or JSON pointers such as "/formData/iban") against the fields of
// view. Paths that match no field become form-level messages.
func MapErrorPayload(view FormView, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	keys := make(map[string]string, len(view.Fields)*2)
	for _, field := range view.Fields {
		keys[field.Key] = field.Key
		if field.Name != "" {
			keys[field.Name] = field.Key
		}
	}

	for rawPath, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		key, ok := matchFieldKey(rawPath, keys)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[key] = append(mapping.Fields[key], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ApplyErrors returns a copy of view with mapping merged into the field and
// form messages.
func ApplyErrors(view FormView, mapping ErrorMapping) FormView {
	out := view
	out.FormErrors = MergeFormErrors(view.FormErrors, mapping.Form...)
	if len(mapping.Fields) == 0 {
		return out
	}
	out.Fields = make([]FieldDescriptor, len(view.Fields))
	for i, field := range view.Fields {
		if extra := mapping.Fields[field.Key]; len(extra) > 0 {
			field.Errors = MergeFormErrors(field.Errors, extra...)
		}
		out.Fields[i] = field
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func matchFieldKey(raw string, keys map[string]string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if key, ok := keys[trimmed]; ok {
		return key, true
	}

	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return "", false
	}
	// the first remaining segment names the field; deeper segments are ignored
	if key, ok := keys[segments[0]]; ok {
		return key, true
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "formdata", "form_data":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
