package schema

import (
	"strconv"
	"strings"
)

// Catalog is the document describing every service offered to the user. It
// is immutable once loaded.
type Catalog struct {
	Title    LocalizedText `json:"title"`
	Services []Service     `json:"services"`
}

// Service groups the providers able to fulfil one kind of transfer. Name is
// the lookup key and is expected to be unique within a catalog.
type Service struct {
	Label     LocalizedText `json:"label"`
	Name      string        `json:"name"`
	Providers []Provider    `json:"providers"`
}

// Provider owns the ordered list of fields a request must fill. Field order
// is both the display order and the submission order.
type Provider struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Fields []FieldSchema `json:"required_fields"`
}

// FieldSchema declares one input of a provider form.
type FieldSchema struct {
	Name         string        `json:"name,omitempty"`
	Label        LocalizedText `json:"label"`
	Placeholder  string        `json:"placeholder,omitempty"`
	Kind         FieldKind     `json:"type,omitempty"`
	Pattern      string        `json:"validation,omitempty"`
	MaxLength    int           `json:"max_length,omitempty"`
	ErrorMessage string        `json:"validation_error_message,omitempty"`
	Options      []Option      `json:"options,omitempty"`
}

// Option is a single choice offered by a SingleSelectOption field.
type Option struct {
	Label string `json:"label,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Value returns the string stored when the option is chosen.
func (o Option) Value() string {
	if name := strings.TrimSpace(o.Name); name != "" {
		return name
	}
	return strings.TrimSpace(o.Label)
}

// Display returns the text shown for the option.
func (o Option) Display() string {
	if label := strings.TrimSpace(o.Label); label != "" {
		return label
	}
	return strings.TrimSpace(o.Name)
}

// Named reports whether the field carries a submission key.
func (f FieldSchema) Named() bool {
	return strings.TrimSpace(f.Name) != ""
}

// EffectiveKind returns the declared kind, defaulting to free text.
func (f FieldSchema) EffectiveKind() FieldKind {
	if f.Kind == "" {
		return FieldKindFreeText
	}
	return f.Kind
}

// DisplayLabel resolves the label for locale, falling back to the field name.
func (f FieldSchema) DisplayLabel(locale Locale) string {
	if label, ok := f.Label.Resolve(locale); ok {
		return label
	}
	return strings.TrimSpace(f.Name)
}

// HasPattern reports whether a validation pattern is declared.
func (f FieldSchema) HasPattern() bool {
	return strings.TrimSpace(f.Pattern) != ""
}

// FieldKey returns the key used to hold a field's value while a form is being
// filled. Named fields use their name; unnamed fields use their position so
// they can still be entered and validated.
func FieldKey(index int, field FieldSchema) string {
	if field.Named() {
		return strings.TrimSpace(field.Name)
	}
	return "#" + strconv.Itoa(index)
}

// ApplyDefaults fills in omitted values after decoding.
func (c *Catalog) ApplyDefaults() {
	if c == nil {
		return
	}
	for si := range c.Services {
		providers := c.Services[si].Providers
		for pi := range providers {
			fields := providers[pi].Fields
			for fi := range fields {
				if fields[fi].Kind == "" {
					fields[fi].Kind = FieldKindFreeText
				}
			}
		}
	}
}
