package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/session"
)

// FormView is the declarative description of the send-money screen. It is
// produced from a session and consumed by any rendering layer.
type FormView struct {
	SessionID     string            `json:"sessionId"`
	State         string            `json:"state"`
	Locale        schema.Locale     `json:"locale"`
	Direction     string            `json:"direction"`
	Title         string            `json:"title"`
	Strings       Strings           `json:"strings"`
	Services      []Choice          `json:"services"`
	Providers     []Choice          `json:"providers,omitempty"`
	Service       *Choice           `json:"service,omitempty"`
	Provider      *Choice           `json:"provider,omitempty"`
	Fields        []FieldDescriptor `json:"fields,omitempty"`
	FormErrors    []string          `json:"formErrors,omitempty"`
	Hidden        []HiddenField     `json:"hidden,omitempty"`
	ReadyToSubmit bool              `json:"readyToSubmit"`
}

// Strings carries the static interface text for the active locale.
type Strings struct {
	SelectService  string `json:"selectService"`
	SelectProvider string `json:"selectProvider"`
	Submit         string `json:"submit"`
}

// Choice is one selectable service or provider.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// FieldDescriptor tells a rendering layer how to present one field.
type FieldDescriptor struct {
	Key         string             `json:"key"`
	Name        string             `json:"name,omitempty"`
	Label       string             `json:"label"`
	Placeholder string             `json:"placeholder,omitempty"`
	Kind        schema.FieldKind   `json:"kind"`
	Affordance  schema.Affordance  `json:"affordance"`
	InputType   string             `json:"inputType"`
	InputMode   string             `json:"inputMode,omitempty"`
	MaxLength   int                `json:"maxLength,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	Required    bool               `json:"required"`
	Submitted   bool               `json:"submitted"`
	Options     []OptionDescriptor `json:"options,omitempty"`
	Value       string             `json:"value,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
}

// OptionDescriptor is one entry of a picker.
type OptionDescriptor struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// DescribeOption configures Describe.
type DescribeOption func(*describeConfig)

type describeConfig struct {
	translator i18n.Translator
	formErrors []string
	hidden     []HiddenField
}

// WithTranslator resolves static interface strings.
func WithTranslator(t i18n.Translator) DescribeOption {
	return func(cfg *describeConfig) {
		cfg.translator = t
	}
}

// WithFormErrors attaches form-level messages to the view.
func WithFormErrors(messages ...string) DescribeOption {
	return func(cfg *describeConfig) {
		cfg.formErrors = append(cfg.formErrors, messages...)
	}
}

// WithHiddenFields adds hidden inputs beyond the selection fields.
func WithHiddenFields(fields ...HiddenField) DescribeOption {
	return func(cfg *describeConfig) {
		cfg.hidden = append(cfg.hidden, fields...)
	}
}

// ErrNoSession is returned by Describe when given a nil session.
var ErrNoSession = errors.New("render: session is nil")

// Describe builds the view for s in its locale. Values and the last recorded
// failures are carried into the field descriptors.
func Describe(s *session.Session, options ...DescribeOption) (FormView, error) {
	if s == nil {
		return FormView{}, ErrNoSession
	}
	catalog := s.Catalog()
	if catalog == nil {
		return FormView{}, fmt.Errorf("render: describe: %w", session.ErrNoCatalog)
	}

	cfg := describeConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	locale := s.Locale()
	view := FormView{
		SessionID: s.ID(),
		State:     s.State().String(),
		Locale:    locale,
		Direction: locale.Direction(),
		Title:     PlainText(catalog.Title.In(locale)),
		Strings: Strings{
			SelectService:  i18n.Lookup(cfg.translator, locale, "send.select_service", "Select service"),
			SelectProvider: i18n.Lookup(cfg.translator, locale, "send.select_provider", "Select provider"),
			Submit:         i18n.Lookup(cfg.translator, locale, "send.submit", "Send"),
		},
		FormErrors: normalizeMessages(cfg.formErrors),
	}

	selectedService, hasService := s.SelectedService()
	for _, service := range catalog.Services {
		view.Services = append(view.Services, Choice{
			Value:    service.Name,
			Label:    serviceLabel(service, locale),
			Selected: hasService && service.Name == selectedService.Name,
		})
	}

	hidden := make(map[string]string)
	if hasService {
		view.Service = &Choice{Value: selectedService.Name, Label: serviceLabel(selectedService, locale), Selected: true}
		hidden["service"] = selectedService.Name

		selectedProvider, hasProvider := s.SelectedProvider()
		for _, provider := range selectedService.Providers {
			view.Providers = append(view.Providers, Choice{
				Value:    provider.Name,
				Label:    PlainText(provider.Name),
				Selected: hasProvider && provider.Name == selectedProvider.Name,
			})
		}
		if hasProvider {
			view.Provider = &Choice{Value: selectedProvider.Name, Label: PlainText(selectedProvider.Name), Selected: true}
			hidden["provider"] = selectedProvider.Name
			view.Fields = describeFields(s, selectedProvider.Fields)
			view.ReadyToSubmit = s.State() == session.StateProviderSelected
		}
	}
	hidden["session"] = s.ID()
	view.Hidden = SortedHiddenFields(MergeHiddenFields(hidden, cfg.hidden...))

	return view, nil
}

func describeFields(s *session.Session, fields []schema.FieldSchema) []FieldDescriptor {
	locale := s.Locale()
	out := make([]FieldDescriptor, 0, len(fields))
	for i, field := range fields {
		key := schema.FieldKey(i, field)
		kind := field.EffectiveKind()
		affordance := kind.Affordance()
		inputType, inputMode := inputAttributes(affordance)

		label := PlainText(field.DisplayLabel(locale))
		if label == "" {
			label = key
		}
		value := s.Value(key)

		descriptor := FieldDescriptor{
			Key:         key,
			Name:        strings.TrimSpace(field.Name),
			Label:       label,
			Placeholder: PlainText(field.Placeholder),
			Kind:        kind,
			Affordance:  affordance,
			InputType:   inputType,
			InputMode:   inputMode,
			MaxLength:   field.MaxLength,
			Pattern:     strings.TrimSpace(field.Pattern),
			Required:    true,
			Submitted:   field.Named(),
			Value:       value,
		}
		if kind.RequiresOptions() {
			for _, option := range field.Options {
				descriptor.Options = append(descriptor.Options, OptionDescriptor{
					Value:    option.Value(),
					Label:    PlainText(option.Display()),
					Selected: value != "" && option.Value() == value,
				})
			}
		}
		if failure, ok := s.Failure(key); ok {
			descriptor.Errors = normalizeMessages([]string{failure.Message})
		}
		out = append(out, descriptor)
	}
	return out
}

// inputAttributes maps an affordance onto HTML input type and inputmode.
func inputAttributes(affordance schema.Affordance) (string, string) {
	switch affordance {
	case schema.AffordancePhonePad:
		return "tel", "tel"
	case schema.AffordanceDecimalPad:
		return "text", "decimal"
	case schema.AffordancePicker:
		return "select", ""
	case schema.AffordanceKeyboard:
		return "text", "text"
	default:
		return "text", "text"
	}
}

func serviceLabel(service schema.Service, locale schema.Locale) string {
	if label := PlainText(service.Label.In(locale)); label != "" {
		return label
	}
	return PlainText(service.Name)
}
