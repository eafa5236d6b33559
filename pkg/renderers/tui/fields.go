package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// promptField asks for one field and returns the raw answer. Pickers store
// the option value; every other affordance is free input seeded with the
// current value.
func promptField(ctx context.Context, driver PromptDriver, field render.FieldDescriptor) (string, error) {
	switch field.Affordance {
	case schema.AffordancePicker:
		return promptOption(ctx, driver, field)
	case schema.AffordancePhonePad, schema.AffordanceDecimalPad, schema.AffordanceKeyboard:
		return driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: field.Value,
			Help:    fieldHelp(field),
		})
	default:
		return "", fmt.Errorf("tui: field %q has unknown affordance %q", field.Key, field.Affordance)
	}
}

func promptOption(ctx context.Context, driver PromptDriver, field render.FieldDescriptor) (string, error) {
	if len(field.Options) == 0 {
		// nothing to choose; the validator reports the empty value
		return "", nil
	}
	labels := make([]string, len(field.Options))
	selected := -1
	for i, option := range field.Options {
		labels[i] = option.Label
		if option.Selected {
			selected = i
		}
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      labels,
		DefaultIndex: selected,
		Help:         fieldHelp(field),
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", nil
	}
	return field.Options[idx].Value, nil
}

func fieldHelp(field render.FieldDescriptor) string {
	var parts []string
	if field.Placeholder != "" {
		parts = append(parts, field.Placeholder)
	}
	if field.MaxLength > 0 && field.Affordance != schema.AffordancePicker {
		parts = append(parts, fmt.Sprintf("max %d", field.MaxLength))
	}
	return strings.Join(parts, " · ")
}
