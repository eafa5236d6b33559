package schema

import (
	"fmt"
	"strings"
)

// FieldKind enumerates the semantic category of a form input.
type FieldKind string

const (
	FieldKindPhoneNumber        FieldKind = "msisdn"
	FieldKindNumericAmount      FieldKind = "number"
	FieldKindFreeText           FieldKind = "text"
	FieldKindSingleSelectOption FieldKind = "option"
)

// Kinds lists every supported field kind in declaration order.
func Kinds() []FieldKind {
	return []FieldKind{
		FieldKindPhoneNumber,
		FieldKindNumericAmount,
		FieldKindFreeText,
		FieldKindSingleSelectOption,
	}
}

// ParseFieldKind converts a wire value into a FieldKind. An empty value maps
// to FieldKindFreeText.
func ParseFieldKind(raw string) (FieldKind, error) {
	candidate := FieldKind(strings.TrimSpace(raw))
	if candidate == "" {
		return FieldKindFreeText, nil
	}
	for _, kind := range Kinds() {
		if kind == candidate {
			return kind, nil
		}
	}
	return "", fmt.Errorf("schema: unknown field type %q", raw)
}

// UnmarshalText rejects values outside the closed set.
func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Affordance returns the input affordance the kind asks of a rendering layer.
func (k FieldKind) Affordance() Affordance {
	switch k {
	case FieldKindPhoneNumber:
		return AffordancePhonePad
	case FieldKindNumericAmount:
		return AffordanceDecimalPad
	case FieldKindSingleSelectOption:
		return AffordancePicker
	case FieldKindFreeText, "":
		return AffordanceKeyboard
	default:
		return AffordanceKeyboard
	}
}

// RequiresOptions reports whether a field of this kind must carry options.
func (k FieldKind) RequiresOptions() bool {
	switch k {
	case FieldKindSingleSelectOption:
		return true
	case FieldKindPhoneNumber, FieldKindNumericAmount, FieldKindFreeText:
		return false
	default:
		return false
	}
}

// Affordance describes the keyboard or control used to capture a value.
type Affordance string

const (
	AffordancePhonePad   Affordance = "phone"
	AffordanceDecimalPad Affordance = "decimal"
	AffordanceKeyboard   Affordance = "text"
	AffordancePicker     Affordance = "picker"
)
