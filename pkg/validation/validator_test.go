package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

func amountField() schema.FieldSchema {
	return schema.FieldSchema{
		Name:      "amount",
		Label:     schema.LocalizedText{En: "Amount", Ar: "المبلغ"},
		Kind:      schema.FieldKindNumericAmount,
		Pattern:   "^[0-9]+$",
		MaxLength: 5,
	}
}

func TestValidateRulesInOrder(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		field schema.FieldSchema
		raw   string
		want  validation.Result
	}{
		{
			name:  "whitespace only is required",
			field: amountField(),
			raw:   "   ",
			want:  validation.Result{Reason: validation.ReasonRequired, Message: "Amount is required"},
		},
		{
			name:  "max length checked before pattern",
			field: amountField(),
			raw:   "12345a",
			want:  validation.Result{Reason: validation.ReasonMaxLength, Message: "Amount must be at most 5 characters"},
		},
		{
			name:  "pattern failure",
			field: amountField(),
			raw:   "12a",
			want:  validation.Result{Reason: validation.ReasonPattern, Message: "Amount has an invalid format"},
		},
		{
			name:  "trimmed value passes",
			field: amountField(),
			raw:   "  12345 ",
			want:  validation.Result{},
		},
		{
			name:  "no label falls back to name",
			field: schema.FieldSchema{Name: "note"},
			raw:   "",
			want:  validation.Result{Reason: validation.ReasonRequired, Message: "note is required"},
		},
		{
			name:  "zero max length is ignored",
			field: schema.FieldSchema{Name: "note", MaxLength: 0},
			raw:   strings.Repeat("x", 200),
			want:  validation.Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.field, tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
			if got.Valid() != (tt.want.Reason == "") {
				t.Fatalf("Valid() = %v", got.Valid())
			}
		})
	}
}

func TestMaxLengthBeatsPatternForAnyInput(t *testing.T) {
	v := validation.New()
	patterns := []string{"^[0-9]+$", "[a-z]*", "(", ""}
	for n := 1; n <= 8; n++ {
		for _, pattern := range patterns {
			field := schema.FieldSchema{Name: "f", MaxLength: n, Pattern: pattern}
			for _, raw := range []string{strings.Repeat("1", n+1), strings.Repeat("z", n+1), strings.Repeat("é", n+1)} {
				got := v.Validate(field, " "+raw+" ")
				if got.Reason != validation.ReasonMaxLength {
					t.Fatalf("n=%d pattern=%q raw=%q: reason %q, want max_length", n, pattern, raw, got.Reason)
				}
			}
		}
	}
}

func TestMaxLengthCountsRunes(t *testing.T) {
	v := validation.New()
	field := schema.FieldSchema{Name: "name", MaxLength: 4}
	if got := v.Validate(field, "سلام"); !got.Valid() {
		t.Fatalf("four arabic letters must fit max_length 4: %+v", got)
	}
}

func TestPatternIsAnchored(t *testing.T) {
	v := validation.New()
	tests := []struct {
		pattern string
		raw     string
	}{
		{pattern: "[0-9]+", raw: "abc123"},
		{pattern: "[0-9]+", raw: "123abc"},
		{pattern: "05[0-9]{8}", raw: "x0501234567"},
		{pattern: "cat|dog", raw: "cats"},
		{pattern: "^05", raw: "0501"},
	}
	for _, tt := range tests {
		field := schema.FieldSchema{Name: "f", Pattern: tt.pattern}
		if got := v.Validate(field, tt.raw); got.Reason != validation.ReasonPattern {
			t.Fatalf("pattern %q on %q: got %+v, want pattern failure", tt.pattern, tt.raw, got)
		}
	}

	field := schema.FieldSchema{Name: "f", Pattern: "cat|dog"}
	if got := v.Validate(field, "dog"); !got.Valid() {
		t.Fatalf("alternation must match whole value: %+v", got)
	}
}

func TestCustomMessageOverridesEveryRule(t *testing.T) {
	v := validation.New()
	field := amountField()
	field.ErrorMessage = "Enter a valid amount"

	for _, raw := range []string{"", "123456", "12a"} {
		got := v.Validate(field, raw)
		if got.Valid() || got.Message != "Enter a valid amount" {
			t.Fatalf("raw %q: got %+v, want custom message", raw, got)
		}
	}
}

func TestBrokenPatternIsSkippedAndReportedOnce(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		values  []string
	}{
		{name: "unterminated group", pattern: "([a-z", values: []string{"anything", "123"}},
		{name: "unbalanced alternation", pattern: "05)|(9", values: []string{"123", "05-anything-at-all", "9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reported []string
			v := validation.New(validation.OnInvalidPattern(func(field schema.FieldSchema, pattern string, err error) {
				if err == nil {
					t.Fatalf("expected compile error")
				}
				reported = append(reported, field.Name+":"+pattern)
			}))
			field := schema.FieldSchema{Name: "code", Pattern: tt.pattern}

			for i := 0; i < 3; i++ {
				for _, raw := range tt.values {
					if got := v.Validate(field, raw); !got.Valid() {
						t.Fatalf("broken pattern must be treated as absent, %q: %+v", raw, got)
					}
				}
			}
			if diff := cmp.Diff([]string{"code:" + tt.pattern}, reported); diff != "" {
				t.Fatalf("reported patterns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompilePatternRejectsUnbalancedInput(t *testing.T) {
	if _, err := validation.CompilePattern("05)|(9"); err == nil {
		t.Fatalf("expected unbalanced pattern to be rejected")
	}
}

func TestLocalizedMessages(t *testing.T) {
	bundle := i18n.MustBundle()
	v := validation.New(validation.WithTranslator(bundle), validation.WithLocale(schema.LocaleArabic))

	got := v.Validate(amountField(), "")
	if got.Message != "المبلغ مطلوب" {
		t.Fatalf("unexpected arabic message %q", got.Message)
	}

	en := v.ForLocale(schema.LocaleEnglish)
	if got := en.Validate(amountField(), ""); got.Message != "Amount is required" {
		t.Fatalf("unexpected english message %q", got.Message)
	}
	if v.Locale() != schema.LocaleArabic {
		t.Fatalf("ForLocale must not mutate the receiver")
	}
}
