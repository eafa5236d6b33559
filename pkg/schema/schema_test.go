package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sendmoney/pkg/schema"
)

func sampleCatalog() schema.Catalog {
	return schema.Catalog{
		Title: schema.LocalizedText{En: "Send Money", Ar: "إرسال الأموال"},
		Services: []schema.Service{
			{
				Name:  "Mobile Topup",
				Label: schema.LocalizedText{En: "Mobile Topup"},
				Providers: []schema.Provider{
					{ID: "carrier-a", Name: "Carrier A"},
					{ID: "carrier-b", Name: "Carrier B"},
				},
			},
			{Name: "Bank Transfer"},
			{Name: "Mobile Topup", Label: schema.LocalizedText{En: "Duplicate"}},
		},
	}
}

func TestFindService(t *testing.T) {
	catalog := sampleCatalog()

	got, ok := schema.FindService(catalog, "Mobile Topup")
	if !ok {
		t.Fatalf("expected service to be found")
	}
	if got.Label.En != "Mobile Topup" {
		t.Fatalf("expected first match, got label %q", got.Label.En)
	}

	if _, ok := schema.FindService(catalog, "mobile topup"); ok {
		t.Fatalf("lookup must be exact")
	}
	if _, ok := schema.FindService(schema.Catalog{}, "Mobile Topup"); ok {
		t.Fatalf("empty catalog must not match")
	}
}

func TestFindProvider(t *testing.T) {
	service, _ := schema.FindService(sampleCatalog(), "Mobile Topup")

	got, ok := schema.FindProvider(service, "Carrier B")
	if !ok || got.ID != "carrier-b" {
		t.Fatalf("unexpected provider lookup result: %+v ok=%v", got, ok)
	}
	if _, ok := schema.FindProvider(service, "Carrier C"); ok {
		t.Fatalf("unknown provider must not match")
	}
}

func TestLocalizedTextResolve(t *testing.T) {
	tests := []struct {
		name   string
		text   schema.LocalizedText
		locale schema.Locale
		want   string
		ok     bool
	}{
		{name: "english preferred", text: schema.LocalizedText{En: "Amount", Ar: "المبلغ"}, locale: schema.LocaleEnglish, want: "Amount", ok: true},
		{name: "arabic preferred", text: schema.LocalizedText{En: "Amount", Ar: "المبلغ"}, locale: schema.LocaleArabic, want: "المبلغ", ok: true},
		{name: "arabic falls back", text: schema.LocalizedText{En: "Amount"}, locale: schema.LocaleArabic, want: "Amount", ok: true},
		{name: "english falls back", text: schema.LocalizedText{Ar: "المبلغ"}, locale: schema.LocaleEnglish, want: "المبلغ", ok: true},
		{name: "blank is absent", text: schema.LocalizedText{En: "  ", Ar: "المبلغ"}, locale: schema.LocaleEnglish, want: "المبلغ", ok: true},
		{name: "both absent", text: schema.LocalizedText{}, locale: schema.LocaleArabic, want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.text.Resolve(tt.locale)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Resolve() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseLocale(t *testing.T) {
	cases := map[string]schema.Locale{
		"ar":    schema.LocaleArabic,
		"AR-ae": schema.LocaleArabic,
		"en_US": schema.LocaleEnglish,
		"fr":    schema.LocaleEnglish,
		"":      schema.LocaleEnglish,
	}
	for raw, want := range cases {
		if got := schema.ParseLocale(raw); got != want {
			t.Fatalf("ParseLocale(%q) = %q, want %q", raw, got, want)
		}
	}
	if !schema.LocaleArabic.RightToLeft() || schema.LocaleEnglish.RightToLeft() {
		t.Fatalf("unexpected text direction")
	}
}

func TestFieldKindBehaviour(t *testing.T) {
	want := map[schema.FieldKind]schema.Affordance{
		schema.FieldKindPhoneNumber:        schema.AffordancePhonePad,
		schema.FieldKindNumericAmount:      schema.AffordanceDecimalPad,
		schema.FieldKindFreeText:           schema.AffordanceKeyboard,
		schema.FieldKindSingleSelectOption: schema.AffordancePicker,
	}
	for _, kind := range schema.Kinds() {
		if got := kind.Affordance(); got != want[kind] {
			t.Fatalf("%s affordance = %q, want %q", kind, got, want[kind])
		}
		if got := kind.RequiresOptions(); got != (kind == schema.FieldKindSingleSelectOption) {
			t.Fatalf("%s RequiresOptions = %v", kind, got)
		}
	}
}

func TestFieldSchemaDecode(t *testing.T) {
	payload := `{
		"name": "amount",
		"label": {"en": "Amount", "ar": "المبلغ"},
		"placeholder": "Enter amount",
		"type": "number",
		"validation": "^[0-9]+$",
		"max_length": 5,
		"validation_error_message": "Enter a valid amount",
		"options": [{"label": "Ten", "name": "10"}]
	}`

	var got schema.FieldSchema
	if err := json.Unmarshal([]byte(payload), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := schema.FieldSchema{
		Name:         "amount",
		Label:        schema.LocalizedText{En: "Amount", Ar: "المبلغ"},
		Placeholder:  "Enter amount",
		Kind:         schema.FieldKindNumericAmount,
		Pattern:      "^[0-9]+$",
		MaxLength:    5,
		ErrorMessage: "Enter a valid amount",
		Options:      []schema.Option{{Label: "Ten", Name: "10"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded field mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldSchemaDecodeRejectsUnknownKind(t *testing.T) {
	var field schema.FieldSchema
	if err := json.Unmarshal([]byte(`{"name":"x","type":"date"}`), &field); err == nil {
		t.Fatalf("expected unknown type to fail decoding")
	}
}

func TestApplyDefaults(t *testing.T) {
	catalog := schema.Catalog{Services: []schema.Service{{
		Name: "svc",
		Providers: []schema.Provider{{
			Name:   "p",
			Fields: []schema.FieldSchema{{Name: "note"}, {Name: "msisdn", Kind: schema.FieldKindPhoneNumber}},
		}},
	}}}
	catalog.ApplyDefaults()

	fields := catalog.Services[0].Providers[0].Fields
	if fields[0].Kind != schema.FieldKindFreeText || fields[1].Kind != schema.FieldKindPhoneNumber {
		t.Fatalf("unexpected kinds after defaults: %q %q", fields[0].Kind, fields[1].Kind)
	}
}

func TestFieldKeyAndOptionValue(t *testing.T) {
	if got := schema.FieldKey(2, schema.FieldSchema{Name: " amount "}); got != "amount" {
		t.Fatalf("FieldKey named = %q", got)
	}
	if got := schema.FieldKey(2, schema.FieldSchema{}); got != "#2" {
		t.Fatalf("FieldKey unnamed = %q", got)
	}
	if got := (schema.Option{Label: "Ten", Name: "10"}).Value(); got != "10" {
		t.Fatalf("option value = %q", got)
	}
	if got := (schema.Option{Label: "Ten"}).Value(); got != "Ten" {
		t.Fatalf("option value fallback = %q", got)
	}
}

func TestParseFieldKind(t *testing.T) {
	for _, kind := range schema.Kinds() {
		got, err := schema.ParseFieldKind(" " + string(kind) + " ")
		if err != nil || got != kind {
			t.Fatalf("ParseFieldKind(%q) = %q, %v", kind, got, err)
		}
	}
	if got, err := schema.ParseFieldKind(""); err != nil || got != schema.FieldKindFreeText {
		t.Fatalf("blank kind = %q, %v; want text", got, err)
	}
	if _, err := schema.ParseFieldKind("date"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
