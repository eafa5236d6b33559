package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

func TestLintCatalogClean(t *testing.T) {
	catalog := schema.Catalog{Services: []schema.Service{{
		Name:  "Mobile Topup",
		Label: schema.Text("Mobile Topup"),
		Providers: []schema.Provider{{
			ID:   "a",
			Name: "Carrier A",
			Fields: []schema.FieldSchema{
				{Name: "msisdn", Label: schema.Text("Phone"), Kind: schema.FieldKindPhoneNumber, Pattern: "^05[0-9]{8}$"},
				{Name: "plan", Label: schema.Text("Plan"), Kind: schema.FieldKindSingleSelectOption, Options: []schema.Option{{Label: "Basic"}}},
			},
		}},
	}}}

	report := validation.LintCatalog(catalog)
	if !report.Valid || len(report.Issues) != 0 {
		t.Fatalf("expected clean report, got %+v", report.Issues)
	}
}

func TestLintCatalogFindsAuthoringMistakes(t *testing.T) {
	catalog := schema.Catalog{Services: []schema.Service{
		{
			Name:  "Topup",
			Label: schema.Text("Topup"),
			Providers: []schema.Provider{
				{
					Name: "Carrier",
					Fields: []schema.FieldSchema{
						{Label: schema.Text("Nameless")},
						{Name: "code", Label: schema.Text("Code"), Pattern: "([0-9"},
						{Name: "code", Label: schema.Text("Code again")},
						{Name: "plan", Label: schema.Text("Plan"), Kind: schema.FieldKindSingleSelectOption},
						{Name: "ref", Label: schema.Text("Reference"), Pattern: "05)|(9"},
					},
				},
				{Name: "Carrier"},
			},
		},
		{Name: "Topup"},
	}}

	report := validation.LintCatalog(catalog)
	if report.Valid {
		t.Fatalf("expected issues")
	}

	var paths []string
	for _, issue := range report.Issues {
		paths = append(paths, issue.Field)
	}
	want := []string{
		"services[0].providers[0].required_fields[0].name",
		"services[0].providers[0].required_fields[1].validation",
		"services[0].providers[0].required_fields[2].name",
		"services[0].providers[0].required_fields[3].options",
		"services[0].providers[0].required_fields[4].validation",
		"services[0].providers[1].name",
		"services[1].label",
		"services[1].name",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldPathFromPointer(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"#/services/2/name":        "services[2].name",
		"/title/en":                "title.en",
		"/services/0/providers/10": "services[0].providers[10]",
		"/a~1b/c~0d":               "a/b.c~d",
	}
	for pointer, want := range cases {
		if got := validation.FieldPathFromPointer(pointer); got != want {
			t.Fatalf("FieldPathFromPointer(%q) = %q, want %q", pointer, got, want)
		}
	}
}
