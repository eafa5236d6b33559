package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sendmoney/pkg/render"
)

func errorView() render.FormView {
	return render.FormView{
		FormErrors: []string{"Existing"},
		Fields: []render.FieldDescriptor{
			{Key: "msisdn", Name: "msisdn"},
			{Key: "amount", Name: "amount", Errors: []string{"Amount is required"}},
			{Key: "#2"},
		},
	}
}

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"msisdn":            {" Invalid number ", "Invalid number"},
		"/formData/amount":  {"Too large"},
		"body.amount.value": {"Not numeric"},
		"#2":                {"Comment rejected"},
		"non_field_errors":  {"Provider offline"},
		"/formData/unknown": {"Unknown field"},
		"":                  {"   "},
	}

	mapping := render.MapErrorPayload(errorView(), payload)

	wantFields := map[string][]string{
		"msisdn": {"Invalid number"},
		"#2":     {"Comment rejected"},
	}
	amount := mapping.Fields["amount"]
	delete(mapping.Fields, "amount")
	if diff := cmp.Diff(wantFields, mapping.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if len(amount) != 2 {
		t.Fatalf("expected two amount messages, got %v", amount)
	}

	form := map[string]bool{}
	for _, msg := range mapping.Form {
		form[msg] = true
	}
	if !form["Provider offline"] || !form["Unknown field"] || len(form) != 2 {
		t.Fatalf("unexpected form errors %v", mapping.Form)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapping := render.MapErrorPayload(errorView(), nil)
	if mapping.Fields != nil || mapping.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapping)
	}
}

func TestApplyErrors(t *testing.T) {
	view := errorView()
	mapping := render.ErrorMapping{
		Fields: map[string][]string{"amount": {"Too large", "Amount is required"}},
		Form:   []string{"Provider offline"},
	}

	got := render.ApplyErrors(view, mapping)

	if diff := cmp.Diff([]string{"Amount is required", "Too large"}, got.Fields[1].Errors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Existing", "Provider offline"}, got.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if len(view.Fields[1].Errors) != 1 {
		t.Fatalf("input view was modified: %v", view.Fields[1].Errors)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" a ", "b"}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if got := render.MergeFormErrors(nil, " "); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
