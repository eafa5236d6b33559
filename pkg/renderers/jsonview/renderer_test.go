package jsonview_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/renderers/jsonview"
	"github.com/goliatone/go-sendmoney/pkg/session"
	"github.com/goliatone/go-sendmoney/pkg/testsupport"
)

func TestRenderer_EncodesView(t *testing.T) {
	s := session.New(testsupport.TopupCatalog(), session.WithID("sess-1"))
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier B")
	view, err := render.Describe(s)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	renderer := jsonview.New()
	if renderer.Name() != "json" || renderer.ContentType() != "application/json" {
		t.Fatalf("unexpected renderer identity %q %q", renderer.Name(), renderer.ContentType())
	}
	out, err := renderer.Render(context.Background(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "\n  \"sessionId\": \"sess-1\"") {
		t.Fatalf("expected indented output, got %s", out)
	}

	var decoded struct {
		State  string `json:"state"`
		Fields []struct {
			Key        string `json:"key"`
			Affordance string `json:"affordance"`
			Options    []struct {
				Value string `json:"value"`
			} `json:"options"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.State != "provider_selected" {
		t.Fatalf("unexpected state %q", decoded.State)
	}
	if len(decoded.Fields) != 1 || decoded.Fields[0].Affordance != "picker" {
		t.Fatalf("unexpected fields %+v", decoded.Fields)
	}
	var values []string
	for _, option := range decoded.Fields[0].Options {
		values = append(values, option.Value)
	}
	if diff := cmp.Diff([]string{"daily_1gb", "weekly_5gb"}, values); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_Compact(t *testing.T) {
	out, err := jsonview.New(jsonview.WithIndent("")).Render(context.Background(), render.FormView{SessionID: "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "\n") {
		t.Fatalf("expected compact output, got %s", out)
	}
}
