// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sendmoney/internal/catalog/loader"
	"github.com/goliatone/go-sendmoney/pkg/catalog"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// DefaultCatalog loads the embedded sample catalog through the production
// loader.
func DefaultCatalog(t *testing.T) schema.Catalog {
	t.Helper()

	l := loader.New(catalog.NewLoaderOptions())
	cat, err := l.Load(context.Background(), catalog.DefaultSource())
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	return cat
}

// MustLoadCatalog loads a catalog file from disk.
func MustLoadCatalog(t *testing.T, path string) schema.Catalog {
	t.Helper()

	l := loader.New(catalog.NewLoaderOptions())
	cat, err := l.Load(context.Background(), catalog.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load catalog %s: %v", path, err)
	}
	return cat
}

// TopupCatalog returns a small in-memory catalog with one service and two
// providers. Carrier A has a phone field with a pattern and a custom
// message; Carrier B has a picker.
func TopupCatalog() *schema.Catalog {
	return &schema.Catalog{
		Title: schema.LocalizedText{En: "Send Money", Ar: "إرسال الأموال"},
		Services: []schema.Service{{
			Name:  "Mobile Topup",
			Label: schema.LocalizedText{En: "Mobile Topup", Ar: "شحن رصيد الجوال"},
			Providers: []schema.Provider{
				{
					ID:   "carrier_a",
					Name: "Carrier A",
					Fields: []schema.FieldSchema{
						{
							Name:         "msisdn",
							Label:        schema.LocalizedText{En: "Mobile number", Ar: "رقم الجوال"},
							Placeholder:  "05XXXXXXXX",
							Kind:         schema.FieldKindPhoneNumber,
							Pattern:      "^05[0-9]{8}$",
							MaxLength:    10,
							ErrorMessage: "Enter a 10 digit number starting with 05",
						},
						{
							Name:      "amount",
							Label:     schema.LocalizedText{En: "Amount", Ar: "المبلغ"},
							Kind:      schema.FieldKindNumericAmount,
							MaxLength: 4,
						},
					},
				},
				{
					ID:   "carrier_b",
					Name: "Carrier B",
					Fields: []schema.FieldSchema{
						{
							Name:  "bundle",
							Label: schema.LocalizedText{En: "Bundle", Ar: "الباقة"},
							Kind:  schema.FieldKindSingleSelectOption,
							Options: []schema.Option{
								{Label: "Daily 1GB", Name: "daily_1gb"},
								{Label: "Weekly 5GB", Name: "weekly_5gb"},
							},
						},
					},
				},
			},
		}},
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set and
// reports whether it did.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CaptureOutput runs render with a buffer and returns both the returned
// string and what was written.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
