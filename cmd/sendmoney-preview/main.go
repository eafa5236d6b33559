package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-sendmoney"
	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/orchestrator"
	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/renderers/html"
	"github.com/goliatone/go-sendmoney/pkg/renderers/jsonview"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

type valueFlags map[string]string

func (v valueFlags) String() string {
	parts := make([]string, 0, len(v))
	for key, value := range v {
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, ",")
}

func (v valueFlags) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", raw)
	}
	v[strings.TrimSpace(key)] = value
	return nil
}

func main() {
	catalogPath := flag.String("catalog", "", "catalog file (embedded catalog if empty)")
	service := flag.String("service", "", "service to select")
	provider := flag.String("provider", "", "provider to select")
	locale := flag.String("locale", "en", "display locale (en or ar)")
	renderer := flag.String("renderer", html.Name, "output format: renderer name (html, json) or media type (text/html, application/json)")
	page := flag.Bool("page", false, "wrap html output in a full page")
	validate := flag.Bool("validate", false, "validate the prefilled values")
	preset := flag.String("preset", "", "JSON preset file patching labels and text")
	output := flag.String("output", "", "output file (stdout if empty)")
	values := valueFlags{}
	flag.Var(values, "value", "prefill a field as key=value (repeatable)")
	flag.Parse()

	ctx := context.Background()

	gen, err := newOrchestrator(*page, *preset)
	if err != nil {
		log.Fatalf("Failed to configure preview: %v", err)
	}

	out, err := gen.Generate(ctx, orchestrator.Request{
		Source:   sendmoney.SourceFor(*catalogPath),
		Locale:   schema.ParseLocale(*locale),
		Service:  *service,
		Provider: *provider,
		Values:   values,
		Validate: *validate,
		Renderer: *renderer,
	})
	if err != nil {
		log.Fatalf("Failed to generate form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

func newOrchestrator(page bool, presetPath string) (*orchestrator.Orchestrator, error) {
	bundle := i18n.MustBundle()

	htmlRenderer, err := html.New(html.WithTranslator(bundle), html.WithFullPage(page))
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(jsonview.New())

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithTranslator(bundle),
	}
	if presetPath != "" {
		data, err := os.ReadFile(presetPath)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, sendmoney.WithTransformer(transformer))
	}
	return sendmoney.NewOrchestrator(options...), nil
}
