// Package html renders a form view as an HTML form using pongo2 templates.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/render"
	rendertemplate "github.com/goliatone/go-sendmoney/pkg/render/template"
	"github.com/goliatone/go-sendmoney/pkg/render/template/pongo"
)

// Name is the registry name of the renderer.
const Name = "html"

const (
	formTemplate = "templates/form.tmpl"
	pageTemplate = "templates/page.tmpl"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	translator       i18n.Translator
	fullPage         bool
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/form.tmpl and templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a template engine. Translation helpers are
// only installed on the default engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator sets the translator behind the translate helper.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithFullPage wraps the form in a standalone HTML document with the
// embedded stylesheet.
func WithFullPage(enabled bool) Option {
	return func(cfg *config) {
		cfg.fullPage = enabled
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	fullPage  bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithTemplateFuncs(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, fullPage: cfg.fullPage}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view render.FormView) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form, err := r.templates.RenderTemplate(formTemplate, map[string]any{"view": view})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	if !r.fullPage {
		return []byte(form), nil
	}

	page, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"view":       view,
		"form":       form,
		"stylesheet": defaultStylesheet(),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(page), nil
}
