package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sendmoney/internal/catalog/loader"
	"github.com/goliatone/go-sendmoney/pkg/catalog"
	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/logging"
	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/renderers/html"
	"github.com/goliatone/go-sendmoney/pkg/renderers/jsonview"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/session"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom catalog loader.
func WithLoader(l catalog.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTranslator sets the translator for static interface strings. It is
// also handed to the default HTML renderer.
func WithTranslator(t i18n.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// WithTransformer registers a Transformer that can patch the view after it
// is described but before errors are applied and it is rendered.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger. Catalog lint issues are reported through it.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithValidator sets the validator used when a request asks for validation.
func WithValidator(v *validation.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// Orchestrator renders the send-money form for a selection described by a
// Request. Missing dependencies are initialised with the built-in
// implementations: the file/fs catalog loader and a registry holding the
// html and json renderers.
type Orchestrator struct {
	loader          catalog.Loader
	registry        *render.Registry
	defaultRenderer string
	translator      i18n.Translator
	transformer     Transformer
	validator       *validation.Validator
	logger          logrus.FieldLogger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the form to preview.
type Request struct {
	// Source identifies where the catalog lives. Optional when Catalog is
	// supplied.
	Source catalog.Source

	// Catalog bypasses the loader when the caller already holds one.
	Catalog *schema.Catalog

	// Locale selects the display language. Empty means the default locale.
	Locale schema.Locale

	// Service and Provider are the names to select, in that order. Either may
	// be empty to stop at an earlier state.
	Service  string
	Provider string

	// Values prefills fields keyed by field key. It requires a provider.
	Values map[string]string

	// Validate runs the validator over Values so failures appear on the
	// fields.
	Validate bool

	// Errors carries externally reported errors keyed by field path; unknown
	// paths become form-level messages.
	Errors map[string][]string

	// Hidden adds hidden inputs to the form.
	Hidden []render.HiddenField

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string
}

// Describe executes the load → select → describe part of the pipeline and
// returns the view without rendering it.
func (o *Orchestrator) Describe(ctx context.Context, req Request) (render.FormView, error) {
	if ctx == nil {
		return render.FormView{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return render.FormView{}, err
	}
	if err := o.ready(); err != nil {
		return render.FormView{}, err
	}

	cat, err := o.resolveCatalog(ctx, req)
	if err != nil {
		return render.FormView{}, err
	}

	s := session.New(&cat,
		session.WithLocale(req.Locale),
		session.WithLogger(o.logger),
		session.WithValidator(o.validator),
	)
	if err := o.applySelection(s, req); err != nil {
		return render.FormView{}, err
	}

	view, err := render.Describe(s,
		render.WithTranslator(o.translator),
		render.WithHiddenFields(req.Hidden...),
	)
	if err != nil {
		return render.FormView{}, fmt.Errorf("orchestrator: describe: %w", err)
	}
	if err := o.applyTransformer(ctx, &view); err != nil {
		return render.FormView{}, err
	}
	if len(req.Errors) > 0 {
		view = render.ApplyErrors(view, render.MapErrorPayload(view, req.Errors))
	}
	return view, nil
}

// Generate runs the full pipeline and returns the rendered bytes (HTML for
// the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	view, err := o.Describe(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) ready() error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) resolveCatalog(ctx context.Context, req Request) (schema.Catalog, error) {
	if req.Catalog != nil {
		return *req.Catalog, nil
	}
	src := req.Source
	if src == nil {
		src = catalog.DefaultSource()
	}
	cat, err := o.loader.Load(ctx, src)
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("orchestrator: load catalog: %w", err)
	}

	report := validation.LintCatalog(cat)
	for _, issue := range report.Issues {
		o.logger.WithFields(logrus.Fields{
			"catalog": src.Location(),
			"path":    issue.Path,
		}).Warn(issue.Message)
	}
	return cat, nil
}

func (o *Orchestrator) applySelection(s *session.Session, req Request) error {
	if req.Service == "" {
		if req.Provider != "" || len(req.Values) > 0 {
			return fmt.Errorf("orchestrator: %w", session.ErrNoService)
		}
		return nil
	}
	if !s.SelectService(req.Service) {
		return fmt.Errorf("orchestrator: service %q not found", req.Service)
	}

	if req.Provider == "" {
		if len(req.Values) > 0 {
			return fmt.Errorf("orchestrator: %w", session.ErrNoProvider)
		}
		return nil
	}
	if !s.SelectProvider(req.Provider) {
		return fmt.Errorf("orchestrator: provider %q not found for service %q", req.Provider, req.Service)
	}

	for key, value := range req.Values {
		if err := s.SetFieldValue(key, value); err != nil {
			return fmt.Errorf("orchestrator: set %q: %w", key, err)
		}
	}
	if !req.Validate {
		return nil
	}

	_, err := s.ValidateAndCollect()
	var verr *session.ValidationError
	if err != nil && !errors.As(err, &verr) {
		return fmt.Errorf("orchestrator: validate: %w", err)
	}
	return nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Resolve(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, view *render.FormView) error {
	if o.transformer == nil || view == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, view); err != nil {
		return fmt.Errorf("orchestrator: transform view: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}
	o.logger = o.logger.WithField("component", "orchestrator")

	if o.loader == nil {
		o.loader = loader.New(catalog.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithTranslator(o.translator))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(jsonview.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
