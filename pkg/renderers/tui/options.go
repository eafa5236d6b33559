package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sendmoney/pkg/auth"
	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/transaction"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

// OutputFormat controls how Renderer serialises collected values.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by field key.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one "key: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds message prefixes applied by the app.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme marks errors without decorating plain messages.
var DefaultTheme = Theme{ErrorPrefix: "✗ "}

// Option configures the Renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialisation format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// AppOption configures an App.
type AppOption func(*App)

// WithDriver sets the prompt driver.
func WithDriver(driver PromptDriver) AppOption {
	return func(a *App) {
		if driver != nil {
			a.driver = driver
		}
	}
}

// WithTranslator sets the translator for interface text.
func WithTranslator(t i18n.Translator) AppOption {
	return func(a *App) {
		a.translator = t
	}
}

// WithLocale sets the starting locale.
func WithLocale(locale schema.Locale) AppOption {
	return func(a *App) {
		if locale != "" {
			a.locale = locale
		}
	}
}

// WithAuthenticator sets the sign-in check.
func WithAuthenticator(authenticator auth.Authenticator) AppOption {
	return func(a *App) {
		a.authenticator = authenticator
	}
}

// WithCatalog sets how the catalog is obtained each time the send-money
// screen opens.
func WithCatalog(fn CatalogFunc) AppOption {
	return func(a *App) {
		a.catalog = fn
	}
}

// WithTransactionLog sets both the append target and the history source.
func WithTransactionLog(log TransactionLog) AppOption {
	return func(a *App) {
		a.appender = log
		a.history = log
	}
}

// WithAppender overrides the append target, for example with a metrics
// wrapper. Apply it after WithTransactionLog.
func WithAppender(appender transaction.Appender) AppOption {
	return func(a *App) {
		if appender != nil {
			a.appender = appender
		}
	}
}

// WithValidator sets the validator shared by every session.
func WithValidator(v *validation.Validator) AppOption {
	return func(a *App) {
		a.validator = v
	}
}

// WithObserver receives validation errors, for counting.
func WithObserver(observer ValidationObserver) AppOption {
	return func(a *App) {
		a.observer = observer
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) AppOption {
	return func(a *App) {
		a.theme = theme
	}
}

// WithIDFunc overrides record id generation.
func WithIDFunc(fn transaction.IDFunc) AppOption {
	return func(a *App) {
		a.newID = fn
	}
}
