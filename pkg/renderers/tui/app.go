package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sendmoney/pkg/auth"
	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/logging"
	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/session"
	"github.com/goliatone/go-sendmoney/pkg/transaction"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

// CatalogFunc returns the catalog for a new send-money session.
type CatalogFunc func(ctx context.Context) (*schema.Catalog, error)

// History lists saved transaction records.
type History interface {
	List(ctx context.Context) ([]transaction.Record, error)
}

// TransactionLog is both the append target and the history source.
type TransactionLog interface {
	transaction.Appender
	History
}

// ValidationObserver is told about every failed submission attempt.
type ValidationObserver interface {
	ObserveValidation(err error)
}

// App is the interactive program: sign in, then a dashboard leading to the
// send-money form, the saved requests and the language switch.
type App struct {
	driver        PromptDriver
	translator    i18n.Translator
	locale        schema.Locale
	authenticator auth.Authenticator
	catalog       CatalogFunc
	appender      transaction.Appender
	history       History
	validator     *validation.Validator
	observer      ValidationObserver
	logger        logrus.FieldLogger
	theme         Theme
	newID         transaction.IDFunc
}

// NewApp builds an App. A driver, an authenticator, a catalog source and a
// transaction log are required.
func NewApp(options ...AppOption) (*App, error) {
	a := &App{
		locale: schema.DefaultLocale,
		theme:  DefaultTheme,
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}
	a.logger = a.logger.WithField("component", "tui")

	switch {
	case a.driver == nil:
		return nil, ErrNoDriver
	case a.authenticator == nil:
		return nil, errors.New("tui: authenticator is required")
	case a.catalog == nil:
		return nil, errors.New("tui: catalog source is required")
	case a.appender == nil || a.history == nil:
		return nil, errors.New("tui: transaction log is required")
	}
	return a, nil
}

// Locale returns the active locale.
func (a *App) Locale() schema.Locale {
	return a.locale
}

// Run loops between sign-in and the dashboard until the user aborts. An
// abort is reported as ErrAborted.
func (a *App) Run(ctx context.Context) error {
	for {
		user, err := a.SignIn(ctx)
		if err != nil {
			return err
		}
		if err := a.Dashboard(ctx, user); err != nil {
			return err
		}
		a.logger.WithField("username", user.Username).Info("signed out")
	}
}

// SignIn prompts until the credentials are accepted.
func (a *App) SignIn(ctx context.Context) (auth.User, error) {
	if err := a.info(ctx, a.text("signin.title")); err != nil {
		return auth.User{}, err
	}
	for {
		username, err := a.driver.Input(ctx, InputConfig{Message: a.text("signin.username")})
		if err != nil {
			return auth.User{}, err
		}
		password, err := a.driver.Password(ctx, InputConfig{Message: a.text("signin.password")})
		if err != nil {
			return auth.User{}, err
		}

		user, err := a.authenticator.Authenticate(username, password)
		if err == nil {
			return user, a.info(ctx, a.text("app.welcome", user.Username))
		}
		key := auth.MessageKey(err)
		if key == "" {
			return auth.User{}, err
		}
		if err := a.fail(ctx, a.text(key)); err != nil {
			return auth.User{}, err
		}
	}
}

type dashboardAction int

const (
	actionSendMoney dashboardAction = iota
	actionSavedRequests
	actionChangeLanguage
	actionSignOut
)

// Dashboard shows the main menu until the user signs out.
func (a *App) Dashboard(ctx context.Context, user auth.User) error {
	for {
		actions := []dashboardAction{actionSendMoney, actionSavedRequests, actionChangeLanguage, actionSignOut}
		labels := []string{
			a.text("dashboard.send_money"),
			a.text("dashboard.saved_requests"),
			a.text("dashboard.change_language"),
			a.text("dashboard.sign_out"),
		}
		idx, err := a.driver.Select(ctx, SelectConfig{
			Message: a.text("dashboard.prompt"),
			Options: labels,
			Help:    a.text("app.welcome", user.Username),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		switch actions[idx] {
		case actionSendMoney:
			err = a.SendMoney(ctx)
		case actionSavedRequests:
			err = a.SavedRequests(ctx)
		case actionChangeLanguage:
			err = a.ChangeLanguage(ctx)
		case actionSignOut:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// SendMoney runs one send-money session. It returns to the dashboard after
// a submission, when the user backs out, or when the catalog is unavailable.
func (a *App) SendMoney(ctx context.Context) error {
	catalog, err := a.catalog(ctx)
	if err == nil && catalog == nil {
		err = session.ErrNoCatalog
	}
	if err != nil {
		a.logger.WithError(err).Error("catalog unavailable")
		return a.fail(ctx, a.text("send.catalog_unavailable"))
	}

	options := []session.Option{
		session.WithLocale(a.locale),
		session.WithAppender(a.appender),
		session.WithLogger(a.logger),
		session.WithValidator(a.validator),
	}
	if a.newID != nil {
		options = append(options, session.WithIDFunc(a.newID))
	}
	s := session.New(catalog, options...)

	view, err := a.describe(s)
	if err != nil {
		return err
	}
	if err := a.info(ctx, view.Title); err != nil {
		return err
	}

	for {
		chosen, err := a.chooseService(ctx, s)
		if err != nil || !chosen {
			return err
		}
		chosen, err = a.chooseProvider(ctx, s)
		if err != nil {
			return err
		}
		if !chosen {
			continue
		}
		return a.fillAndSubmit(ctx, s)
	}
}

func (a *App) chooseService(ctx context.Context, s *session.Session) (bool, error) {
	view, err := a.describe(s)
	if err != nil {
		return false, err
	}
	labels := make([]string, 0, len(view.Services)+1)
	for _, choice := range view.Services {
		labels = append(labels, choice.Label)
	}
	labels = append(labels, a.text("common.back"))

	idx, err := a.driver.Select(ctx, SelectConfig{Message: view.Strings.SelectService, Options: labels})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(view.Services) {
		return false, nil
	}
	return s.SelectService(view.Services[idx].Value), nil
}

func (a *App) chooseProvider(ctx context.Context, s *session.Session) (bool, error) {
	view, err := a.describe(s)
	if err != nil {
		return false, err
	}
	if len(view.Providers) == 0 {
		return false, a.fail(ctx, a.text("send.no_providers"))
	}
	labels := make([]string, 0, len(view.Providers)+1)
	for _, choice := range view.Providers {
		labels = append(labels, choice.Label)
	}
	labels = append(labels, a.text("common.back"))

	idx, err := a.driver.Select(ctx, SelectConfig{Message: view.Strings.SelectProvider, Options: labels})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(view.Providers) {
		return false, nil
	}
	return s.SelectProvider(view.Providers[idx].Value), nil
}

// fillAndSubmit prompts every field once, then only the failing ones until
// the record is saved or the user declines to send.
func (a *App) fillAndSubmit(ctx context.Context, s *session.Session) error {
	view, err := a.describe(s)
	if err != nil {
		return err
	}
	pending := view.Fields

	for {
		for _, field := range pending {
			for _, message := range field.Errors {
				if err := a.fail(ctx, message); err != nil {
					return err
				}
			}
			value, err := promptField(ctx, a.driver, field)
			if err != nil {
				return err
			}
			if err := s.SetFieldValue(field.Key, value); err != nil {
				return err
			}
		}

		send, err := a.driver.Confirm(ctx, ConfirmConfig{Message: a.text("send.confirm"), Default: true})
		if err != nil {
			return err
		}
		if !send {
			return nil
		}

		record, err := s.Submit(ctx)
		var verr *session.ValidationError
		switch {
		case err == nil:
			return a.info(ctx, a.text("send.success_title")+": "+a.text("send.money_sent", record.ID))
		case errors.As(err, &verr):
			if a.observer != nil {
				a.observer.ObserveValidation(err)
			}
			if err := a.fail(ctx, a.text("send.fix_errors")); err != nil {
				return err
			}
			view, err := a.describe(s)
			if err != nil {
				return err
			}
			pending = failingFields(view)
		default:
			a.logger.WithError(err).Error("submit failed")
			return a.fail(ctx, a.text("send.submit_failed", err.Error()))
		}
	}
}

func failingFields(view render.FormView) []render.FieldDescriptor {
	var out []render.FieldDescriptor
	for _, field := range view.Fields {
		if len(field.Errors) > 0 {
			out = append(out, field)
		}
	}
	return out
}

// SavedRequests lists the transaction log and shows the detail of the
// chosen record.
func (a *App) SavedRequests(ctx context.Context) error {
	records, err := a.history.List(ctx)
	if err != nil {
		a.logger.WithError(err).Error("list transactions")
		return a.fail(ctx, err.Error())
	}
	if len(records) == 0 {
		return a.info(ctx, a.text("history.empty"))
	}

	labels := make([]string, 0, len(records)+1)
	for _, record := range records {
		labels = append(labels, fmt.Sprintf("%s · %s · %s", record.ID, record.ServiceName, record.ProviderName))
	}
	labels = append(labels, a.text("common.back"))

	for {
		idx, err := a.driver.Select(ctx, SelectConfig{Message: a.text("history.title"), Options: labels, PageSize: 10})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(records) {
			return nil
		}
		detail, err := transaction.Detail(records[idx])
		if err != nil {
			return err
		}
		if err := a.info(ctx, a.text("transaction.details")+"\n"+detail); err != nil {
			return err
		}
	}
}

// ChangeLanguage switches between the supported locales after a
// confirmation.
func (a *App) ChangeLanguage(ctx context.Context) error {
	locales := []schema.Locale{schema.LocaleEnglish, schema.LocaleArabic}
	labels := make([]string, len(locales))
	current := 0
	for i, locale := range locales {
		labels[i] = a.text("language." + locale.String())
		if locale == a.locale {
			current = i
		}
	}
	idx, err := a.driver.Select(ctx, SelectConfig{
		Message:      a.text("language.confirm_title"),
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(locales) || locales[idx] == a.locale {
		return nil
	}

	ok, err := a.driver.Confirm(ctx, ConfirmConfig{Message: a.text("language.confirm_message", labels[idx])})
	if err != nil || !ok {
		return err
	}
	a.locale = locales[idx]
	a.logger.WithField("locale", a.locale).Info("language changed")
	return nil
}

func (a *App) describe(s *session.Session) (render.FormView, error) {
	return render.Describe(s, render.WithTranslator(a.translator))
}

func (a *App) text(key string, args ...any) string {
	return i18n.Text(a.translator, a.locale, key, args...)
}

func (a *App) info(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return a.driver.Info(ctx, a.theme.InfoPrefix+msg)
}

func (a *App) fail(ctx context.Context, msg string) error {
	return a.driver.Info(ctx, a.theme.ErrorPrefix+msg)
}
