// Package session holds the state of one send-money form: the selected
// service and provider and the values entered so far. A Session is owned by
// a single goroutine and does no locking.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sendmoney/pkg/logging"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/transaction"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

// State is the position of a session in its lifecycle.
type State int

const (
	StateNoSelection State = iota
	StateServiceSelected
	StateProviderSelected
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateNoSelection:
		return "no_selection"
	case StateServiceSelected:
		return "service_selected"
	case StateProviderSelected:
		return "provider_selected"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Session.
type Option func(*Session)

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithLogger sets the logger. Entries carry the session id.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAppender sets where Submit persists records.
func WithAppender(appender transaction.Appender) Option {
	return func(s *Session) {
		s.appender = appender
	}
}

// WithIDFunc overrides record id generation.
func WithIDFunc(fn transaction.IDFunc) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLocale sets the locale used for validation messages.
func WithLocale(locale schema.Locale) Option {
	return func(s *Session) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithID sets the correlation id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session is a single form-filling attempt. It ends in StateSubmitted; a new
// Session is needed for the next request.
type Session struct {
	id        string
	catalog   *schema.Catalog
	service   *schema.Service
	provider  *schema.Provider
	values    map[string]string
	failures  []FieldFailure
	state     State
	locale    schema.Locale
	validator *validation.Validator
	appender  transaction.Appender
	newID     transaction.IDFunc
	logger    logrus.FieldLogger
}

// New starts a session over catalog. A nil catalog yields a session in the
// unusable no-catalog state where every operation reports ErrNoCatalog.
func New(catalog *schema.Catalog, options ...Option) *Session {
	s := &Session{
		catalog: catalog,
		values:  make(map[string]string),
		state:   StateNoSelection,
		locale:  schema.DefaultLocale,
		newID:   transaction.NewID,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}

	base := s.logger
	if base == nil {
		base = logging.Discard()
	}
	s.logger = base.WithFields(logrus.Fields{
		"component": "session",
		"session":   s.id,
	})

	switch {
	case s.validator == nil:
		s.validator = validation.New(
			validation.WithLocale(s.locale),
			validation.OnInvalidPattern(s.reportInvalidPattern),
		)
	case s.validator.Locale() != s.locale:
		s.validator = s.validator.ForLocale(s.locale)
	}

	if catalog == nil {
		s.logger.Warn("session created without a catalog")
	}
	return s
}

// ID returns the correlation id attached to log entries.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Locale returns the locale used for messages.
func (s *Session) Locale() schema.Locale { return s.locale }

// Catalog returns the catalog, or nil in the no-catalog state.
func (s *Session) Catalog() *schema.Catalog { return s.catalog }

// Err reports whether the session can still be operated on.
func (s *Session) Err() error {
	switch {
	case s.catalog == nil:
		return ErrNoCatalog
	case s.state == StateSubmitted:
		return ErrSessionClosed
	default:
		return nil
	}
}

// SelectedService returns the current service selection.
func (s *Session) SelectedService() (schema.Service, bool) {
	if s.service == nil {
		return schema.Service{}, false
	}
	return *s.service, true
}

// SelectedProvider returns the current provider selection.
func (s *Session) SelectedProvider() (schema.Provider, bool) {
	if s.provider == nil {
		return schema.Provider{}, false
	}
	return *s.provider, true
}

// Fields returns the fields of the selected provider in display order.
func (s *Session) Fields() []schema.FieldSchema {
	if s.provider == nil {
		return nil
	}
	return s.provider.Fields
}

// Values returns a copy of the entered values keyed by schema.FieldKey.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Value returns the raw value entered for key.
func (s *Session) Value(key string) string {
	return s.values[key]
}

// Failures returns the failures recorded by the last validation.
func (s *Session) Failures() []FieldFailure {
	return append([]FieldFailure(nil), s.failures...)
}

// Failure returns the last failure recorded for key.
func (s *Session) Failure(key string) (FieldFailure, bool) {
	for _, failure := range s.failures {
		if failure.Key == key {
			return failure, true
		}
	}
	return FieldFailure{}, false
}

// SelectService selects the service named name and clears the provider and
// every entered value, even when the same service is selected again. An
// unknown name leaves no service selected. It reports whether a service is
// now selected.
func (s *Session) SelectService(name string) bool {
	if err := s.Err(); err != nil {
		s.logger.WithError(err).WithField("service", name).Warn("select service ignored")
		return false
	}

	s.provider = nil
	s.resetValues()

	service, ok := schema.FindService(*s.catalog, name)
	if !ok {
		s.service = nil
		s.state = StateNoSelection
		s.logger.WithField("service", name).Warn("service not found")
		return false
	}
	s.service = &service
	s.state = StateServiceSelected
	s.logger.WithField("service", name).Debug("service selected")
	return true
}

// SelectProvider selects a provider of the selected service and clears every
// entered value. Without a selected service the call is a logged no-op. An
// unknown name leaves no provider selected. It reports whether a provider is
// now selected.
func (s *Session) SelectProvider(name string) bool {
	if err := s.Err(); err != nil {
		s.logger.WithError(err).WithField("provider", name).Warn("select provider ignored")
		return false
	}
	if s.service == nil {
		s.logger.WithError(ErrNoService).WithField("provider", name).Warn("select provider ignored")
		return false
	}

	s.resetValues()

	provider, ok := schema.FindProvider(*s.service, name)
	if !ok {
		s.provider = nil
		s.state = StateServiceSelected
		s.logger.WithFields(logrus.Fields{"service": s.service.Name, "provider": name}).Warn("provider not found")
		return false
	}
	s.provider = &provider
	s.state = StateProviderSelected
	s.logger.WithFields(logrus.Fields{"service": s.service.Name, "provider": name}).Debug("provider selected")
	return true
}

// SetFieldValue stores value under key without validating it.
func (s *Session) SetFieldValue(key, value string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.values[key] = value
	return nil
}

// ValidateAndCollect validates every field of the selected provider in
// declared order and, when all pass, builds the record. Failures on all
// fields are collected and also retained for Failures. Entered values are
// never discarded.
func (s *Session) ValidateAndCollect() (transaction.Record, error) {
	if err := s.ready(); err != nil {
		return transaction.Record{}, err
	}

	var failures []FieldFailure
	for i, field := range s.provider.Fields {
		key := schema.FieldKey(i, field)
		result := s.validator.Validate(field, s.values[key])
		if result.Valid() {
			continue
		}
		failures = append(failures, FieldFailure{
			Key:     key,
			Index:   i,
			Reason:  result.Reason,
			Message: result.Message,
		})
	}
	s.failures = failures
	if len(failures) > 0 {
		s.logger.WithField("failures", len(failures)).Debug("validation failed")
		return transaction.Record{}, &ValidationError{Failures: failures}
	}

	return transaction.Build(transaction.Snapshot{
		Service:  *s.service,
		Provider: *s.provider,
		Values:   s.values,
	}, s.newID), nil
}

// Submit validates, appends the record to the transaction log and closes the
// session. When the append fails the session stays open so the caller can
// retry.
func (s *Session) Submit(ctx context.Context) (transaction.Record, error) {
	record, err := s.ValidateAndCollect()
	if err != nil {
		return transaction.Record{}, err
	}
	if s.appender == nil {
		return transaction.Record{}, ErrNoTransactionLog
	}
	if err := s.appender.Append(ctx, record); err != nil {
		s.logger.WithError(err).Error("persist transaction")
		return transaction.Record{}, fmt.Errorf("session: persist record: %w", err)
	}

	s.state = StateSubmitted
	s.logger.WithFields(logrus.Fields{
		"transaction": record.ID,
		"service":     record.ServiceName,
		"provider":    record.ProviderName,
	}).Info("transaction submitted")
	return record, nil
}

func (s *Session) ready() error {
	if err := s.Err(); err != nil {
		return err
	}
	if s.service == nil {
		return ErrNoService
	}
	if s.provider == nil {
		return ErrNoProvider
	}
	return nil
}

func (s *Session) resetValues() {
	s.values = make(map[string]string)
	s.failures = nil
}

func (s *Session) reportInvalidPattern(field schema.FieldSchema, pattern string, err error) {
	s.logger.WithError(err).WithFields(logrus.Fields{
		"field":   field.Name,
		"pattern": pattern,
	}).Warn("invalid validation pattern ignored")
}
