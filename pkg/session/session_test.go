package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/session"
	"github.com/goliatone/go-sendmoney/pkg/store"
	"github.com/goliatone/go-sendmoney/pkg/transaction"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

func topupCatalog() *schema.Catalog {
	return &schema.Catalog{
		Title: schema.Text("Send Money"),
		Services: []schema.Service{
			{
				Name:  "Mobile Topup",
				Label: schema.Text("Mobile Topup"),
				Providers: []schema.Provider{
					{
						ID:   "carrier_a",
						Name: "Carrier A",
						Fields: []schema.FieldSchema{
							{Name: "msisdn", Label: schema.Text("Mobile"), Kind: schema.FieldKindPhoneNumber, Pattern: "^05[0-9]{8}$"},
							{Name: "amount", Label: schema.Text("Amount"), Kind: schema.FieldKindNumericAmount, MaxLength: 4},
						},
					},
					{
						ID:   "carrier_b",
						Name: "Carrier B",
						Fields: []schema.FieldSchema{
							{Name: "amount", Label: schema.Text("Amount"), MaxLength: 5, Pattern: "^[0-9]+$"},
						},
					},
				},
			},
			{
				Name:  "Bank Transfer",
				Label: schema.Text("Bank Transfer"),
				Providers: []schema.Provider{
					{ID: "bank", Name: "Bank", Fields: []schema.FieldSchema{
						{Name: "iban", Label: schema.Text("IBAN")},
						{Label: schema.Text("Comment")},
						{Name: "amount", Label: schema.Text("Amount")},
					}},
				},
			},
		},
	}
}

func fixedID(id string) transaction.IDFunc {
	return func() string { return id }
}

type failingAppender struct {
	err   error
	calls int
}

func (f *failingAppender) Append(context.Context, transaction.Record) error {
	f.calls++
	return f.err
}

func TestSelectServiceThenProvider(t *testing.T) {
	s := session.New(topupCatalog())
	if s.State() != session.StateNoSelection {
		t.Fatalf("initial state = %s", s.State())
	}

	if !s.SelectService("Mobile Topup") {
		t.Fatalf("expected service to be selected")
	}
	if !s.SelectProvider("Carrier A") {
		t.Fatalf("expected provider to be selected")
	}

	provider, ok := s.SelectedProvider()
	if !ok || provider.ID != "carrier_a" {
		t.Fatalf("selected provider = %+v, %v", provider, ok)
	}
	if len(s.Values()) != 0 {
		t.Fatalf("values must be empty after selection, got %v", s.Values())
	}
	if s.State() != session.StateProviderSelected {
		t.Fatalf("state = %s", s.State())
	}
}

func TestSelectionChangesClearValues(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier A")
	if err := s.SetFieldValue("msisdn", "0501234567"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	s.SelectProvider("Carrier B")
	if len(s.Values()) != 0 {
		t.Fatalf("provider change must clear values, got %v", s.Values())
	}

	_ = s.SetFieldValue("amount", "1")
	s.SelectService("Mobile Topup")
	if len(s.Values()) != 0 {
		t.Fatalf("reselecting the service must clear values, got %v", s.Values())
	}
	if _, ok := s.SelectedProvider(); ok {
		t.Fatalf("reselecting the service must clear the provider")
	}
	if s.State() != session.StateServiceSelected {
		t.Fatalf("state = %s", s.State())
	}
}

func TestSelectServiceIsIdempotent(t *testing.T) {
	once := session.New(topupCatalog(), session.WithID("a"))
	once.SelectService("Mobile Topup")

	twice := session.New(topupCatalog(), session.WithID("a"))
	twice.SelectService("Mobile Topup")
	twice.SelectService("Mobile Topup")

	type view struct {
		State    session.State
		Service  schema.Service
		Provider bool
		Values   map[string]string
	}
	snapshot := func(s *session.Session) view {
		service, _ := s.SelectedService()
		_, hasProvider := s.SelectedProvider()
		return view{State: s.State(), Service: service, Provider: hasProvider, Values: s.Values()}
	}
	if diff := cmp.Diff(snapshot(once), snapshot(twice)); diff != "" {
		t.Fatalf("state differs after repeated selection (-once +twice):\n%s", diff)
	}
	if snapshot(twice).Provider || len(snapshot(twice).Values) != 0 {
		t.Fatalf("provider must be unset and values empty")
	}
}

func TestUnknownProviderIsANoOp(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := session.New(topupCatalog(), session.WithLogger(logger))
	s.SelectService("Mobile Topup")

	if s.SelectProvider("Carrier Z") {
		t.Fatalf("unknown provider must not be selected")
	}
	if _, ok := s.SelectedProvider(); ok {
		t.Fatalf("provider must stay unset")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Message != "provider not found" {
		t.Fatalf("expected provider not found warning, got %+v", entry)
	}
	if entry.Data["session"] != s.ID() || entry.Data["component"] != "session" {
		t.Fatalf("log entry missing correlation fields: %v", entry.Data)
	}
}

func TestSelectProviderWithoutServiceIsLoggedNoOp(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := session.New(topupCatalog(), session.WithLogger(logger))

	if s.SelectProvider("Carrier A") {
		t.Fatalf("provider selection without a service must be ignored")
	}
	if s.State() != session.StateNoSelection {
		t.Fatalf("state = %s", s.State())
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("expected a warning")
	}
}

func TestUnknownServiceClearsSelection(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Mobile Topup")
	if s.SelectService("Gift Cards") {
		t.Fatalf("unknown service must not be selected")
	}
	if _, ok := s.SelectedService(); ok || s.State() != session.StateNoSelection {
		t.Fatalf("unknown service must leave no selection, state %s", s.State())
	}
}

func TestPreconditions(t *testing.T) {
	s := session.New(topupCatalog())

	_, err := s.ValidateAndCollect()
	if !errors.Is(err, session.ErrNoService) || !errors.Is(err, session.ErrPrecondition) {
		t.Fatalf("expected ErrNoService precondition, got %v", err)
	}

	s.SelectService("Mobile Topup")
	if err := s.SetFieldValue("amount", "1"); !errors.Is(err, session.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	_, err = s.ValidateAndCollect()
	if !errors.Is(err, session.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	var validationErr *session.ValidationError
	if errors.As(err, &validationErr) {
		t.Fatalf("precondition must not be reported as validation failure")
	}
}

func TestNoCatalogSession(t *testing.T) {
	s := session.New(nil)

	if !errors.Is(s.Err(), session.ErrNoCatalog) {
		t.Fatalf("Err() = %v", s.Err())
	}
	if s.SelectService("Mobile Topup") {
		t.Fatalf("selection must fail without catalog")
	}
	if err := s.SetFieldValue("x", "y"); !errors.Is(err, session.ErrNoCatalog) {
		t.Fatalf("SetFieldValue err = %v", err)
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, session.ErrNoCatalog) {
		t.Fatalf("Submit err = %v", err)
	}
}

func TestSinglePatternFailure(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier B")
	_ = s.SetFieldValue("amount", "12a")

	_, err := s.ValidateAndCollect()
	var validationErr *session.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []session.FieldFailure{{
		Key:     "amount",
		Index:   0,
		Reason:  validation.ReasonPattern,
		Message: "Amount has an invalid format",
	}}
	if diff := cmp.Diff(want, validationErr.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.Failures()); diff != "" {
		t.Fatalf("recorded failures mismatch (-want +got):\n%s", diff)
	}
	if s.Value("amount") != "12a" {
		t.Fatalf("failed validation must keep entered values")
	}
}

func TestValidationCollectsAllFailures(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier A")
	_ = s.SetFieldValue("msisdn", "0601234567")
	_ = s.SetFieldValue("amount", "12345")

	_, err := s.ValidateAndCollect()
	var validationErr *session.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got := validationErr.ByKey()
	if got["msisdn"].Reason != validation.ReasonPattern || got["amount"].Reason != validation.ReasonMaxLength {
		t.Fatalf("unexpected failures %+v", validationErr.Failures)
	}
	if _, ok := s.Failure("amount"); !ok {
		t.Fatalf("failure for amount must be retained")
	}
}

func TestMobileTopupScenario(t *testing.T) {
	ctx := context.Background()
	log, err := transaction.NewLog(store.NewMemory())
	if err != nil {
		t.Fatalf("new log: %v", err)
	}
	s := session.New(topupCatalog(), session.WithAppender(log), session.WithIDFunc(fixedID("AbC123xYz9")))

	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier A")
	_ = s.SetFieldValue("msisdn", "0501234567")
	_ = s.SetFieldValue("amount", "100")

	record, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := transaction.Record{
		ID:           "AbC123xYz9",
		ServiceName:  "Mobile Topup",
		ProviderName: "Carrier A",
		FormData:     map[string]string{"msisdn": "0501234567", "amount": "100"},
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if s.State() != session.StateSubmitted {
		t.Fatalf("state = %s", s.State())
	}

	stored, err := log.List(ctx)
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored = %v, %v", stored, err)
	}

	if s.SelectService("Mobile Topup") {
		t.Fatalf("submitted session must reject new selections")
	}
	if err := s.SetFieldValue("amount", "5"); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if _, err := s.Submit(ctx); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on resubmit, got %v", err)
	}
}

func TestRecordKeysMatchNamedFields(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Bank Transfer")
	s.SelectProvider("Bank")
	_ = s.SetFieldValue("iban", "  SA00  ")
	_ = s.SetFieldValue(schema.FieldKey(1, schema.FieldSchema{}), "unnamed comment")
	_ = s.SetFieldValue("amount", "10")

	record, err := s.ValidateAndCollect()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := map[string]string{"iban": "SA00", "amount": "10"}
	if diff := cmp.Diff(want, record.FormData); diff != "" {
		t.Fatalf("formData mismatch (-want +got):\n%s", diff)
	}
}

func TestUnnamedFieldStillValidated(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Bank Transfer")
	s.SelectProvider("Bank")
	_ = s.SetFieldValue("iban", "SA00")
	_ = s.SetFieldValue("amount", "10")

	_, err := s.ValidateAndCollect()
	var validationErr *session.ValidationError
	if !errors.As(err, &validationErr) || len(validationErr.Failures) != 1 || validationErr.Failures[0].Key != "#1" {
		t.Fatalf("expected failure on unnamed field, got %v", err)
	}
}

func TestFailedAppendKeepsSessionOpen(t *testing.T) {
	appender := &failingAppender{err: errors.New("disk full")}
	s := session.New(topupCatalog(), session.WithAppender(appender))
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier B")
	_ = s.SetFieldValue("amount", "42")

	if _, err := s.Submit(context.Background()); !errors.Is(err, appender.err) {
		t.Fatalf("expected append error, got %v", err)
	}
	if s.State() != session.StateProviderSelected {
		t.Fatalf("failed append must not close the session, state %s", s.State())
	}

	appender.err = nil
	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if appender.calls != 2 || s.State() != session.StateSubmitted {
		t.Fatalf("calls=%d state=%s", appender.calls, s.State())
	}
}

func TestSubmitWithoutTransactionLog(t *testing.T) {
	s := session.New(topupCatalog())
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier B")
	_ = s.SetFieldValue("amount", "42")

	if _, err := s.Submit(context.Background()); !errors.Is(err, session.ErrNoTransactionLog) {
		t.Fatalf("expected ErrNoTransactionLog, got %v", err)
	}
}

func TestBrokenPatternIsLoggedAndIgnored(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	catalog := &schema.Catalog{Services: []schema.Service{{
		Name: "svc",
		Providers: []schema.Provider{{Name: "p", Fields: []schema.FieldSchema{
			{Name: "code", Pattern: "([0-9"},
		}}},
	}}}
	s := session.New(catalog, session.WithLogger(logger))
	s.SelectService("svc")
	s.SelectProvider("p")
	_ = s.SetFieldValue("code", "anything")

	if _, err := s.ValidateAndCollect(); err != nil {
		t.Fatalf("broken pattern must not fail validation: %v", err)
	}
	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "invalid validation pattern ignored" && entry.Data["pattern"] == "([0-9" {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected invalid pattern warning")
	}
}

func TestArabicValidationMessagesUseArabicLabels(t *testing.T) {
	catalog := &schema.Catalog{Services: []schema.Service{{
		Name: "svc",
		Providers: []schema.Provider{{Name: "p", Fields: []schema.FieldSchema{
			{Name: "amount", Label: schema.LocalizedText{En: "Amount", Ar: "المبلغ"}},
		}}},
	}}}
	s := session.New(catalog, session.WithLocale(schema.LocaleArabic))
	s.SelectService("svc")
	s.SelectProvider("p")

	_, err := s.ValidateAndCollect()
	var validationErr *session.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error")
	}
	if got := validationErr.Failures[0].Message; got != "المبلغ is required" {
		t.Fatalf("unexpected message %q", got)
	}
}
