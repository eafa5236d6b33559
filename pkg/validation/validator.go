// Package validation checks user input against field descriptors and lints
// catalogs for authoring mistakes.
package validation

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// Reason identifies the rule a value failed.
type Reason string

const (
	ReasonRequired  Reason = "required"
	ReasonMaxLength Reason = "max_length"
	ReasonPattern   Reason = "pattern"
)

const (
	keyRequired  = "validation.required"
	keyMaxLength = "validation.max_length"
	keyPattern   = "validation.pattern"

	defaultRequired  = "%s is required"
	defaultMaxLength = "%s must be at most %d characters"
	defaultPattern   = "%s has an invalid format"

	defaultLabel = "This field"
)

// Result is the outcome of validating one value. The zero value is valid.
type Result struct {
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return r.Reason == ""
}

// InvalidPatternFunc is called the first time a pattern fails to compile.
type InvalidPatternFunc func(field schema.FieldSchema, pattern string, err error)

// Option configures a Validator.
type Option func(*Validator)

// WithTranslator sets the translator used for rule messages.
func WithTranslator(t i18n.Translator) Option {
	return func(v *Validator) {
		v.translator = t
	}
}

// WithLocale sets the locale for labels and messages.
func WithLocale(locale schema.Locale) Option {
	return func(v *Validator) {
		if locale != "" {
			v.locale = locale
		}
	}
}

// OnInvalidPattern registers a hook for patterns that do not compile.
func OnInvalidPattern(fn InvalidPatternFunc) Option {
	return func(v *Validator) {
		v.onInvalidPattern = fn
	}
}

// Validator applies the field rules in order: required, max length, pattern.
// Compiled patterns are cached, so a Validator should be reused.
type Validator struct {
	translator       i18n.Translator
	locale           schema.Locale
	onInvalidPattern InvalidPatternFunc
	cache            *patternCache
}

type patternCache struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
	broken   map[string]error
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{
		locale: schema.DefaultLocale,
		cache: &patternCache{
			patterns: make(map[string]*regexp.Regexp),
			broken:   make(map[string]error),
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Locale returns the locale messages are produced in.
func (v *Validator) Locale() schema.Locale {
	return v.locale
}

// ForLocale returns a validator sharing this one's settings and pattern
// cache but producing messages for locale.
func (v *Validator) ForLocale(locale schema.Locale) *Validator {
	clone := *v
	if locale != "" {
		clone.locale = locale
	}
	return &clone
}

// Validate checks raw against field. The first failing rule wins. A non-empty
// custom error message on the field replaces the message of any rule.
func (v *Validator) Validate(field schema.FieldSchema, raw string) Result {
	value := Normalize(raw)
	label := v.label(field)

	if value == "" {
		return v.fail(field, ReasonRequired, keyRequired, defaultRequired, label)
	}
	if field.MaxLength > 0 && utf8.RuneCountInString(value) > field.MaxLength {
		return v.fail(field, ReasonMaxLength, keyMaxLength, defaultMaxLength, label, field.MaxLength)
	}
	if re := v.compile(field); re != nil && !re.MatchString(value) {
		return v.fail(field, ReasonPattern, keyPattern, defaultPattern, label)
	}
	return Result{}
}

// Normalize returns the form of raw that is validated and stored.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

func (v *Validator) fail(field schema.FieldSchema, reason Reason, key, fallback string, args ...any) Result {
	if custom := strings.TrimSpace(field.ErrorMessage); custom != "" {
		return Result{Reason: reason, Message: custom}
	}
	return Result{Reason: reason, Message: i18n.Lookup(v.translator, v.locale, key, fallback, args...)}
}

func (v *Validator) label(field schema.FieldSchema) string {
	if label := field.DisplayLabel(v.locale); label != "" {
		return label
	}
	return defaultLabel
}

// compile returns the anchored pattern for field, or nil when the field has
// no usable pattern.
func (v *Validator) compile(field schema.FieldSchema) *regexp.Regexp {
	pattern := strings.TrimSpace(field.Pattern)
	if pattern == "" {
		return nil
	}

	c := v.cache
	if c == nil {
		re, err := CompilePattern(pattern)
		if err != nil {
			return nil
		}
		return re
	}
	c.mu.Lock()
	if re, ok := c.patterns[pattern]; ok {
		c.mu.Unlock()
		return re
	}
	if _, ok := c.broken[pattern]; ok {
		c.mu.Unlock()
		return nil
	}

	re, err := CompilePattern(pattern)
	if err != nil {
		c.broken[pattern] = err
		c.mu.Unlock()
		if v.onInvalidPattern != nil {
			v.onInvalidPattern(field, pattern, err)
		}
		return nil
	}
	c.patterns[pattern] = re
	c.mu.Unlock()
	return re
}

// CompilePattern compiles pattern so that it must match the entire value.
// The pattern must compile on its own before it is anchored, otherwise an
// unbalanced group could close the anchoring wrapper early.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(`^(?:` + pattern + `)$`)
}
