// Package i18n resolves static interface strings for the active locale.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sendmoney/pkg/schema"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var (
	// ErrMissingTranslation is returned when neither the requested nor the
	// fallback locale defines a key.
	ErrMissingTranslation = errors.New("i18n: missing translation")
	// ErrMissingTranslator is reported when a lookup runs without a translator.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
)

// Translator resolves a message key for a locale. Arguments are applied to
// the message with fmt verbs.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingHandler decides what is displayed when a lookup fails.
type MissingHandler func(locale, key string, args []any, err error) string

// Option configures a Bundle.
type Option func(*Bundle)

// WithFallback sets the locale consulted when a key is missing.
func WithFallback(locale schema.Locale) Option {
	return func(b *Bundle) {
		if locale != "" {
			b.fallback = locale
		}
	}
}

// WithFS loads bundles from fsys instead of the embedded locales. Files are
// named <locale>.yaml.
func WithFS(fsys fs.FS, dir string) Option {
	return func(b *Bundle) {
		if fsys != nil {
			b.fsys = fsys
			b.dir = dir
		}
	}
}

// WithMessages merges extra messages for a locale on top of the files.
func WithMessages(locale schema.Locale, messages map[string]string) Option {
	return func(b *Bundle) {
		if b.extra == nil {
			b.extra = make(map[schema.Locale]map[string]string)
		}
		dst := b.extra[locale]
		if dst == nil {
			dst = make(map[string]string, len(messages))
			b.extra[locale] = dst
		}
		for k, v := range messages {
			dst[k] = v
		}
	}
}

// Bundle is a YAML-backed Translator with one message table per locale.
type Bundle struct {
	fsys     fs.FS
	dir      string
	fallback schema.Locale
	extra    map[schema.Locale]map[string]string
	messages map[schema.Locale]map[string]string
}

// NewBundle loads every locale file and returns a ready Translator.
func NewBundle(options ...Option) (*Bundle, error) {
	b := &Bundle{
		fsys:     embeddedLocales,
		dir:      "locales",
		fallback: schema.DefaultLocale,
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}

	messages, err := loadMessages(b.fsys, b.dir)
	if err != nil {
		return nil, err
	}
	for locale, extra := range b.extra {
		dst := messages[locale]
		if dst == nil {
			dst = make(map[string]string, len(extra))
			messages[locale] = dst
		}
		for k, v := range extra {
			dst[k] = v
		}
	}
	b.messages = messages
	return b, nil
}

// MustBundle is NewBundle for the embedded locales, panicking on error.
func MustBundle() *Bundle {
	b, err := NewBundle()
	if err != nil {
		panic(err)
	}
	return b
}

// Translate implements Translator. A key missing from locale is looked up in
// the fallback locale before ErrMissingTranslation is returned.
func (b *Bundle) Translate(locale, key string, args ...any) (string, error) {
	if b == nil {
		return "", ErrMissingTranslator
	}
	key = strings.TrimSpace(key)
	active := schema.ParseLocale(locale)

	msg, ok := b.lookup(active, key)
	if !ok && active != b.fallback {
		msg, ok = b.lookup(b.fallback, key)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, active)
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg, nil
}

// Locales lists the locales that have a message table.
func (b *Bundle) Locales() []schema.Locale {
	out := make([]schema.Locale, 0, len(b.messages))
	for locale := range b.messages {
		out = append(out, locale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Bundle) lookup(locale schema.Locale, key string) (string, bool) {
	table := b.messages[locale]
	if table == nil {
		return "", false
	}
	msg, ok := table[key]
	if !ok || strings.TrimSpace(msg) == "" {
		return "", false
	}
	return msg, true
}

// Text resolves key through t, returning the key itself when no message is
// available.
func Text(t Translator, locale schema.Locale, key string, args ...any) string {
	var fallback string
	return Lookup(t, locale, key, fallback, args...)
}

// Lookup resolves key through t. When the lookup fails, fallback is formatted
// with args and returned; an empty fallback yields the key.
func Lookup(t Translator, locale schema.Locale, key, fallback string, args ...any) string {
	if t != nil {
		if msg, err := t.Translate(locale.String(), key, args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if strings.TrimSpace(fallback) == "" {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(fallback, args...)
	}
	return fallback
}

func loadMessages(fsys fs.FS, dir string) (map[schema.Locale]map[string]string, error) {
	pattern := "*.yaml"
	if dir != "" {
		pattern = path.Join(dir, pattern)
	}
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("i18n: list locale files: %w", err)
	}

	out := make(map[schema.Locale]map[string]string, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", file, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", file, err)
		}
		table := make(map[string]string)
		flatten("", raw, table)

		locale := schema.Locale(strings.TrimSuffix(path.Base(file), path.Ext(file)))
		out[locale] = table
	}
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
