package schema

import "strings"

// Locale identifies the active display language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"

	DefaultLocale = LocaleEnglish
)

// ParseLocale normalises a language tag such as "ar-AE" or "EN". Anything
// that is not Arabic resolves to English.
func ParseLocale(raw string) Locale {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(tag, "-_"); idx >= 0 {
		tag = tag[:idx]
	}
	if Locale(tag) == LocaleArabic {
		return LocaleArabic
	}
	return LocaleEnglish
}

// RightToLeft reports whether text in this locale runs right to left.
func (l Locale) RightToLeft() bool {
	return l == LocaleArabic
}

// Direction returns the HTML dir attribute value for the locale.
func (l Locale) Direction() string {
	if l.RightToLeft() {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string {
	if l == "" {
		return string(DefaultLocale)
	}
	return string(l)
}

// LocalizedText carries an English and an Arabic variant of a display string.
type LocalizedText struct {
	En string `json:"en,omitempty"`
	Ar string `json:"ar,omitempty"`
}

// Text builds a LocalizedText with identical variants.
func Text(value string) LocalizedText {
	return LocalizedText{En: value, Ar: value}
}

// Resolve picks the variant for locale. Arabic prefers ar then en; every
// other locale prefers en then ar. ok is false when both are blank.
func (t LocalizedText) Resolve(locale Locale) (string, bool) {
	primary, secondary := t.En, t.Ar
	if locale == LocaleArabic {
		primary, secondary = t.Ar, t.En
	}
	if value := strings.TrimSpace(primary); value != "" {
		return value, true
	}
	if value := strings.TrimSpace(secondary); value != "" {
		return value, true
	}
	return "", false
}

// In resolves the text for the given locale, returning "" when empty.
func (t LocalizedText) In(locale Locale) string {
	value, _ := t.Resolve(locale)
	return value
}

// IsZero reports whether neither variant carries text.
func (t LocalizedText) IsZero() bool {
	_, ok := t.Resolve(DefaultLocale)
	return !ok
}
