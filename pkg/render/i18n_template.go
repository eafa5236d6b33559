package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is the key read from map data passed as the locale source.
	LocaleKey string
	// FuncName overrides the translator helper name ("translate").
	FuncName string
	// OnMissing builds the text used when a key has no message.
	OnMissing i18n.MissingHandler
}

// TemplateI18nFuncs returns helpers for template engines:
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//	direction(localeSrc) string
//
// localeSrc is either a locale string or a map holding one under LocaleKey,
// which lets templates pass the whole view.
func TemplateI18nFuncs(t i18n.Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		translateName: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := resolveLocale(localeSrc, localeKey)
			if t == nil {
				return onMissing(locale, key, params, i18n.ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(localeSrc any) string {
			return schema.ParseLocale(resolveLocale(localeSrc, localeKey)).String()
		},
		"direction": func(localeSrc any) string {
			return schema.ParseLocale(resolveLocale(localeSrc, localeKey)).Direction()
		},
	}
}

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

func resolveLocale(src any, key string) string {
	switch data := src.(type) {
	case nil:
		return ""
	case string:
		return data
	case schema.Locale:
		return data.String()
	case map[string]string:
		return data[key]
	case map[string]any:
		v, ok := data[key]
		if !ok || v == nil {
			return ""
		}
		if str, ok := v.(string); ok {
			return str
		}
		return strings.TrimSpace(fmt.Sprint(v))
	case FormView:
		return data.Locale.String()
	case *FormView:
		if data == nil {
			return ""
		}
		return data.Locale.String()
	default:
		return ""
	}
}
