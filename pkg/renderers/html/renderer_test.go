package html_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/render"
	"github.com/goliatone/go-sendmoney/pkg/renderers/html"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/session"
	"github.com/goliatone/go-sendmoney/pkg/testsupport"
)

func describe(t *testing.T, s *session.Session) render.FormView {
	t.Helper()
	view, err := render.Describe(s, render.WithTranslator(i18n.MustBundle()))
	require.NoError(t, err)
	return view
}

func TestRenderer_Form(t *testing.T) {
	s := session.New(testsupport.TopupCatalog(), session.WithID("sess-1"))
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier A")
	require.NoError(t, s.SetFieldValue("msisdn", `05"<x>`))

	renderer, err := html.New(html.WithTranslator(i18n.MustBundle()))
	require.NoError(t, err)
	assert.Equal(t, "html", renderer.Name())
	assert.Equal(t, "text/html; charset=utf-8", renderer.ContentType())

	out, err := renderer.Render(context.Background(), describe(t, s))
	require.NoError(t, err)
	markup := string(out)

	assert.Contains(t, markup, `dir="ltr"`)
	assert.Contains(t, markup, `<input type="hidden" name="session" value="sess-1">`)
	assert.Contains(t, markup, `<option value="Mobile Topup" selected>Mobile Topup</option>`)
	assert.Contains(t, markup, `<option value="Carrier A" selected>Carrier A</option>`)
	assert.Contains(t, markup, `name="msisdn" type="tel" inputmode="tel" maxlength="10"`)
	assert.Contains(t, markup, `name="amount" type="text" inputmode="decimal" maxlength="4"`)
	assert.Contains(t, markup, `placeholder="05XXXXXXXX"`)
	assert.Contains(t, markup, `<button type="submit">Send</button>`)
	assert.NotContains(t, markup, `<x>`)
	assert.NotContains(t, markup, "<!DOCTYPE html>")
}

func TestRenderer_ErrorsAndPicker(t *testing.T) {
	s := session.New(testsupport.TopupCatalog())
	s.SelectService("Mobile Topup")
	s.SelectProvider("Carrier B")
	_, err := s.ValidateAndCollect()
	require.Error(t, err)

	view := describe(t, s)
	view.FormErrors = []string{"Provider offline"}

	renderer, err := html.New(html.WithTranslator(i18n.MustBundle()))
	require.NoError(t, err)
	out, err := renderer.Render(context.Background(), view)
	require.NoError(t, err)
	markup := string(out)

	assert.Contains(t, markup, `<select id="field-1" name="bundle" required>`)
	assert.Contains(t, markup, `<option value="weekly_5gb">Weekly 5GB</option>`)
	assert.Contains(t, markup, `<li>Bundle is required</li>`)
	assert.Contains(t, markup, `<li>Provider offline</li>`)
}

func TestRenderer_ArabicFullPage(t *testing.T) {
	s := session.New(testsupport.TopupCatalog(), session.WithLocale(schema.LocaleArabic))

	renderer, err := html.New(html.WithTranslator(i18n.MustBundle()), html.WithFullPage(true))
	require.NoError(t, err)
	out, err := renderer.Render(context.Background(), describe(t, s))
	require.NoError(t, err)
	markup := string(out)

	assert.Contains(t, markup, "<!DOCTYPE html>")
	assert.Contains(t, markup, `<html lang="ar" dir="rtl">`)
	assert.Contains(t, markup, ".sendmoney-form")
	assert.Contains(t, markup, "شحن رصيد الجوال")
	assert.NotContains(t, markup, `type="submit"`)
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer, err := html.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = renderer.Render(ctx, render.FormView{})
	assert.ErrorIs(t, err, context.Canceled)
}
