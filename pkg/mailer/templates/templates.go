package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

var subjects = map[string]string{
	"welcome":         "Welcome to {{.AppName}}",
	"account_deleted": "Your {{.AppName}} account was deleted",
}

// Render executes the subject, text and html variants of the named template.
// Data keys used by the templates: Name, AppName.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subjTpl, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["AppName"]; !ok {
		data["AppName"] = "DevConnector"
	}

	if subject, err = execText("subject", subjTpl, data); err != nil {
		return "", "", "", err
	}

	tt, err := texttpl.ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmpl.ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}
	return subject, tb.String(), hb.String(), nil
}

func execText(name, src string, data any) (string, error) {
	t, err := texttpl.New(name).Parse(src)
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
