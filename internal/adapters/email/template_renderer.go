package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"conferencecentral/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// executable is the subset of template behavior shared by html/template and
// text/template, so both variants render through the same path.
type executable interface {
	Execute(wr *bytes.Buffer, data any) error
}

type htmlTmpl struct{ t *htmltemplate.Template }

func (h htmlTmpl) Execute(wr *bytes.Buffer, data any) error { return h.t.Execute(wr, data) }

type textTmpl struct{ t *texttemplate.Template }

func (x textTmpl) Execute(wr *bytes.Buffer, data any) error { return x.t.Execute(wr, data) }

type templateRenderer struct{}

// NewTemplateRenderer returns a renderer backed by the embedded templates
// directory. Each logical template is three files: <name>_subject.txt,
// <name>.html, and <name>.txt.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{}
}

func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.renderFile(templateName+"_subject.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.renderFile(templateName+".html", data, true)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderFile(templateName+".txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func (r *templateRenderer) renderFile(name string, data any, escaped bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}

	var tmpl executable
	if escaped {
		t, err := htmltemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		tmpl = htmlTmpl{t}
	} else {
		t, err := texttemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		tmpl = textTmpl{t}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
