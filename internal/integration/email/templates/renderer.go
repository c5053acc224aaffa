// Package templates renders operator alerts. Each alert kind has a
// <kind>.html and a <kind>.txt template fed with the alert payload.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Renderer holds the parsed alert templates.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.New("alerts").Option("missingkey=zero").ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	text, err := texttemplate.New("alerts").Option("missingkey=zero").ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{html: html, text: text}, nil
}

// Render produces the HTML and plain text bodies of an alert kind.
func (r *Renderer) Render(kind string, payload map[string]any) (string, string, error) {
	htmlName, textName := kind+".html", kind+".txt"
	if r.html.Lookup(htmlName) == nil || r.text.Lookup(textName) == nil {
		return "", "", fmt.Errorf("%w: %s", domainerror.ErrUnknownAlertKind, kind)
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, htmlName, payload); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", htmlName, err)
	}
	if err := r.text.ExecuteTemplate(&text, textName, payload); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", textName, err)
	}
	return html.String(), text.String(), nil
}
