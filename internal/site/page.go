package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"

	"github.com/dn-m/documentarian/internal/logfields"
)

//go:embed templates/page.html.tmpl
var embeddedTemplates embed.FS

const pageTemplateName = "templates/page.html.tmpl"

// Crumb is one breadcrumb; the current page's crumb has no link.
type Crumb struct {
	Label string
	Link  string
}

// PageOptions are the values that vary between the home page and package pages.
type PageOptions struct {
	Title       string
	AssetsPath  string // relative to the page being written
	HomeLink    string
	Breadcrumbs []Crumb
	ProjectName string
	ProjectURL  string
	GitHubURL   string
	Year        int
}

type pageData struct {
	PageOptions
	Navigation Navigation
	Abstract   template.HTML
}

// loadTemplate parses the override at path, or the embedded page template when path is empty.
func loadTemplate(path string) (*template.Template, error) {
	if path == "" {
		tmpl, err := template.ParseFS(embeddedTemplates, pageTemplateName)
		if err != nil {
			// Embedded template is part of the binary; failure is a programmer error.
			panic(fmt.Sprintf("embedded page template: %v", err))
		}
		return tmpl, nil
	}
	// #nosec G304 -- template override path comes from configuration.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page template: %w", err)
	}
	tmpl, err := template.New("page").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse page template %s: %w", path, err)
	}
	slog.Debug("Loaded page template override", logfields.Path(path))
	return tmpl, nil
}

func renderPage(tmpl *template.Template, opts PageOptions, nav Navigation, abstract template.HTML) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{PageOptions: opts, Navigation: nav, Abstract: abstract}); err != nil {
		return nil, fmt.Errorf("render page %q: %w", opts.Title, err)
	}
	return buf.Bytes(), nil
}
