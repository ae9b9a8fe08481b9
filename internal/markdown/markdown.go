// Package markdown renders README files to HTML fragments for index page abstracts.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts GitHub-flavored markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// Options tunes the renderer.
type Options struct {
	// Unsafe passes raw HTML in the source through (READMEs commonly embed badges).
	Unsafe bool
}

// New returns a goldmark-backed renderer.
func New(opts Options) *Renderer {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return &Renderer{md: goldmark.New(rendererOpts...)}
}

// Render converts a markdown document to an HTML fragment.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	// #nosec G203 -- output of the markdown renderer is trusted page content.
	return template.HTML(buf.String()), nil
}

// RenderFile reads and renders the markdown file at path.
// A missing file is returned as an error wrapping fs.ErrNotExist.
func (r *Renderer) RenderFile(path string) (template.HTML, error) {
	// #nosec G304 -- README paths come from configuration.
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	return r.Render(src)
}
