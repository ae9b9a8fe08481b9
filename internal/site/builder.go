package site

import (
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dn-m/documentarian/internal/config"
	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/layout"
	"github.com/dn-m/documentarian/internal/logfields"
	"github.com/dn-m/documentarian/internal/manifest"
)

// AbstractRenderer converts a README-like file into an HTML fragment.
type AbstractRenderer interface {
	RenderFile(path string) (template.HTML, error)
}

// Builder writes index pages with the page template.
type Builder struct {
	tmpl      *template.Template
	abstracts AbstractRenderer
	docs      config.DocumentationConfig
}

// NewBuilder loads the page template (the configured override or the embedded default).
func NewBuilder(cfg *config.Config, abstracts AbstractRenderer) (*Builder, error) {
	tmpl, err := loadTemplate(cfg.Documentation.Template)
	if err != nil {
		return nil, err
	}
	return &Builder{tmpl: tmpl, abstracts: abstracts, docs: cfg.Documentation}, nil
}

// RenderAbstract renders a README. A missing file yields an empty abstract and a warning.
func (b *Builder) RenderAbstract(readme string) (template.HTML, error) {
	if readme == "" || b.abstracts == nil {
		return "", nil
	}
	html, err := b.abstracts.RenderFile(readme)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("README not found; index page abstract left empty", logfields.Path(readme))
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return html, nil
}

// HomeAbstract renders the configured home README, or the plain-text abstract when none is set.
func (b *Builder) HomeAbstract() (template.HTML, error) {
	if b.docs.HomeReadme != "" {
		return b.RenderAbstract(b.docs.HomeReadme)
	}
	return template.HTML(template.HTMLEscapeString(b.docs.HomeAbstract)), nil // #nosec G203 -- escaped above
}

// PackagePage returns the page options for the index of pkg.
func (b *Builder) PackagePage(pkg manifest.Package) PageOptions {
	return b.page(pkg.Name, 2, []Crumb{
		{Label: b.docs.ProjectName, Link: b.docs.ProjectURL},
		{Label: pkg.Name},
	})
}

// HomePage returns the page options for the project home page.
func (b *Builder) HomePage() PageOptions {
	return b.page("", 0, []Crumb{
		{Label: b.docs.ProjectName, Link: b.docs.ProjectURL},
		{Label: b.docs.ProjectName},
	})
}

func (b *Builder) page(name string, depth int, crumbs []Crumb) PageOptions {
	title := b.docs.ProjectName
	if name != "" {
		title += " | " + name
	}
	return PageOptions{
		Title:       title,
		AssetsPath:  assetsPath(b.docs.AssetsPath, depth),
		HomeLink:    homeLink(depth),
		Breadcrumbs: crumbs,
		ProjectName: b.docs.ProjectName,
		ProjectURL:  b.docs.ProjectURL,
		GitHubURL:   b.docs.GitHubURL,
		Year:        b.docs.Copyright,
	}
}

// WritePackageIndex overwrites <root>/Packages/<pkg>/index.html.
func (b *Builder) WritePackageIndex(pkg manifest.Package, root string, abstract template.HTML) error {
	out, err := renderPage(b.tmpl, b.PackagePage(pkg), PackageNavigation(pkg), abstract)
	if err != nil {
		return derrors.Wrap(err, derrors.CategorySite, derrors.SeverityFatal, "render package index").
			WithContext("path", layout.PackageIndexPath(pkg, root))
	}
	return writeIndex(layout.PackageIndexPath(pkg, root), out)
}

// WriteHome overwrites <root>/index.html with navigation over pkgs.
func (b *Builder) WriteHome(pkgs []manifest.Package, root string, abstract template.HTML) error {
	out, err := renderPage(b.tmpl, b.HomePage(), HomeNavigation(pkgs), abstract)
	if err != nil {
		return derrors.Wrap(err, derrors.CategorySite, derrors.SeverityFatal, "render home index").
			WithContext("path", layout.HomeIndexPath(root))
	}
	return writeIndex(layout.HomeIndexPath(root), out)
}

func writeIndex(target string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return &derrors.FilesystemError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
	}
	if err := os.WriteFile(target, content, 0o644); err != nil { // #nosec G306 -- published web content
		return &derrors.FilesystemError{Op: "write", Path: target, Err: err}
	}
	slog.Info("Wrote index page", logfields.Path(target))
	return nil
}

// assetsPath keeps absolute URLs and rooted paths, and walks relative ones back up to the root.
func assetsPath(assets string, depth int) string {
	if strings.Contains(assets, "://") || strings.HasPrefix(assets, "/") {
		return strings.TrimSuffix(assets, "/")
	}
	return layout.AssetsLink(assets, depth)
}

func homeLink(depth int) string {
	parts := make([]string, 0, depth+1)
	for range depth {
		parts = append(parts, "..")
	}
	return path.Join(append(parts, layout.IndexFile)...)
}
