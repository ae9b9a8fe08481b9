package docgen

import (
	"context"

	"github.com/dn-m/documentarian/internal/toolexec"
)

// RenderOptions is everything the renderer is told about one module.
// Empty paths are left off the command line.
type RenderOptions struct {
	Config         string // renderer config file
	Output         string // module documentation directory
	AbstractSource string // glob of markdown abstracts, expanded by the renderer
	Theme          string
	DisableSearch  bool
	Clean          bool
	Author         string
	AuthorURL      string
	RootURL        string
	Readme         string
	Module         string
	SourceFile     string // symbol dump
}

// RenderRequest runs the renderer for one module from within the package directory.
type RenderRequest struct {
	PackageDir string
	Options    RenderOptions
}

// Renderer turns a symbol dump into an HTML tree.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) error
}

// Jazzy renders with the jazzy gem.
type Jazzy struct {
	Runner toolexec.Runner
	Binary string
}

func (j *Jazzy) Render(ctx context.Context, req RenderRequest) error {
	_, err := j.Runner.Run(ctx, toolexec.Command{
		Tool:   "jazzy",
		Module: req.Options.Module,
		Name:   j.Binary,
		Args:   JazzyArgs(req.Options),
		Dir:    req.PackageDir,
	})
	return err
}

// JazzyArgs builds the jazzy argument vector for opts.
func JazzyArgs(o RenderOptions) []string {
	var args []string
	add := func(flag, value string) {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	add("--author", o.Author)
	add("--author-url", o.AuthorURL)
	add("--module", o.Module)
	add("--sourcekitten-sourcefile", o.SourceFile)
	add("--config", o.Config)
	add("--output", o.Output)
	add("--root-url", o.RootURL)
	add("--theme", o.Theme)
	add("--readme", o.Readme)
	add("--abstract", o.AbstractSource)
	if o.DisableSearch {
		args = append(args, "--disable-search")
	}
	if o.Clean {
		args = append(args, "--clean")
	}
	return args
}
