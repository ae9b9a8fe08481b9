package pipeline

import (
	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/docgen"
	"github.com/dn-m/documentarian/internal/git"
	"github.com/dn-m/documentarian/internal/manifest"
	"github.com/dn-m/documentarian/internal/markdown"
	"github.com/dn-m/documentarian/internal/toolexec"
)

// DefaultDeps wires the real tools: swift for the manifest, SourceKitten and
// jazzy for module documentation, goldmark for README abstracts. Repo,
// Recorder and Progress are left for the caller.
func DefaultDeps(cfg *config.Config, runner toolexec.Runner) Deps {
	base := cfg.Package.Directory
	deps := Deps{
		Source: &manifest.SwiftPMSource{
			Runner: runner,
			Swift:  cfg.Tools.Swift.Binary,
			Dir:    base,
		},
		Extractor: &docgen.SourceKitten{
			Runner: runner,
			Binary: docgen.ResolveTool(base, cfg.Tools.SourceKitten.Binary),
		},
		Renderer: &docgen.Jazzy{
			Runner: runner,
			Binary: docgen.ResolveTool(base, cfg.Tools.Jazzy.Binary),
		},
		Abstracts: markdown.New(markdown.Options{Unsafe: true}),
	}
	if config.Enabled(cfg.Tools.SourceKitten.Bootstrap, true) {
		deps.Bootstrap = docgen.NewBootstrap(cfg, git.NewClient(nil), runner)
	}
	return deps
}
