package commands

import (
	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/pipeline"
	"github.com/dn-m/documentarian/internal/publish"
)

// PublishCmd implements the default command.
type PublishCmd struct {
	Modules  []string `arg:"" optional:"" help:"Modules to document (default: every product in the manifest)"`
	SkipGate bool     `name:"skip-gate" help:"Publish even when the CI environment checks do not match (the token is still required)"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := config.ValidateForPublish(cfg); err != nil {
		return err
	}
	// Gate and credential are checked before anything is generated.
	repo, err := publish.New(cfg, publish.Options{Lookup: g.Lookup, SkipGate: p.SkipGate})
	if err != nil {
		return err
	}
	deps := pipeline.DefaultDeps(cfg, g.runner(cfg))
	deps.Repo = repo
	return runPipeline(g.context(), g, cfg, deps, pipeline.Options{Mode: pipeline.ModePublish, Modules: p.Modules})
}
