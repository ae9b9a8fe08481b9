package commands

import "github.com/dn-m/documentarian/internal/pipeline"

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Modules []string `arg:"" optional:"" help:"Modules to document (default: every product in the manifest)"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	deps := pipeline.DefaultDeps(cfg, g.runner(cfg))
	return runPipeline(g.context(), g, cfg, deps, pipeline.Options{Mode: pipeline.ModeGenerate, Modules: c.Modules})
}
