package commands

import (
	"fmt"

	"github.com/dn-m/documentarian/internal/pipeline"
)

// HomeCmd implements the 'home' command.
type HomeCmd struct{}

func (h *HomeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	n, err := pipeline.New(cfg, pipeline.DefaultDeps(cfg, g.runner(cfg))).RebuildHome(g.context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.stdout(), "Home index lists %d packages\n", n)
	return nil
}
