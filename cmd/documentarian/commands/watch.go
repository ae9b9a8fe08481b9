package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dn-m/documentarian/internal/pipeline"
	"github.com/dn-m/documentarian/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Modules  []string `arg:"" optional:"" help:"Modules to regenerate (default: every product in the manifest)"`
	Debounce int      `help:"Quiet period in milliseconds before regenerating" default:"300"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	ctx := g.context()
	deps := pipeline.DefaultDeps(cfg, g.runner(cfg))
	if deps.Bootstrap != nil {
		// Fetch and build the extractor once instead of on every change.
		if err := deps.Bootstrap.Ensure(ctx); err != nil {
			return err
		}
		deps.Bootstrap = nil
	}

	rebuild := func(ctx context.Context) error {
		return runPipeline(ctx, g, cfg, deps, pipeline.Options{Mode: pipeline.ModeGenerate, Modules: w.Modules})
	}
	dir := cfg.Package.Directory
	watcher := watch.New(rebuild,
		filepath.Join(dir, "Sources"),
		filepath.Join(dir, "Package.swift"),
		filepath.Join(dir, cfg.Documentation.Readme),
	).WithDebounce(time.Duration(w.Debounce) * time.Millisecond)
	return watcher.Run(ctx)
}
