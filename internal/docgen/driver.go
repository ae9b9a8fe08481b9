package docgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dn-m/documentarian/internal/config"
	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/layout"
	"github.com/dn-m/documentarian/internal/logfields"
	"github.com/dn-m/documentarian/internal/manifest"
	"github.com/dn-m/documentarian/internal/metrics"
	"github.com/dn-m/documentarian/internal/workspace"
)

// Driver generates documentation for the modules of one package.
type Driver struct {
	extractor  Extractor
	renderer   Renderer
	scratch    *workspace.Manager
	packageDir string
	root       string
	workers    int
	policy     config.FailurePolicy
	jazzy      config.JazzyConfig
	recorder   metrics.Recorder
	progress   io.Writer
}

// NewDriver wires a driver from configuration. scratch must be created
// before Generate is called.
func NewDriver(cfg *config.Config, ex Extractor, r Renderer, scratch *workspace.Manager) *Driver {
	return &Driver{
		extractor:  ex,
		renderer:   r,
		scratch:    scratch,
		packageDir: cfg.Package.Directory,
		root:       cfg.Documentation.Root,
		workers:    max(1, cfg.Tools.Workers),
		policy:     cfg.Tools.FailurePolicy,
		jazzy:      cfg.Tools.Jazzy,
		recorder:   metrics.NoopRecorder{},
		progress:   io.Discard,
	}
}

// WithRecorder injects a metrics recorder.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r != nil {
		d.recorder = r
	}
	return d
}

// WithProgress prints one line per module to w.
func (d *Driver) WithProgress(w io.Writer) *Driver {
	if w != nil {
		d.progress = w
	}
	return d
}

// SourceDocsDir is the module's own documentation source directory, relative to the package.
func SourceDocsDir(module string) string {
	return filepath.Join("Sources", module, "Documentation")
}

// Generate extracts and renders one module into its documentation directory.
// The symbol dump is removed whether or not rendering succeeds.
func (d *Driver) Generate(ctx context.Context, mod manifest.Module, pkg manifest.Package) error {
	dump, err := d.scratch.DumpFile(mod.Name)
	if err != nil {
		return fmt.Errorf("symbol dump for %s: %w", mod.Name, err)
	}
	defer func() {
		if rmErr := d.scratch.Remove(dump); rmErr != nil {
			slog.Warn("Failed to remove symbol dump", logfields.Module(mod.Name), logfields.Error(rmErr))
		}
	}()

	output, err := filepath.Abs(layout.ModulePath(mod, pkg, d.root))
	if err != nil {
		return &derrors.FilesystemError{Op: "resolve", Path: layout.ModulePath(mod, pkg, d.root), Err: err}
	}

	start := time.Now()
	err = d.extractor.Extract(ctx, ExtractRequest{Module: mod.Name, PackageDir: d.packageDir, OutputFile: dump})
	d.recorder.ObserveToolDuration("sourcekitten", time.Since(start), err == nil)
	if err != nil {
		return err
	}

	start = time.Now()
	err = d.renderer.Render(ctx, RenderRequest{PackageDir: d.packageDir, Options: d.renderOptions(mod, dump, output)})
	d.recorder.ObserveToolDuration("jazzy", time.Since(start), err == nil)
	return err
}

func (d *Driver) renderOptions(mod manifest.Module, dump, output string) RenderOptions {
	docs := SourceDocsDir(mod.Name)
	opts := RenderOptions{
		Output:        output,
		Theme:         d.jazzy.Theme,
		DisableSearch: config.Enabled(d.jazzy.DisableSearch, true),
		Clean:         config.Enabled(d.jazzy.Clean, true),
		Author:        d.jazzy.Author,
		AuthorURL:     d.jazzy.AuthorURL,
		RootURL:       d.jazzy.RootURL,
		Module:        mod.Name,
		SourceFile:    dump,
	}
	// Optional inputs are only passed when present; jazzy aborts on a missing path.
	if d.exists(filepath.Join(docs, ".jazzy.yaml")) {
		opts.Config = filepath.Join(docs, ".jazzy.yaml")
	}
	if d.exists(docs) {
		opts.AbstractSource = filepath.Join(docs, "*")
	}
	if readme := filepath.Join("Sources", mod.Name, "README.md"); d.exists(readme) {
		opts.Readme = readme
	}
	return opts
}

func (d *Driver) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(d.packageDir, rel))
	return err == nil
}

// ModuleResult is the outcome of one module.
type ModuleResult struct {
	Module   string
	Duration time.Duration
	Err      error
	Skipped  bool // never started because an earlier module failed
}

// Summary lists per-module results in the order modules were given.
type Summary struct {
	Results []ModuleResult
}

// Generated names the modules that rendered successfully.
func (s Summary) Generated() []string {
	var out []string
	for _, r := range s.Results {
		if !r.Skipped && r.Err == nil {
			out = append(out, r.Module)
		}
	}
	return out
}

// Failed names the modules whose generation returned an error.
func (s Summary) Failed() []string {
	var out []string
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r.Module)
		}
	}
	return out
}

// GenerateAll generates modules with at most `workers` in flight and returns
// only after every started module has finished.
func (d *Driver) GenerateAll(ctx context.Context, modules []manifest.Module, pkg manifest.Package) (Summary, error) {
	failFast := d.policy != config.CollectAll
	if !failFast {
		slog.Warn("Failure policy collect_all: remaining modules continue after a failure instead of aborting the run",
			logfields.Package(pkg.Name))
	}
	d.recorder.SetWorkers(d.workers)

	results := make([]ModuleResult, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	runCtx := ctx
	if failFast {
		runCtx = gctx
	}

	for i, mod := range modules {
		results[i] = ModuleResult{Module: mod.Name, Skipped: true}
		if runCtx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if runCtx.Err() != nil {
				return nil
			}
			fmt.Fprintf(d.progress, "Generating documentation for the %s module\n", mod.Name)
			slog.Info("Generating module", logfields.Package(pkg.Name), logfields.Module(mod.Name))

			start := time.Now()
			err := d.Generate(runCtx, mod, pkg)
			elapsed := time.Since(start)
			results[i] = ModuleResult{Module: mod.Name, Duration: elapsed, Err: err}

			if err != nil {
				d.recorder.ObserveModuleDuration(pkg.Name, elapsed, metrics.ResultFatal)
				slog.Error("Module generation failed",
					logfields.Package(pkg.Name), logfields.Module(mod.Name), logfields.Error(err))
				if failFast {
					return err
				}
				return nil
			}
			d.recorder.ObserveModuleDuration(pkg.Name, elapsed, metrics.ResultSuccess)
			slog.Info("Module generated",
				logfields.Package(pkg.Name), logfields.Module(mod.Name),
				logfields.DurationMS(float64(elapsed.Milliseconds())))
			return nil
		})
	}

	err := g.Wait()
	summary := Summary{Results: results}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return summary, fmt.Errorf("module generation canceled: %w", ctxErr)
	}
	if err != nil {
		return summary, err
	}

	failed := summary.Failed()
	if len(failed) == 0 {
		return summary, nil
	}
	agg := &derrors.ModuleFailuresError{Failures: make(map[string]error, len(failed)), Order: failed}
	for _, r := range results {
		if r.Err != nil {
			agg.Failures[r.Module] = r.Err
		}
	}
	return summary, agg
}

// IsCanceled reports whether err stems from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
