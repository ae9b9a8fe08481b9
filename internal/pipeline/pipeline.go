package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/docgen"
	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/layout"
	"github.com/dn-m/documentarian/internal/logfields"
	"github.com/dn-m/documentarian/internal/manifest"
	"github.com/dn-m/documentarian/internal/metrics"
	"github.com/dn-m/documentarian/internal/publish"
	"github.com/dn-m/documentarian/internal/site"
	"github.com/dn-m/documentarian/internal/workspace"
)

// Mode selects how far a run goes.
type Mode string

const (
	ModePublish  Mode = "publish"  // generate, then commit and push the site
	ModeGenerate Mode = "generate" // stop after the indexes are rebuilt
)

// Toolchain makes the external documentation tools available before generation.
type Toolchain interface {
	Ensure(ctx context.Context) error
}

// Deps are the collaborators a run talks to.
type Deps struct {
	Source    manifest.Source
	Extractor docgen.Extractor
	Renderer  docgen.Renderer
	Abstracts site.AbstractRenderer
	// Repo is required in publish mode.
	Repo publish.SiteRepository
	// Bootstrap is optional; nil skips the bootstrap_tools stage.
	Bootstrap Toolchain
	Recorder  metrics.Recorder
	Progress  io.Writer
}

// Options for one run.
type Options struct {
	Mode Mode
	// Modules to generate; empty selects every product in manifest order.
	Modules []string
}

// State is the mutable state threaded through the stages of one run.
type State struct {
	Report   *Report
	Package  *manifest.Package
	Selected []manifest.Module

	cfg      *config.Config
	deps     Deps
	opts     Options
	recorder metrics.Recorder
	scratch  *workspace.Manager
}

// Runner drives documentation runs for one configured package.
type Runner struct {
	cfg  *config.Config
	deps Deps
}

// New creates a runner. Missing optional collaborators get no-op defaults.
func New(cfg *config.Config, deps Deps) *Runner {
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Progress == nil {
		deps.Progress = io.Discard
	}
	return &Runner{cfg: cfg, deps: deps}
}

// Plan lists the stages a run with opts executes.
func (r *Runner) Plan(opts Options) *Plan {
	publishing := opts.Mode == ModePublish
	return NewPlan().
		Add(StageDecodeManifest, stageDecodeManifest).
		Add(StageSelectModules, stageSelectModules).
		AddIf(r.deps.Bootstrap != nil, StageBootstrapTools, stageBootstrapTools).
		AddIf(publishing, StageSyncSite, stageSyncSite).
		Add(StagePrepareDirectories, stagePrepareDirectories).
		Add(StageGenerateModules, stageGenerateModules).
		Add(StageRebuildIndex, stageRebuildIndex).
		AddIf(publishing, StagePublish, stagePublish)
}

// Run executes one documentation run. The report is returned even on error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Mode == "" {
		opts.Mode = ModePublish
	}
	report := newReport(uuid.NewString(), opts.Mode)
	if opts.Mode == ModePublish && r.deps.Repo == nil {
		err := derrors.New(derrors.CategoryInternal, derrors.SeverityFatal, "publish mode requires a site repository")
		report.Errors = append(report.Errors, err)
		report.Finish(r.deps.Recorder)
		return report, err
	}

	st := &State{
		Report:   report,
		cfg:      r.cfg,
		deps:     r.deps,
		opts:     opts,
		recorder: r.deps.Recorder,
		scratch:  r.scratchManager(),
	}
	defer func() {
		if err := st.scratch.Cleanup(); err != nil {
			slog.Warn("Failed to clean up scratch directory", logfields.Error(err))
		}
	}()

	slog.Info("Documentation run started", logfields.RunID(report.RunID), slog.String("mode", string(opts.Mode)))
	err := RunStages(ctx, st, r.Plan(opts).Build())
	report.Finish(r.deps.Recorder)
	slog.Info("Documentation run finished", logfields.RunID(report.RunID), slog.String("summary", report.Summary()))
	return report, err
}

// RebuildHome rewrites only the home index from the packages found under the
// documentation root and returns how many it listed.
func (r *Runner) RebuildHome(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	builder, err := site.NewBuilder(r.cfg, r.deps.Abstracts)
	if err != nil {
		return 0, err
	}
	pkgs, err := manifest.ScanRoot(r.cfg.Documentation.Root)
	if err != nil {
		return 0, err
	}
	abstract, err := builder.HomeAbstract()
	if err != nil {
		return 0, err
	}
	if err := builder.WriteHome(pkgs, r.cfg.Documentation.Root, abstract); err != nil {
		return 0, err
	}
	return len(pkgs), nil
}

// scratchManager keeps a configured scratch directory and otherwise uses a per-run temp dir.
func (r *Runner) scratchManager() *workspace.Manager {
	if dir := r.cfg.Tools.ScratchDir; dir != "" {
		return workspace.NewPersistentManager(dir)
	}
	return workspace.NewManager("")
}

func stageDecodeManifest(ctx context.Context, st *State) error {
	pkg, err := manifest.Load(ctx, st.deps.Source)
	if err != nil {
		return err
	}
	st.Package = pkg
	st.Report.Package = pkg.Name
	slog.Info("Manifest decoded", logfields.Package(pkg.Name), slog.Any("products", pkg.ModuleNames()))
	return nil
}

func stageSelectModules(_ context.Context, st *State) error {
	selected, err := st.Package.Select(st.opts.Modules)
	if err != nil {
		return err
	}
	st.Selected = selected
	for _, m := range selected {
		st.Report.Selected = append(st.Report.Selected, m.Name)
	}
	return nil
}

func stageBootstrapTools(ctx context.Context, st *State) error {
	return st.deps.Bootstrap.Ensure(ctx)
}

func stageSyncSite(ctx context.Context, st *State) error {
	return st.deps.Repo.Sync(ctx)
}

func stagePrepareDirectories(_ context.Context, st *State) error {
	return layout.Prepare(*st.Package, st.cfg.Documentation.Root)
}

func stageGenerateModules(ctx context.Context, st *State) error {
	if len(st.Selected) == 0 {
		slog.Info("No modules to generate", logfields.Package(st.Package.Name))
		return nil
	}
	if err := st.scratch.Create(); err != nil {
		return &derrors.FilesystemError{Op: "mkdir", Path: st.cfg.Tools.ScratchDir, Err: err}
	}
	driver := docgen.NewDriver(st.cfg, st.deps.Extractor, st.deps.Renderer, st.scratch).
		WithRecorder(st.recorder).
		WithProgress(st.deps.Progress)
	summary, err := driver.GenerateAll(ctx, st.Selected, *st.Package)
	st.Report.Generated = summary.Generated()
	st.Report.Failed = summary.Failed()
	return err
}

func stageRebuildIndex(_ context.Context, st *State) error {
	builder, err := site.NewBuilder(st.cfg, st.deps.Abstracts)
	if err != nil {
		return err
	}
	root := st.cfg.Documentation.Root
	pkg := *st.Package

	abstract, err := builder.RenderAbstract(filepath.Join(st.cfg.Package.Directory, st.cfg.Documentation.Readme))
	if err != nil {
		return err
	}
	if err := builder.WritePackageIndex(pkg, root, abstract); err != nil {
		return err
	}

	pkgs := []manifest.Package{pkg}
	if st.cfg.Documentation.IndexScope == config.IndexScopeRoot {
		if pkgs, err = manifest.ScanRoot(root); err != nil {
			return err
		}
		pkgs = withCurrent(pkgs, pkg)
	}
	home, err := builder.HomeAbstract()
	if err != nil {
		return err
	}
	if err := builder.WriteHome(pkgs, root, home); err != nil {
		return err
	}
	st.Report.HomePackages = len(pkgs)
	return nil
}

// withCurrent swaps the scanned entry of pkg for the decoded one, which keeps
// the manifest's module order.
func withCurrent(scanned []manifest.Package, pkg manifest.Package) []manifest.Package {
	for i := range scanned {
		if scanned[i].Name == pkg.Name {
			scanned[i] = pkg
			return scanned
		}
	}
	return append(scanned, pkg)
}

func stagePublish(ctx context.Context, st *State) error {
	committed, err := publish.Publish(ctx, st.deps.Repo, st.Package.Name)
	st.Report.Committed = committed
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryGit, derrors.SeverityWarning, "publish "+st.Package.Name+" documentation")
	}
	return nil
}

// IsCanceled reports whether err ended a run through cancellation.
func IsCanceled(err error) bool {
	var se *StageError
	if errors.As(err, &se) && se.Kind == StageErrorCanceled {
		return true
	}
	return docgen.IsCanceled(err)
}
