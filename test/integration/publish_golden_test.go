package integration

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/docgen"
	"github.com/dn-m/documentarian/internal/manifest"
	"github.com/dn-m/documentarian/internal/markdown"
	"github.com/dn-m/documentarian/internal/pipeline"
	"github.com/dn-m/documentarian/internal/publish"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

type publishFixture struct {
	cfg   *config.Config
	bare  string
	site  string
	tools *fakeTools
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()
	pkgDir, err := filepath.Abs("../testdata/packages/Demo")
	require.NoError(t, err)

	bare := seedSiteRemote(t, map[string]string{
		"index.html":                            "old home",
		"Packages/Old/Modules/Thing/index.html": "old package",
		"Packages/Demo/Modules/Gone/index.html": "removed module",
	})
	site := filepath.Join(t.TempDir(), "dn-m.github.io")

	cfg := config.Default()
	cfg.Package.Directory = pkgDir
	cfg.Site.Repository = bare
	cfg.Site.Directory = site
	cfg.Documentation.Root = site
	cfg.Tools.ScratchDir = t.TempDir()
	require.NoError(t, config.ValidateForPublish(cfg))

	return &publishFixture{cfg: cfg, bare: bare, site: site, tools: &fakeTools{}}
}

func (f *publishFixture) run(t *testing.T, modules ...string) *pipeline.Report {
	t.Helper()
	deps := pipeline.Deps{
		Source:    manifest.FileSource{Path: filepath.Join(f.cfg.Package.Directory, "dump-package.json")},
		Extractor: &docgen.SourceKitten{Runner: f.tools, Binary: "sourcekitten"},
		Renderer:  &docgen.Jazzy{Runner: f.tools, Binary: "jazzy"},
		Abstracts: markdown.New(markdown.Options{Unsafe: true}),
		Repo:      publish.NewWithToken(f.cfg, ""),
	}
	report, err := pipeline.New(f.cfg, deps).Run(context.Background(), pipeline.Options{Mode: pipeline.ModePublish, Modules: modules})
	require.NoError(t, err)
	return report
}

func TestGolden_PublishDemoPackage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}
	f := newPublishFixture(t)

	report := f.run(t)
	require.True(t, report.Committed)
	require.Equal(t, []string{"Core", "Extra"}, report.Generated)
	require.Equal(t, 2, report.HomePackages)
	require.Equal(t, []string{"sourcekitten:Core", "jazzy:Core", "sourcekitten:Extra", "jazzy:Extra"}, f.tools.calls)

	verifyStructure(t, f.site, "../testdata/golden/demo-publish/structure.golden.json", *updateGolden)

	head := remoteHead(t, f.bare)
	require.Equal(t, "Update documentation for the Demo package", head.Message)
	require.Equal(t, "documentarian", head.Author.Name)

	home, err := os.ReadFile(filepath.Join(f.site, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(home), `href="Packages/Old/index.html"`)
	require.Contains(t, string(home), `href="Packages/Demo/Modules/Extra/index.html"`)

	pkgPage, err := os.ReadFile(filepath.Join(f.site, "Packages", "Demo", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(pkgPage), "Small package used by the integration tests.")
}

func TestPublish_SecondRunWithoutChangesSkipsCommit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newPublishFixture(t)

	first := f.run(t)
	require.True(t, first.Committed)
	head := remoteHead(t, f.bare).Hash

	second := f.run(t)
	require.False(t, second.Committed)
	require.Equal(t, pipeline.OutcomeSuccess, second.Outcome)
	require.Equal(t, head, remoteHead(t, f.bare).Hash)
}

func TestPublish_SubsetStillResetsPackageDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newPublishFixture(t)

	report := f.run(t, "Extra")
	require.Equal(t, []string{"Extra"}, report.Generated)
	require.FileExists(t, filepath.Join(f.site, "Packages", "Demo", "Modules", "Extra", "index.html"))
	require.DirExists(t, filepath.Join(f.site, "Packages", "Demo", "Modules", "Core"))
	require.NoFileExists(t, filepath.Join(f.site, "Packages", "Demo", "Modules", "Core", "index.html"))
	require.NoDirExists(t, filepath.Join(f.site, "Packages", "Demo", "Modules", "Gone"))
}
