package docgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/git"
	"github.com/dn-m/documentarian/internal/logfields"
	"github.com/dn-m/documentarian/internal/toolexec"
)

// Bootstrap fetches and builds SourceKitten so the extractor binary exists.
type Bootstrap struct {
	git    *git.Client
	runner toolexec.Runner
	repo   string
	dir    string
	swift  string
}

// NewBootstrap resolves the SourceKitten checkout relative to the package directory.
func NewBootstrap(cfg *config.Config, client *git.Client, runner toolexec.Runner) *Bootstrap {
	return &Bootstrap{
		git:    client,
		runner: runner,
		repo:   cfg.Tools.SourceKitten.Repository,
		dir:    resolvePath(cfg.Package.Directory, cfg.Tools.SourceKitten.Directory),
		swift:  cfg.Tools.Swift.Binary,
	}
}

// Dir is where SourceKitten is checked out.
func (b *Bootstrap) Dir() string { return b.dir }

// Ensure clones or pulls SourceKitten, drops a stray .swift-version pin and builds it.
func (b *Bootstrap) Ensure(ctx context.Context) error {
	slog.Info("Fetching SourceKitten", logfields.URL(b.repo), logfields.Path(b.dir))
	if _, err := b.git.CloneOrPull(ctx, git.Remote{URL: b.repo}, b.dir); err != nil {
		return fmt.Errorf("fetch SourceKitten: %w", err)
	}

	pin := filepath.Join(b.dir, ".swift-version")
	if err := os.Remove(pin); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", pin, err)
	}

	slog.Info("Building SourceKitten", logfields.Path(b.dir))
	if _, err := b.runner.Run(ctx, toolexec.Command{
		Tool: "swift build",
		Name: b.swift,
		Args: []string{"build"},
		Dir:  b.dir,
	}); err != nil {
		return err
	}
	slog.Info("SourceKitten ready", logfields.Path(b.dir))
	return nil
}

// ResolveTool makes a relative path that names a location (contains a
// separator) absolute against base. Bare command names are left for PATH lookup.
func ResolveTool(base, p string) string {
	if p == "" || filepath.Base(p) == p {
		return p
	}
	return resolvePath(base, p)
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(filepath.Join(base, p))
	if err != nil {
		return filepath.Join(base, p)
	}
	return abs
}
