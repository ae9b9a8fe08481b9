package docgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/git"
)

// fakeSourceKittenRemote creates a bare repository whose tree pins a Swift version.
func fakeSourceKittenRemote(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	bare := filepath.Join(tmp, "SourceKitten.git")
	_, err := gogit.PlainInit(bare, true)
	require.NoError(t, err)

	seed := filepath.Join(tmp, "seed")
	repo, err := gogit.PlainInit(seed, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, content := range map[string]string{"Package.swift": "// swift-tools-version:4.0\n", ".swift-version": "4.0\n"} {
		require.NoError(t, os.WriteFile(filepath.Join(seed, name), []byte(content), 0o600))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("init", &gogit.CommitOptions{Author: &object.Signature{Name: "seed", Email: "s@example.com", When: time.Now()}})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&gogit.PushOptions{RemoteName: "origin"}))
	return bare
}

func TestBootstrap_Ensure(t *testing.T) {
	cfg := config.Default()
	cfg.Package.Directory = t.TempDir()
	cfg.Tools.SourceKitten.Repository = fakeSourceKittenRemote(t)

	runner := &recordingRunner{}
	b := NewBootstrap(cfg, git.NewClient(nil), runner)
	require.Equal(t, filepath.Join(cfg.Package.Directory, "SourceKitten"), b.Dir())

	require.NoError(t, b.Ensure(context.Background()))
	require.FileExists(t, filepath.Join(b.Dir(), "Package.swift"))
	require.NoFileExists(t, filepath.Join(b.Dir(), ".swift-version"))

	require.Len(t, runner.commands, 1)
	require.Equal(t, "swift", runner.commands[0].Name)
	require.Equal(t, []string{"build"}, runner.commands[0].Args)
	require.Equal(t, b.Dir(), runner.commands[0].Dir)

	// A second run pulls the existing checkout instead of cloning.
	require.NoError(t, b.Ensure(context.Background()))
	require.Len(t, runner.commands, 2)
}
