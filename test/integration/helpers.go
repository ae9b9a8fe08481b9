// Package integration runs whole documentation runs against fixture packages
// and local git remotes.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dn-m/documentarian/internal/toolexec"
)

// seedSiteRemote creates a bare site repository whose master branch holds the given files.
func seedSiteRemote(t *testing.T, files map[string]string) string {
	t.Helper()
	tmp := t.TempDir()
	bare := filepath.Join(tmp, "site.git")
	_, err := git.PlainInit(bare, true)
	require.NoError(t, err)

	seed := filepath.Join(tmp, "seed")
	repo, err := git.PlainInit(seed, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, content := range files {
		target := filepath.Join(seed, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o750))
		require.NoError(t, os.WriteFile(target, []byte(content), 0o600))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("seed site", &git.CommitOptions{Author: &object.Signature{Name: "seed", Email: "seed@example.com", When: time.Now()}})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&git.PushOptions{RemoteName: "origin"}))
	return bare
}

func remoteHead(t *testing.T, bare string) *object.Commit {
	t.Helper()
	repo, err := git.PlainOpen(bare)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	c, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return c
}

// fakeTools answers the sourcekitten and jazzy invocations the real adapters make.
type fakeTools struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeTools) Run(_ context.Context, c toolexec.Command) (toolexec.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c.Tool+":"+c.Module)
	f.mu.Unlock()

	switch c.Tool {
	case "sourcekitten":
		_, err := io.WriteString(c.Stdout, `[{"key.name":"`+c.Module+`"}]`)
		return toolexec.Result{}, err
	case "jazzy":
		out := flagValue(c.Args, "--output")
		if out == "" {
			return toolexec.Result{}, fmt.Errorf("jazzy called without --output: %v", c.Args)
		}
		page := "<html>" + flagValue(c.Args, "--module") + "</html>"
		return toolexec.Result{}, os.WriteFile(filepath.Join(out, "index.html"), []byte(page), 0o600)
	}
	return toolexec.Result{}, fmt.Errorf("unexpected tool %q", c.Tool)
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// buildStructureTree creates a nested map representing the directory
// structure below rootDir, skipping the .git directory.
func buildStructureTree(rootDir string) map[string]any {
	tree := make(map[string]any)
	_ = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == rootDir {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, _ := filepath.Rel(rootDir, path)
		addPathToTree(tree, strings.Split(rel, string(filepath.Separator)))
		return nil
	})
	return tree
}

func addPathToTree(tree map[string]any, parts []string) {
	current := tree
	for _, part := range parts {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
}

// verifyStructure compares the tree under dir with a golden JSON file,
// rewriting the file instead when update is set.
func verifyStructure(t *testing.T, dir, goldenPath string, update bool) {
	t.Helper()
	actual := buildStructureTree(dir)
	if update {
		data, err := json.MarshalIndent(actual, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(goldenPath, append(data, '\n'), 0o600))
		return
	}

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "golden file missing; run with -update-golden")
	var expected map[string]any
	require.NoError(t, json.Unmarshal(data, &expected))

	// Round-trip so both sides carry the same dynamic types.
	raw, err := json.Marshal(actual)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("site structure mismatch (-golden +actual):\n%s", diff)
	}
}
