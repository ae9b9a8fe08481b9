package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/dn-m/documentarian/internal/config"
	derrors "github.com/dn-m/documentarian/internal/errors"
)

func env(vars map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

var travisOK = map[string]string{
	"TRAVIS_BRANCH":       "master",
	"TRAVIS_PULL_REQUEST": "false",
	"TRAVIS_OS_NAME":      "linux",
	"GITHUB_TOKEN":        "secret",
}

func with(overrides map[string]string, drop ...string) map[string]string {
	out := map[string]string{}
	for k, v := range travisOK {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

func TestGate(t *testing.T) {
	gate := NewGate(config.Default().Gate)

	require.NoError(t, gate.Check(env(travisOK)))

	cases := []struct {
		name    string
		vars    map[string]string
		varName string
		missing bool
	}{
		{"wrong branch", with(map[string]string{"TRAVIS_BRANCH": "feature"}), "TRAVIS_BRANCH", false},
		{"pull request", with(map[string]string{"TRAVIS_PULL_REQUEST": "42"}), "TRAVIS_PULL_REQUEST", false},
		{"wrong os", with(map[string]string{"TRAVIS_OS_NAME": "osx"}), "TRAVIS_OS_NAME", false},
		{"no branch", with(nil, "TRAVIS_BRANCH"), "TRAVIS_BRANCH", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.Check(env(tc.vars))
			var guardErr *derrors.GuardConditionError
			require.ErrorAs(t, err, &guardErr)
			require.Equal(t, tc.varName, guardErr.Variable)
			require.Equal(t, tc.missing, guardErr.Missing)
		})
	}
}

func TestGate_Disabled(t *testing.T) {
	cfg := config.Default().Gate
	cfg.Enabled = config.BoolPtr(false)
	require.NoError(t, NewGate(cfg).Check(env(nil)))
}

func TestNew_MissingCredential(t *testing.T) {
	_, err := New(config.Default(), Options{Lookup: env(with(nil, "GITHUB_TOKEN"))})
	var credErr *derrors.MissingCredentialError
	require.ErrorAs(t, err, &credErr)
	require.Equal(t, "GITHUB_TOKEN", credErr.Variable)

	_, err = New(config.Default(), Options{Lookup: env(with(map[string]string{"GITHUB_TOKEN": ""}))})
	require.ErrorAs(t, err, &credErr)
}

func TestNew_GateCheckedFirst(t *testing.T) {
	_, err := New(config.Default(), Options{Lookup: env(with(map[string]string{"TRAVIS_BRANCH": "dev"}, "GITHUB_TOKEN"))})
	var guardErr *derrors.GuardConditionError
	require.ErrorAs(t, err, &guardErr)

	_, err = New(config.Default(), Options{Lookup: env(map[string]string{"GITHUB_TOKEN": "x"}), SkipGate: true})
	require.NoError(t, err)
}

func TestCommitMessage(t *testing.T) {
	require.Equal(t, "Update documentation for the Structure package", CommitMessage("Structure"))
}

func seedSite(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	bare := filepath.Join(tmp, "site.git")
	_, err := gogit.PlainInit(bare, true)
	require.NoError(t, err)

	seed := filepath.Join(tmp, "seed")
	repo, err := gogit.PlainInit(seed, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(seed, "index.html"), []byte("home"), 0o600))
	_, err = wt.Add("index.html")
	require.NoError(t, err)
	_, err = wt.Commit("seed", &gogit.CommitOptions{Author: &object.Signature{Name: "seed", Email: "s@example.com", When: time.Now()}})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&gogit.PushOptions{RemoteName: "origin"}))
	return bare
}

func TestPublisher_SyncCommitPush(t *testing.T) {
	bare := seedSite(t)
	cfg := config.Default()
	cfg.Site.Repository = bare
	cfg.Site.Directory = filepath.Join(t.TempDir(), "dn-m.github.io")
	ctx := context.Background()

	p := NewWithToken(cfg, "")
	require.NoError(t, p.Sync(ctx))
	require.FileExists(t, filepath.Join(p.Dir(), "index.html"))

	committed, err := Publish(ctx, p, "Demo")
	require.NoError(t, err)
	require.False(t, committed)

	page := filepath.Join(p.Dir(), "Packages", "Demo", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(page), 0o750))
	require.NoError(t, os.WriteFile(page, []byte("demo"), 0o600))
	committed, err = Publish(ctx, p, "Demo")
	require.NoError(t, err)
	require.True(t, committed)

	repo, err := gogit.PlainOpen(bare)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	head, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	require.Equal(t, "Update documentation for the Demo package", head.Message)
	require.Equal(t, "documentarian", head.Author.Name)
}

type fakeRepo struct {
	committed bool
	pushed    bool
	message   string
}

func (f *fakeRepo) Sync(context.Context) error { return nil }
func (f *fakeRepo) Commit(_ context.Context, msg string) (bool, error) {
	f.message = msg
	return f.committed, nil
}
func (f *fakeRepo) Push(context.Context) error { f.pushed = true; return nil }
func (f *fakeRepo) Dir() string                { return "" }

func TestPublish_SkipsPushWhenNothingCommitted(t *testing.T) {
	repo := &fakeRepo{}
	committed, err := Publish(context.Background(), repo, "Core")
	require.NoError(t, err)
	require.False(t, committed)
	require.False(t, repo.pushed)
	require.Equal(t, "Update documentation for the Core package", repo.message)

	repo.committed = true
	committed, err = Publish(context.Background(), repo, "Core")
	require.NoError(t, err)
	require.True(t, committed)
	require.True(t, repo.pushed)
}
