package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/logfields"
)

// Client performs git operations against working copies on disk.
type Client struct {
	auth     transport.AuthMethod
	progress io.Writer
}

// NewClient creates a client; auth may be nil for public repositories.
func NewClient(auth transport.AuthMethod) *Client {
	return &Client{auth: auth}
}

// WithProgress streams clone/pull progress to w.
func (c *Client) WithProgress(w io.Writer) *Client {
	c.progress = w
	return c
}

// Remote identifies a branch on a named remote.
type Remote struct {
	URL    string
	Name   string // defaults to origin
	Branch string // empty follows the remote HEAD on clone
}

func (r Remote) name() string {
	if r.Name == "" {
		return git.DefaultRemoteName
	}
	return r.Name
}

// Author is the identity commits are recorded with.
type Author struct {
	Name  string
	Email string
}

// CloneOrPull clones remote into dir, or pulls when dir already holds a
// repository. It returns the HEAD commit after the update.
func (c *Client) CloneOrPull(ctx context.Context, remote Remote, dir string) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return c.pull(ctx, remote, dir)
	}
	return c.clone(ctx, remote, dir)
}

func (c *Client) clone(ctx context.Context, remote Remote, dir string) (string, error) {
	slog.Debug("Cloning repository", logfields.URL(remote.URL), logfields.Branch(remote.Branch), logfields.Path(dir))

	opts := &git.CloneOptions{
		URL:        remote.URL,
		RemoteName: remote.name(),
		Auth:       c.auth,
		Progress:   c.progress,
	}
	if remote.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(remote.Branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return "", gitError(err, "clone", remote.URL, dir)
	}
	head := headHash(repo)
	slog.Info("Repository cloned", logfields.URL(remote.URL), logfields.Commit(short(head)), logfields.Path(dir))
	return head, nil
}

func (c *Client) pull(ctx context.Context, remote Remote, dir string) (string, error) {
	slog.Debug("Updating existing repository", logfields.Path(dir), logfields.Branch(remote.Branch))

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", gitError(err, "open", remote.URL, dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", gitError(err, "worktree", remote.URL, dir)
	}

	opts := &git.PullOptions{
		RemoteName: remote.name(),
		Auth:       c.auth,
		Progress:   c.progress,
	}
	if remote.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(remote.Branch)
		opts.SingleBranch = true
	}

	err = wt.PullContext(ctx, opts)
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Info("Repository already up to date", logfields.Path(dir))
	case err != nil:
		return "", gitError(err, "pull", remote.URL, dir)
	default:
		slog.Info("Repository updated", logfields.Path(dir), logfields.Commit(short(headHash(repo))))
	}
	return headHash(repo), nil
}

// CommitAll stages every change in the worktree of dir, deletions included,
// and commits it. When there is nothing to commit it returns committed=false
// and no error.
func (c *Client) CommitAll(dir, message string, author Author) (hash string, committed bool, err error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", false, gitError(err, "open", "", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", false, gitError(err, "worktree", "", dir)
	}

	status, err := wt.Status()
	if err != nil {
		return "", false, gitError(err, "status", "", dir)
	}
	if status.IsClean() {
		slog.Info("Nothing to commit", logfields.Path(dir))
		return "", false, nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", false, gitError(err, "add", "", dir)
	}

	h, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: author.Name, Email: author.Email, When: time.Now()},
	})
	if err != nil {
		return "", false, gitError(err, "commit", "", dir)
	}
	slog.Info("Committed changes", logfields.Path(dir), logfields.Commit(short(h.String())))
	return h.String(), true, nil
}

// Push pushes the local branch to remote. With force the remote branch is
// overwritten even when it is not an ancestor.
func (c *Client) Push(ctx context.Context, remote Remote, dir string, force bool) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return gitError(err, "open", remote.URL, dir)
	}

	ref := plumbing.NewBranchReferenceName(remote.Branch)
	spec := ggitcfg.RefSpec(fmt.Sprintf("%s:%s", ref, ref))
	if force {
		spec = "+" + spec
	}

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote.name(),
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Auth:       c.auth,
		Progress:   c.progress,
		Force:      force,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("Remote already up to date", logfields.Branch(remote.Branch))
		return nil
	}
	if err != nil {
		return gitError(err, "push", remote.URL, dir)
	}
	slog.Info("Pushed", logfields.Branch(remote.Branch), logfields.Path(dir))
	return nil
}

func gitError(err error, op, url, dir string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("git %s canceled: %w", op, err)
	}
	de := derrors.Wrap(err, derrors.CategoryGit, derrors.SeverityFatal, "git "+op+" failed").
		WithContext("path", dir)
	if url != "" {
		de = de.WithContext("url", url)
	}
	return de
}

func headHash(repo *git.Repository) string {
	ref, err := repo.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
