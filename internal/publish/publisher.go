package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dn-m/documentarian/internal/config"
	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/git"
	"github.com/dn-m/documentarian/internal/logfields"
)

// SiteRepository is the version-control collaborator the pipeline publishes through.
type SiteRepository interface {
	// Sync clones the site repository or pulls the fixed branch.
	Sync(ctx context.Context) error
	// Commit records every change in the checkout. committed is false when there was nothing to commit.
	Commit(ctx context.Context, message string) (committed bool, err error)
	// Push force-pushes the fixed branch.
	Push(ctx context.Context) error
	// Dir is the local checkout.
	Dir() string
}

// CommitMessage is the message recorded for a package's documentation update.
func CommitMessage(pkg string) string {
	return fmt.Sprintf("Update documentation for the %s package", pkg)
}

// Publisher implements SiteRepository with go-git.
type Publisher struct {
	client *git.Client
	remote git.Remote
	dir    string
	author git.Author
	force  bool
}

// Options for New.
type Options struct {
	// Lookup reads the environment; nil means os.LookupEnv.
	Lookup LookupEnv
	// SkipGate bypasses the CI gate (the token is still required).
	SkipGate bool
}

// New checks the publish gate and reads the access token, returning
// *errors.GuardConditionError or *errors.MissingCredentialError when the
// environment cannot publish.
func New(cfg *config.Config, opts Options) (*Publisher, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if !opts.SkipGate {
		if err := NewGate(cfg.Gate).Check(lookup); err != nil {
			return nil, err
		}
	}
	token, ok := lookup(cfg.Site.TokenEnv)
	if !ok || token == "" {
		return nil, &derrors.MissingCredentialError{Variable: cfg.Site.TokenEnv}
	}
	return NewWithToken(cfg, token), nil
}

// NewWithToken builds a publisher with an explicit token; an empty token pushes unauthenticated.
func NewWithToken(cfg *config.Config, token string) *Publisher {
	site := cfg.Site
	return &Publisher{
		client: git.NewClient(git.TokenAuth(site.Username, token)),
		remote: git.Remote{URL: site.Repository, Name: site.Remote, Branch: site.Branch},
		dir:    site.Directory,
		author: git.Author{Name: site.AuthorName, Email: site.AuthorEmail},
		force:  config.Enabled(site.Force, true),
	}
}

func (p *Publisher) Dir() string { return p.dir }

func (p *Publisher) Sync(ctx context.Context) error {
	head, err := p.client.CloneOrPull(ctx, p.remote, p.dir)
	if err != nil {
		return err
	}
	slog.Info("Site repository synced", logfields.Path(p.dir), logfields.Commit(head), logfields.Branch(p.remote.Branch))
	return nil
}

func (p *Publisher) Commit(_ context.Context, message string) (bool, error) {
	_, committed, err := p.client.CommitAll(p.dir, message, p.author)
	return committed, err
}

func (p *Publisher) Push(ctx context.Context) error {
	return p.client.Push(ctx, p.remote, p.dir, p.force)
}

// Publish commits the package's documentation and pushes it. Nothing to
// commit is not an error; the push is skipped and committed is false.
func Publish(ctx context.Context, repo SiteRepository, pkg string) (committed bool, err error) {
	committed, err = repo.Commit(ctx, CommitMessage(pkg))
	if err != nil {
		return false, err
	}
	if !committed {
		slog.Info("Documentation unchanged; skipping push", logfields.Package(pkg))
		return false, nil
	}
	return true, repo.Push(ctx)
}
