package config

import (
	"path/filepath"
	"time"
)

// DefaultConfigFile is picked up from the working directory when no --config is given.
const DefaultConfigFile = "documentarian.yaml"

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset fields. Values match the dn-m site conventions.
func applyDefaults(cfg *Config) {
	if cfg.Package.Directory == "" {
		cfg.Package.Directory = "."
	}

	site := &cfg.Site
	if site.Repository == "" {
		site.Repository = "https://github.com/dn-m/dn-m.github.io"
	}
	if site.Directory == "" {
		site.Directory = "dn-m.github.io"
	}
	if site.Remote == "" {
		site.Remote = "origin"
	}
	if site.Branch == "" {
		site.Branch = "master"
	}
	if site.Username == "" {
		site.Username = "token"
	}
	if site.TokenEnv == "" {
		site.TokenEnv = "GITHUB_TOKEN"
	}
	if site.AuthorName == "" {
		site.AuthorName = "documentarian"
	}
	if site.AuthorEmail == "" {
		site.AuthorEmail = "documentarian@users.noreply.github.com"
	}
	if site.Force == nil {
		site.Force = BoolPtr(true)
	}

	docs := &cfg.Documentation
	if docs.Root == "" {
		docs.Root = site.Directory
	}
	if docs.AssetsPath == "" {
		docs.AssetsPath = "Documentarian"
	}
	if scope := NormalizeIndexScope(string(docs.IndexScope)); scope != "" {
		docs.IndexScope = scope
	} else {
		docs.IndexScope = IndexScopeRoot
	}
	if docs.ProjectName == "" {
		docs.ProjectName = "dn-m"
	}
	if docs.ProjectURL == "" {
		docs.ProjectURL = "https://dn-m.github.io"
	}
	if docs.GitHubURL == "" {
		docs.GitHubURL = "https://github.com/dn-m/"
	}
	if docs.Readme == "" {
		docs.Readme = "README.md"
	}
	if docs.HomeAbstract == "" {
		docs.HomeAbstract = "This is the documentation of the " + docs.ProjectName + " project."
	}
	if docs.Copyright == 0 {
		docs.Copyright = 2018
	}

	tools := &cfg.Tools
	if tools.Timeout <= 0 {
		tools.Timeout = 15 * time.Minute
	}
	if tools.Workers <= 0 {
		tools.Workers = 1
	}
	if p := NormalizeFailurePolicy(string(tools.FailurePolicy)); p != "" {
		tools.FailurePolicy = p
	} else {
		tools.FailurePolicy = FailFast
	}
	if tools.Swift.Binary == "" {
		tools.Swift.Binary = "swift"
	}
	sk := &tools.SourceKitten
	if sk.Repository == "" {
		sk.Repository = "https://github.com/jpsim/SourceKitten"
	}
	if sk.Directory == "" {
		sk.Directory = "SourceKitten"
	}
	if sk.Binary == "" {
		sk.Binary = filepath.Join(sk.Directory, ".build", "debug", "sourcekitten")
	}
	if sk.Bootstrap == nil {
		sk.Bootstrap = BoolPtr(true)
	}
	jz := &tools.Jazzy
	if jz.Binary == "" {
		jz.Binary = "jazzy"
	}
	if jz.Theme == "" {
		jz.Theme = "fullwidth"
	}
	if jz.Author == "" {
		jz.Author = docs.ProjectName
	}
	if jz.AuthorURL == "" {
		jz.AuthorURL = docs.ProjectURL
	}
	if jz.RootURL == "" {
		jz.RootURL = docs.ProjectURL
	}
	if jz.DisableSearch == nil {
		jz.DisableSearch = BoolPtr(true)
	}
	if jz.Clean == nil {
		jz.Clean = BoolPtr(true)
	}

	gate := &cfg.Gate
	if gate.Enabled == nil {
		gate.Enabled = BoolPtr(true)
	}
	if gate.BranchEnv == "" {
		gate.BranchEnv = "TRAVIS_BRANCH"
	}
	if gate.Branch == "" {
		gate.Branch = site.Branch
	}
	if gate.PullRequestEnv == "" {
		gate.PullRequestEnv = "TRAVIS_PULL_REQUEST"
	}
	if gate.OSEnv == "" {
		gate.OSEnv = "TRAVIS_OS_NAME"
	}
	if gate.OS == "" {
		gate.OS = "linux"
	}
}
