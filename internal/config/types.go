package config

import (
	"strings"
	"time"
)

// Config represents the application configuration.
type Config struct {
	Package       PackageConfig       `yaml:"package"`
	Documentation DocumentationConfig `yaml:"documentation"`
	Tools         ToolsConfig         `yaml:"tools"`
	Site          SiteConfig          `yaml:"site"`
	Gate          GateConfig          `yaml:"gate"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

// PackageConfig locates the Swift package being documented.
type PackageConfig struct {
	Directory string `yaml:"directory"`
}

// DocumentationConfig controls the documentation root layout and the generated index pages.
type DocumentationConfig struct {
	Root         string     `yaml:"root,omitempty"` // defaults to site.directory
	AssetsPath   string     `yaml:"assets_path"`
	IndexScope   IndexScope `yaml:"index_scope"`
	ProjectName  string     `yaml:"project_name"`
	ProjectURL   string     `yaml:"project_url"`
	GitHubURL    string     `yaml:"github_url"`
	Readme       string     `yaml:"readme"`                // package README rendered into the package index
	HomeReadme   string     `yaml:"home_readme,omitempty"` // optional markdown rendered into the home index
	HomeAbstract string     `yaml:"home_abstract"`         // plain text used when home_readme is unset
	Copyright    int        `yaml:"copyright_year"`
	Template     string     `yaml:"template,omitempty"` // overrides the embedded page template
}

// ToolsConfig configures the external tools and how module generation is scheduled.
type ToolsConfig struct {
	Timeout       time.Duration      `yaml:"timeout"`
	Workers       int                `yaml:"workers"`
	FailurePolicy FailurePolicy      `yaml:"failure_policy"`
	ScratchDir    string             `yaml:"scratch_dir,omitempty"`
	Swift         SwiftConfig        `yaml:"swift"`
	SourceKitten  SourceKittenConfig `yaml:"sourcekitten"`
	Jazzy         JazzyConfig        `yaml:"jazzy"`
}

// SwiftConfig locates the swift toolchain driver.
type SwiftConfig struct {
	Binary string `yaml:"binary"`
}

// SourceKittenConfig describes where SourceKitten is fetched, built and run from.
type SourceKittenConfig struct {
	Repository string `yaml:"repository"`
	Directory  string `yaml:"directory"`
	Binary     string `yaml:"binary"`
	Bootstrap  *bool  `yaml:"bootstrap,omitempty"`
}

// JazzyConfig holds the fixed rendering options passed to jazzy for every module.
type JazzyConfig struct {
	Binary        string `yaml:"binary"`
	Theme         string `yaml:"theme"`
	Author        string `yaml:"author"`
	AuthorURL     string `yaml:"author_url"`
	RootURL       string `yaml:"root_url"`
	DisableSearch *bool  `yaml:"disable_search,omitempty"`
	Clean         *bool  `yaml:"clean,omitempty"`
}

// SiteConfig describes the site repository documentation is published to.
type SiteConfig struct {
	Repository  string `yaml:"repository"`
	Directory   string `yaml:"directory"`
	Remote      string `yaml:"remote"`
	Branch      string `yaml:"branch"`
	Username    string `yaml:"username"`
	TokenEnv    string `yaml:"token_env"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	Force       *bool  `yaml:"force,omitempty"`
}

// GateConfig names the environment variables that must match before publishing.
type GateConfig struct {
	Enabled        *bool  `yaml:"enabled,omitempty"`
	BranchEnv      string `yaml:"branch_env"`
	Branch         string `yaml:"branch"`
	PullRequestEnv string `yaml:"pull_request_env"`
	OSEnv          string `yaml:"os_env"`
	OS             string `yaml:"os"`
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// IndexScope selects which packages the home index lists.
type IndexScope string

const (
	IndexScopeRoot    IndexScope = "root"    // re-scan every package present under the documentation root
	IndexScopePackage IndexScope = "package" // only the package generated by this run
)

// NormalizeIndexScope returns the canonical scope or "" when unknown.
func NormalizeIndexScope(raw string) IndexScope {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(IndexScopeRoot), "all":
		return IndexScopeRoot
	case string(IndexScopePackage), "current":
		return IndexScopePackage
	default:
		return ""
	}
}

// FailurePolicy selects what happens to remaining modules after one fails.
type FailurePolicy string

const (
	FailFast   FailurePolicy = "fail_fast"
	CollectAll FailurePolicy = "collect_all"
)

// NormalizeFailurePolicy returns the canonical policy or "" when unknown.
func NormalizeFailurePolicy(raw string) FailurePolicy {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_") {
	case string(FailFast):
		return FailFast
	case string(CollectAll), "continue":
		return CollectAll
	default:
		return ""
	}
}

// Enabled reports whether an optional boolean is set, falling back to def.
func Enabled(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// BoolPtr is a helper for optional boolean fields.
func BoolPtr(b bool) *bool { return &b }
