package config

import (
	"path/filepath"
	"strings"

	derrors "github.com/dn-m/documentarian/internal/errors"
)

// Validate checks a defaulted configuration for values no run could use.
func Validate(cfg *Config) error {
	if cfg.Tools.Workers < 1 {
		return derrors.ValidationFailed("tools.workers", "must be at least 1")
	}
	if cfg.Tools.Timeout <= 0 {
		return derrors.ValidationFailed("tools.timeout", "must be positive")
	}
	if strings.TrimSpace(cfg.Documentation.Root) == "" {
		return derrors.ValidationFailed("documentation.root", "cannot be empty")
	}
	if strings.Contains(cfg.Documentation.AssetsPath, "\"") {
		return derrors.ValidationFailed("documentation.assets_path", "must not contain quotes")
	}
	if cfg.Site.Branch == "" || strings.ContainsAny(cfg.Site.Branch, " ~^:") {
		return derrors.ValidationFailed("site.branch", "not a valid branch name")
	}
	return nil
}

// ValidateForPublish adds the checks that only matter when pushing to the site repository:
// the documentation root has to live inside the site checkout so the commit picks it up.
func ValidateForPublish(cfg *Config) error {
	if cfg.Site.Repository == "" {
		return derrors.ValidationFailed("site.repository", "required for publishing")
	}
	site, err := filepath.Abs(cfg.Site.Directory)
	if err != nil {
		return derrors.ValidationFailed("site.directory", err.Error())
	}
	root, err := filepath.Abs(cfg.Documentation.Root)
	if err != nil {
		return derrors.ValidationFailed("documentation.root", err.Error())
	}
	rel, err := filepath.Rel(site, root)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return derrors.ValidationFailed("documentation.root", "must be inside site.directory when publishing")
	}
	return nil
}
