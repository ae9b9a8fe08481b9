// Package layout is the single place documentation paths are computed.
// Writers (directory preparation, module generation, index pages) and
// navigation links all go through these functions so they agree on layout:
//
//	<root>/index.html
//	<root>/Packages/<package>/index.html
//	<root>/Packages/<package>/Modules/<module>/index.html
package layout

import (
	"path"
	"path/filepath"

	"github.com/dn-m/documentarian/internal/manifest"
)

const (
	PackagesDir = "Packages"
	ModulesDir  = "Modules"
	IndexFile   = "index.html"
)

// PackagePath is the documentation directory of pkg.
func PackagePath(pkg manifest.Package, root string) string {
	return filepath.Join(root, PackagesDir, pkg.Name)
}

// ModulePath is the documentation directory of mod inside pkg.
func ModulePath(mod manifest.Module, pkg manifest.Package, root string) string {
	return filepath.Join(PackagePath(pkg, root), ModulesDir, mod.Name)
}

// HomeIndexPath is the project home page.
func HomeIndexPath(root string) string {
	return filepath.Join(root, IndexFile)
}

// PackageIndexPath is the landing page of pkg.
func PackageIndexPath(pkg manifest.Package, root string) string {
	return filepath.Join(PackagePath(pkg, root), IndexFile)
}

// ModuleIndexPath is the entry page the renderer writes for mod.
func ModuleIndexPath(mod manifest.Module, pkg manifest.Package, root string) string {
	return filepath.Join(ModulePath(mod, pkg, root), IndexFile)
}

// Relative links always use forward slashes regardless of the host OS.

// PackageLink links the home page to a package page.
func PackageLink(pkg manifest.Package) string {
	return path.Join(PackagesDir, pkg.Name, IndexFile)
}

// ModuleLinkFromPackage links a package page to one of its modules.
func ModuleLinkFromPackage(mod manifest.Module) string {
	return path.Join(ModulesDir, mod.Name, IndexFile)
}

// ModuleLinkFromHome links the home page directly to a module.
func ModuleLinkFromHome(mod manifest.Module, pkg manifest.Package) string {
	return path.Join(PackagesDir, pkg.Name, ModulesDir, mod.Name, IndexFile)
}

// AssetsLink returns the relative prefix from a page depth back to the root
// assets directory. Depth 0 is the home page, 2 a package page
// under Packages/<pkg>/.
func AssetsLink(assets string, depth int) string {
	parts := make([]string, 0, depth+1)
	for range depth {
		parts = append(parts, "..")
	}
	parts = append(parts, assets)
	return path.Join(parts...)
}
