package layout

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/logfields"
	"github.com/dn-m/documentarian/internal/manifest"
)

const dirPerm = 0o750

// Prepare resets the documentation tree of pkg: the package directory is
// removed with everything in it, then recreated with one empty directory per
// module. root must already exist. Running it twice yields the same tree.
func Prepare(pkg manifest.Package, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &derrors.FilesystemError{Op: "stat", Path: root, Err: err}
	}
	if !info.IsDir() {
		return &derrors.FilesystemError{Op: "stat", Path: root, Err: fmt.Errorf("not a directory")}
	}

	pkgPath := PackagePath(pkg, root)
	if !directChild(filepath.Join(root, PackagesDir), pkgPath) {
		return &derrors.FilesystemError{Op: "prepare", Path: pkgPath, Err: fmt.Errorf("package %q does not resolve inside %s", pkg.Name, PackagesDir)}
	}
	modulesDir := filepath.Join(pkgPath, ModulesDir)
	for _, mod := range pkg.Products {
		if modPath := ModulePath(mod, pkg, root); !directChild(modulesDir, modPath) {
			return &derrors.FilesystemError{Op: "prepare", Path: modPath, Err: fmt.Errorf("module %q does not resolve inside %s", mod.Name, ModulesDir)}
		}
	}

	if err := os.RemoveAll(pkgPath); err != nil {
		return &derrors.FilesystemError{Op: "remove", Path: pkgPath, Err: err}
	}
	if err := os.MkdirAll(pkgPath, dirPerm); err != nil {
		return &derrors.FilesystemError{Op: "mkdir", Path: pkgPath, Err: err}
	}
	for _, mod := range pkg.Products {
		modPath := ModulePath(mod, pkg, root)
		if err := os.MkdirAll(modPath, dirPerm); err != nil {
			return &derrors.FilesystemError{Op: "mkdir", Path: modPath, Err: err}
		}
	}

	slog.Debug("Prepared package directories",
		logfields.Package(pkg.Name),
		logfields.Path(pkgPath),
		slog.Int("modules", len(pkg.Products)))
	return nil
}

// directChild reports whether child names exactly one entry below parent.
func directChild(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.ContainsRune(rel, filepath.Separator)
}
