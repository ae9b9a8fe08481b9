package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	derrors "github.com/dn-m/documentarian/internal/errors"
)

// ScanRoot rebuilds the packages present under <root>/Packages from the
// directory tree, so the home index can list packages generated by earlier
// runs. Packages and their modules are sorted by name.
func ScanRoot(root string) ([]Package, error) {
	packagesDir := filepath.Join(root, "Packages")
	pkgDirs, err := subdirs(packagesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Package{}, nil
		}
		return nil, &derrors.FilesystemError{Op: "scan", Path: packagesDir, Err: err}
	}

	pkgs := make([]Package, 0, len(pkgDirs))
	for _, name := range pkgDirs {
		modulesDir := filepath.Join(packagesDir, name, "Modules")
		modNames, err := subdirs(modulesDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &derrors.FilesystemError{Op: "scan", Path: modulesDir, Err: err}
		}
		pkg := Package{Name: name, Products: make([]Module, 0, len(modNames))}
		for _, m := range modNames {
			pkg.Products = append(pkg.Products, Module{Name: m})
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
