package layout

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/manifest"
)

var structure = manifest.Package{
	Name:     "Structure",
	Products: []manifest.Module{{Name: "DataStructures"}, {Name: "Algorithms"}},
}

func TestModulePathLaw(t *testing.T) {
	for _, root := range []string{"out", "/srv/site", "."} {
		for _, mod := range structure.Products {
			require.Equal(t,
				filepath.Join(PackagePath(structure, root), "Modules", mod.Name),
				ModulePath(mod, structure, root))
		}
	}
	require.Equal(t, filepath.Join("out", "Packages", "Structure"), PackagePath(structure, "out"))
}

func TestIndexPaths(t *testing.T) {
	mod := structure.Products[0]
	require.Equal(t, filepath.Join("out", "index.html"), HomeIndexPath("out"))
	require.Equal(t, filepath.Join("out", "Packages", "Structure", "index.html"), PackageIndexPath(structure, "out"))
	require.Equal(t, filepath.Join("out", "Packages", "Structure", "Modules", "DataStructures", "index.html"),
		ModuleIndexPath(mod, structure, "out"))
}

func TestLinks(t *testing.T) {
	mod := structure.Products[1]
	require.Equal(t, "Packages/Structure/index.html", PackageLink(structure))
	require.Equal(t, "Modules/Algorithms/index.html", ModuleLinkFromPackage(mod))
	require.Equal(t, "Packages/Structure/Modules/Algorithms/index.html", ModuleLinkFromHome(mod, structure))
}

func TestAssetsLink(t *testing.T) {
	require.Equal(t, "Documentarian", AssetsLink("Documentarian", 0))
	require.Equal(t, "../../Documentarian", AssetsLink("Documentarian", 2))
}

func TestPrepare_CreatesEmptyModuleDirs(t *testing.T) {
	root := t.TempDir()
	pkg := manifest.Package{Name: "Demo", Products: []manifest.Module{{Name: "Core"}}}

	require.NoError(t, Prepare(pkg, root))

	entries, err := os.ReadDir(filepath.Join(root, "Packages", "Demo", "Modules", "Core"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestPrepare_IsIdempotentAndClearsStaleContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Prepare(structure, root))

	stale := filepath.Join(ModulePath(structure.Products[0], structure, root), "old.html")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o600))
	orphan := filepath.Join(PackagePath(structure, root), "Modules", "Removed")
	require.NoError(t, os.MkdirAll(orphan, 0o750))

	require.NoError(t, Prepare(structure, root))
	first := tree(t, root)
	require.NoError(t, Prepare(structure, root))
	require.Equal(t, first, tree(t, root))

	require.Equal(t, []string{
		"Packages",
		"Packages/Structure",
		"Packages/Structure/Modules",
		"Packages/Structure/Modules/Algorithms",
		"Packages/Structure/Modules/DataStructures",
	}, first)
}

func TestPrepare_LeavesOtherPackagesAlone(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(root, "Packages", "Algebra", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(other), 0o750))
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0o600))

	require.NoError(t, Prepare(structure, root))
	require.FileExists(t, other)
}

func TestPrepare_ZeroModules(t *testing.T) {
	root := t.TempDir()
	empty := manifest.Package{Name: "Empty"}

	require.NoError(t, Prepare(empty, root))

	entries, err := os.ReadDir(PackagePath(empty, root))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestPrepare_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	err := Prepare(structure, root)
	var fsErr *derrors.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	require.Equal(t, root, fsErr.Path)
	require.NoDirExists(t, root)
}

func TestPrepare_DeniedRoot(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o500))
	t.Cleanup(func() { _ = os.Chmod(root, 0o750) })

	err := Prepare(structure, root)
	var fsErr *derrors.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	require.Equal(t, "mkdir", fsErr.Op)
}

func TestPrepare_RefusesPathsOutsidePackages(t *testing.T) {
	cases := map[string]manifest.Package{
		"parent package":  {Name: ".."},
		"current package": {Name: "."},
		"empty package":   {Name: ""},
		"nested package":  {Name: "a/b"},
		"escaping module": {Name: "Demo", Products: []manifest.Module{{Name: "../../x"}}},
		"parent module":   {Name: "Demo", Products: []manifest.Module{{Name: ".."}}},
		"nested module":   {Name: "Demo", Products: []manifest.Module{{Name: "a/b"}}},
	}
	for name, pkg := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			sentinel := filepath.Join(root, "CNAME")
			require.NoError(t, os.WriteFile(sentinel, []byte("dn-m.github.io"), 0o600))
			other := filepath.Join(root, "Packages", "Other", "index.html")
			require.NoError(t, os.MkdirAll(filepath.Dir(other), 0o750))
			require.NoError(t, os.WriteFile(other, []byte("keep"), 0o600))
			before := tree(t, root)

			err := Prepare(pkg, root)
			var fsErr *derrors.FilesystemError
			require.ErrorAs(t, err, &fsErr)
			require.Equal(t, "prepare", fsErr.Op)
			require.FileExists(t, sentinel)
			require.FileExists(t, other)
			require.Equal(t, before, tree(t, root))
		})
	}
}

func tree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return out
}
