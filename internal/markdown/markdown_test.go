package markdown

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_GFM(t *testing.T) {
	r := New(Options{})

	out, err := r.Render([]byte("# Structure\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~ https://dn-m.github.io\n"))
	require.NoError(t, err)
	html := string(out)
	require.Contains(t, html, `<h1 id="structure">Structure</h1>`)
	require.Contains(t, html, "<table>")
	require.Contains(t, html, "<del>old</del>")
	require.Contains(t, html, `<a href="https://dn-m.github.io">https://dn-m.github.io</a>`)
}

func TestRender_RawHTML(t *testing.T) {
	src := []byte("<img src=\"badge.svg\">\n")

	safe, err := New(Options{}).Render(src)
	require.NoError(t, err)
	require.NotContains(t, string(safe), "<img")

	unsafe, err := New(Options{Unsafe: true}).Render(src)
	require.NoError(t, err)
	require.Contains(t, string(unsafe), `<img src="badge.svg">`)
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello *world*\n"), 0o600))

	out, err := New(Options{}).RenderFile(path)
	require.NoError(t, err)
	require.Equal(t, "<p>Hello <em>world</em></p>\n", string(out))

	_, err = New(Options{}).RenderFile(filepath.Join(dir, "missing.md"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
