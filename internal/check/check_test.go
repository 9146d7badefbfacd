package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docshell/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Section{
		{Name: "Guide", Topics: []catalog.Topic{
			{Path: "/home", Title: "Welcome", Anchors: []string{"how-to-read"}},
			{Path: "/intro/setup", Title: "Setup"},
		}},
	}, "/home")
	require.NoError(t, err)
	return cat
}

func write(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestRun_AllGood(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "home.html", `<h1>Welcome</h1><h2 id="how-to-read">How to read</h2>`)
	write(t, dir, "intro/setup.html", "<h1>Setup</h1>")

	result := Run(testCatalog(t), dir)

	assert.True(t, result.Ok())
	assert.Equal(t, 2, result.Topics)
	assert.Equal(t, 2, result.Checked)
}

func TestRun_MissingContent(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "home.html", `<h2 id="how-to-read">How to read</h2>`)

	result := Run(testCatalog(t), dir)

	require.False(t, result.Ok())
	require.Len(t, result.Problems, 1)
	assert.Contains(t, result.Problems[0].Error(), "/intro/setup")
	assert.Contains(t, result.Problems[0].Error(), "missing")
}

func TestRun_EmptyContent(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "home.html", `<h2 id="how-to-read">x</h2>`)
	write(t, dir, "intro/setup.html", "   \n")

	result := Run(testCatalog(t), dir)

	require.False(t, result.Ok())
	assert.Contains(t, result.Problems[0].Error(), "empty")
}

func TestRun_MissingAnchor(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "home.html", "<h1>Welcome</h1>")
	write(t, dir, "intro/setup.html", "<h1>Setup</h1>")

	result := Run(testCatalog(t), dir)

	require.False(t, result.Ok())
	require.Len(t, result.Problems, 1)
	assert.Contains(t, result.Problems[0].Error(), `anchor "how-to-read"`)
}

func TestCollectIDs(t *testing.T) {
	ids, err := collectIDs([]byte(`
		<h1 id="top">Title</h1>
		<section><p id="deep">text</p></section>
		<span id="">empty ignored</span>`))
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"top": true, "deep": true}, ids)
}
