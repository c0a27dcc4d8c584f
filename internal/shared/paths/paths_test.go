package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsAndIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, Exists(file))
	assert.True(t, IsFile(file))
	assert.True(t, Exists(dir))
	assert.False(t, IsFile(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
	assert.False(t, Exists(""))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/docs", "img", "a.png"), Resolve("/docs", "img/a.png"))
	assert.Equal(t, filepath.Join("/docs", "a b.png"), Resolve("/docs", "a b.png"))
	assert.Equal(t, "a.png", Resolve("", "./a.png"))
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want bool
	}{
		{"child", "/tmp/images", "/tmp/images/a.png", true},
		{"nested", "/tmp/images", "/tmp/images/x/a.png", true},
		{"root itself", "/tmp/images", "/tmp/images", true},
		{"parent escape", "/tmp/images", "/tmp/images/../secret", false},
		{"sibling prefix", "/tmp/images", "/tmp/images2/a.png", false},
		{"empty root", "", "/tmp/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(tt.root, tt.path))
		})
	}
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "doc.adoc", ReplaceExt("doc.html", ".html", ".adoc"))
	assert.Equal(t, "dir/doc.md", ReplaceExt("dir/doc.html", ".html", ".md"))
}

func TestTempImagesDirLifecycle(t *testing.T) {
	dir, err := CreateTempImagesDir(t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(dir), TempImagesPrefix)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diagram.svg"), []byte("<svg/>"), 0o644))

	require.NoError(t, RemoveTempImagesDir(dir))
	assert.False(t, Exists(dir))

	// Second removal is a no-op
	assert.NoError(t, RemoveTempImagesDir(dir))
	assert.NoError(t, RemoveTempImagesDir(""))
}
