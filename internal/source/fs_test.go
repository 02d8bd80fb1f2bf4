package source

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for source FS:
// - IsFile is true for regular files, false for directories and missing paths
// - ReadFile returns contents and caches them
// - ReadFile wraps ErrNotFound for missing paths and directories
// - Invalidate forces a re-read after the file changes
// - IsFile answers from the cache until the path is invalidated
// - NewFS with non-positive cache size falls back to the default

func TestFS_IsFile(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/proj/src/a.ts", []byte("export const a = 1;"), 0o644))
	require.NoError(t, mem.MkdirAll("/proj/src/dir.ts", 0o755))

	fs, err := NewFS(mem, 8)
	require.NoError(t, err)

	assert.True(t, fs.IsFile("/proj/src/a.ts"))
	assert.False(t, fs.IsFile("/proj/src/dir.ts"))
	assert.False(t, fs.IsFile("/proj/src/missing.ts"))
}

func TestFS_ReadFileCaches(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/a.ts", []byte("v1"), 0o644))

	fs, err := NewFS(mem, 8)
	require.NoError(t, err)

	text, err := fs.ReadFile("/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "v1", text)

	// Test: cached value is served until invalidated
	require.NoError(t, afero.WriteFile(mem, "/a.ts", []byte("v2"), 0o644))
	text, err = fs.ReadFile("/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "v1", text)

	fs.Invalidate("/a.ts")
	text, err = fs.ReadFile("/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "v2", text)

	// Test: a cached path counts as a file without a stat
	require.NoError(t, mem.Remove("/a.ts"))
	assert.True(t, fs.IsFile("/a.ts"))
	fs.Invalidate("/a.ts")
	assert.False(t, fs.IsFile("/a.ts"))
}

func TestFS_ReadFileNotFound(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/dir", 0o755))

	fs, err := NewFS(mem, 0)
	require.NoError(t, err)

	_, err = fs.ReadFile("/missing.ts")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = fs.ReadFile("/dir")
	assert.True(t, errors.Is(err, ErrNotFound))
}
