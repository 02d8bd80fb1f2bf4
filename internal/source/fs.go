package source

import (
	"errors"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

// DefaultCacheSize is the number of file contents kept in memory.
const DefaultCacheSize = 1024

// ErrNotFound indicates that a path does not exist or is not a regular file.
var ErrNotFound = errors.New("file not found")

// FS reads source files and answers existence checks for the locator.
// File contents are cached by path; Invalidate drops stale entries when a
// watcher reports a change.
type FS struct {
	fs    afero.Fs
	cache *lru.Cache[string, string]
}

// NewFS wraps an afero filesystem. A non-positive cacheSize uses DefaultCacheSize.
func NewFS(fs afero.Fs, cacheSize int) (*FS, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create file cache: %w", err)
	}

	return &FS{fs: fs, cache: cache}, nil
}

// IsFile reports whether path exists and is a regular file.
func (f *FS) IsFile(path string) bool {
	if _, ok := f.cache.Get(path); ok {
		return true
	}
	info, err := f.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ReadFile returns the text of path. Missing files and directories return
// an error wrapping ErrNotFound.
func (f *FS) ReadFile(path string) (string, error) {
	if text, ok := f.cache.Get(path); ok {
		return text, nil
	}

	info, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(data)
	f.cache.Add(path, text)
	return text, nil
}

// Invalidate removes cached contents for the given paths.
func (f *FS) Invalidate(paths ...string) {
	for _, p := range paths {
		f.cache.Remove(p)
	}
}
