// Package testutil provides shared fixtures for tests: in-memory config
// trees, registry builders, and throwaway history databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/resource"
)

// MemFs builds an in-memory filesystem containing the given files.
func MemFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

// MemResolver wraps an in-memory tree in a resource resolver.
func MemResolver(t *testing.T, files map[string]string) *resource.Resolver {
	t.Helper()
	return resource.NewResolver(MemFs(t, files))
}

// WriteTree writes files under dir on the real filesystem, creating parent
// directories as needed. Paths are slash-separated and relative to dir.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}
