package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
)

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "com", "acme"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".git", "objects"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "generated"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "Main.java"), []byte("class Main {}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "com", "acme", "Core.java"), []byte("class Core {}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".git", "config"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "generated", "Gen.java"), []byte("x"), 0o600))

	files := make([]string, 0)
	for path, info := range fs.NewWalker().WalkFiles(tmpDir, []string{"generated"}) {
		assert.False(t, info.IsDir())
		files = append(files, path)
	}

	assert.ElementsMatch(t, []string{
		filepath.Join(tmpDir, "Main.java"),
		filepath.Join(tmpDir, "com", "acme", "Core.java"),
	}, files)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	count := 0
	for range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		count++
	}
	assert.Zero(t, count)
}
