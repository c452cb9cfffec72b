package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, SafeWriteFile(p, []byte("one")))
	require.NoError(t, SafeWriteFile(p, []byte("two")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "project.json"), []byte("{}"), 0o644))
	deep := filepath.Join(root, "outputs", "run")
	require.NoError(t, EnsureDir(deep))

	got, err := FindProjectRoot(deep)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = FindProjectRoot(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoProjectRoot))
}
