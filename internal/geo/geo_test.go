package geo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNormalize(t *testing.T) {
	tab := DefaultTable()
	assert.Equal(t, "USA", tab.Normalize("United States"))
	assert.Equal(t, "Ethiopia", tab.Normalize("Ethiopia"))
	// exact match only
	assert.Equal(t, "united states", tab.Normalize("united states"))
}

func TestTableUnicodeForms(t *testing.T) {
	tab := NewTable(map[string]string{"Curaçao": "Curacao"})
	// decomposed c + combining cedilla
	assert.Equal(t, "Curacao", tab.Normalize("Curac\u0327ao"))
}

func TestLoadTableAndMerge(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "names.yaml")
	require.NoError(t, os.WriteFile(p, []byte("United States: United States of America\nLaos: Lao PDR\n"), 0o644))
	extra, err := LoadTable(p)
	require.NoError(t, err)
	assert.Equal(t, 2, extra.Len())

	tab := DefaultTable().Merge(extra)
	assert.Equal(t, "United States of America", tab.Normalize("United States"))
	assert.Equal(t, "Lao PDR", tab.Normalize("Laos"))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- a\n- b\n"), 0o644))
	_, err = LoadTable(bad)
	assert.True(t, errors.Is(err, ErrInvalidTable), "got %v", err)
}

func TestLoadBoundaries(t *testing.T) {
	p := filepath.Join(t.TempDir(), "regions.txt")
	require.NoError(t, os.WriteFile(p, []byte("# world\nUSA\n\n  Ethiopia  \n"), 0o644))
	b, err := LoadBoundaries(p)
	require.NoError(t, err)
	assert.Len(t, b, 2)
	assert.True(t, b.Has("Ethiopia"))
	assert.False(t, b.Has("# world"))
}

func TestJoinWithoutBoundaries(t *testing.T) {
	res := Join([]Row{{Label: "United States", Value: 84}, {Label: "Kenya", Value: 86}}, DefaultTable(), nil)
	require.Len(t, res.Rows, 2)
	assert.True(t, res.Rows[0].Matched)
	assert.True(t, res.Rows[1].Matched)
	assert.Equal(t, []string{"Kenya"}, res.Unmapped)
	assert.Empty(t, res.Unmatched)
}
