package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, c.MinSampleThreshold)
	assert.Equal(t, 5, c.TopMethods)
	assert.Equal(t, "mean", c.SortBy)
	assert.Equal(t, 10.0, c.RadarMax)
	assert.Equal(t, "total_cup_points", c.Columns.Score)
	assert.Equal(t, filepath.Join(home, ".cupscope", "projects"), c.ProjectsDir)

	o, err := c.PipelineOptions()
	require.NoError(t, err)
	assert.Equal(t, pipeline.SortMean, o.SortBy)
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("min_sample_threshold: 3\nsort_by: median\ncolumns:\n  score: Total.Cup.Points\n  sensory:\n    clean_cup: Clean.Cup\n"), 0o644))
	t.Setenv("CUPSCOPE_TOP_METHODS", "7")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, c.MinSampleThreshold)
	assert.Equal(t, 7, c.TopMethods)
	assert.Equal(t, "median", c.SortBy)
	assert.Equal(t, "Total.Cup.Points", c.Columns.Score)
	assert.Equal(t, "country_of_origin", c.Columns.Country)
	assert.Equal(t, "Clean.Cup", c.Columns.Sensory["clean_cup"])
}

func TestDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("CUPSCOPE_WORKERS=4\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CUPSCOPE_WORKERS") })
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Workers)
}

func TestSetSaveRoundTrip(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)

	require.NoError(t, c.Set("min_sample_threshold", "8"))
	require.NoError(t, c.Set("sort_by", "COUNT"))
	require.NoError(t, c.Set("columns.country", "Country.of.Origin"))
	assert.Error(t, c.Set("top_methods", "0"))
	assert.Error(t, c.Set("sort_by", "loudness"))
	assert.Error(t, c.Set("workers", "-1"))
	assert.Error(t, c.Set("nope", "1"))
	require.NoError(t, c.Set("attributes", "aroma, Flavor,clean cup"))
	assert.Error(t, c.Set("attributes", "aroma,crema"))

	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(c, p))
	back, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 8, back.MinSampleThreshold)
	assert.Equal(t, "count", back.SortBy)
	assert.Equal(t, "Country.of.Origin", back.Columns.Country)
	o, err := back.PipelineOptions()
	require.NoError(t, err)
	assert.Equal(t, []coffee.Attribute{coffee.Aroma, coffee.Flavor, coffee.CleanCup}, o.Attributes)

	for _, k := range Keys() {
		_, err := back.Get(k)
		assert.NoError(t, err, k)
	}
}
