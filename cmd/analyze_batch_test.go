package cmd

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/cupscope-cli/internal/project"
)

func TestAnalyzeBatch_AttachWithCollidingNames(t *testing.T) {
	home := isolateHome(t)

	// Two datasets with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	require.NoError(t, os.MkdirAll(d1, 0o755))
	require.NoError(t, os.MkdirAll(d2, 0o755))
	writeDataset(t, d1, "lots.csv")
	writeDataset(t, d2, "lots.csv")
	require.NoError(t, os.WriteFile(filepath.Join(d2, "notes.txt"), []byte("ignored"), 0o644))

	runCmd(t, "init", "batchp", "-d", "batch project")
	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "*"), "-p", "batchp")
	assert.Contains(t, out, "[1/2] Processing lots.csv...")
	assert.Contains(t, out, "✓ Analyzed 2 datasets")

	projDir, err := resolveProjectDirByName("batchp")
	require.NoError(t, err)
	outputs := filepath.Join(projDir, "outputs")
	for _, p := range []string{"lots/report.md", "lots__2/report.md", "lots__2/tables/summary.csv"} {
		_, err := os.Stat(filepath.Join(outputs, p))
		assert.NoError(t, err, p)
	}

	p, err := project.LoadProject(projDir)
	require.NoError(t, err)
	assert.Len(t, p.Datasets, 2)
	assert.Len(t, p.Artifacts, 14)

	// Re-running reuses the registered datasets
	runCmd(t, "analyze-batch", filepath.Join(home, "d*", "lots.csv"), "-p", "batchp", "--quiet")
	p, err = project.LoadProject(projDir)
	require.NoError(t, err)
	assert.Len(t, p.Datasets, 2)
}

func TestAnalyzeBatch_ReportsFailures(t *testing.T) {
	home := isolateHome(t)
	good := writeDataset(t, home, "good.csv")
	bad := filepath.Join(home, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("x,y\n1,2\n"), 0o644))

	_, err := execCmd("analyze-batch", good, bad, "--out", filepath.Join(home, "out"))
	assert.ErrorContains(t, err, "1 of 2 datasets failed")
	_, err = os.Stat(filepath.Join(home, "out", "good", "report.md"))
	assert.NoError(t, err)

	_, err = execCmd("analyze-batch", filepath.Join(home, "*.nothing"))
	assert.Error(t, err)
}

func TestWatchFileRerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lots.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	var runs atomic.Int32
	ran := make(chan struct{}, 4)
	run := func() error {
		runs.Add(1)
		ran <- struct{}{}
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchFile(ctx, path, 20*time.Millisecond, run, zerolog.Nop()) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("b\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("run was not triggered by a write")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]bool{}
	// slugs never keep a double underscore, so real names cannot take a suffix slot
	assert.Equal(t, "data_2", uniqueSlug(used, "data__2"))
	assert.Equal(t, "data", uniqueSlug(used, "data"))
	assert.Equal(t, "data__2", uniqueSlug(used, "data"))
	assert.Equal(t, "data__3", uniqueSlug(used, "Data"))

	taken := map[string]bool{"lots__2": true}
	assert.Equal(t, "lots", uniqueSlug(taken, "lots"))
	assert.Equal(t, "lots__3", uniqueSlug(taken, "lots"))
}

func TestAnalyzeBatch_SuffixDoesNotClobberRealName(t *testing.T) {
	home := isolateHome(t)
	for _, d := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(home, d), 0o755))
		writeDataset(t, filepath.Join(home, d), "data.csv")
	}
	writeDataset(t, filepath.Join(home, "a"), "data__2.csv")
	out := filepath.Join(home, "out")

	runCmd(t, "analyze-batch", filepath.Join(home, "*", "*.csv"), "--out", out, "--quiet")
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"data", "data_2", "data__2"}, names)
}
