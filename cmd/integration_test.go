package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/cupscope-cli/internal/project"
)

// resetFlags restores every flag to its default so state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// isolateHome points HOME at a temp dir so config and projects stay local to the test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeDataset(t *testing.T, dir, name string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("total_cup_points,country_of_origin,processing_method,variety,aroma,flavor,aftertaste,acidity,body,balance,uniformity,clean_cup,sweetness\n")
	row := func(score, country, method string) {
		fmt.Fprintf(&b, "%s,%s,%s,Typica,7.5,7.6,7.4,7.5,7.3,7.5,10,10,10\n", score, country, method)
	}
	for _, s := range []string{"88.1", "86.5", "87.0", "90.2", "85.3", "84.9"} {
		row(s, "Ethiopia", "Washed / Wet")
	}
	for _, s := range []string{"83.0", "82.4", "84.1", "81.9", "80.5"} {
		row(s, "United States", "Natural / Dry")
	}
	row("79.0", "Peru", "")
	row("NA", "Peru", "Washed / Wet")
	row("81.0", "", "Washed / Wet")
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func TestCLI_AnalyzeStdout(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "arabica.csv")

	out := runCmd(t, "analyze", data)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "Samples: 12 (dropped 2: 1 missing score, 1 missing country)")
	assert.Contains(t, out, "| Ethiopia | 6 |")
	assert.Contains(t, out, "| United States | 5 |")
	assert.NotContains(t, out, "| Peru |")

	out = runCmd(t, "analyze", data, "--min-samples", "6")
	assert.NotContains(t, out, "| United States |")
}

func TestCLI_AnalyzeWritesOutputs(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "arabica.csv")
	outDir := filepath.Join(home, "out")

	runCmd(t, "analyze", data,
		"-o", filepath.Join(outDir, "report.md"),
		"--xlsx", filepath.Join(outDir, "summary.xlsx"),
		"--csv", filepath.Join(outDir, "tables"),
		"--charts", filepath.Join(outDir, "charts"), "--chart-format", "svg")

	for _, p := range []string{
		"report.md", "summary.xlsx",
		"tables/summary.csv", "tables/profiles.csv", "tables/radar.csv", "tables/long.csv", "tables/map.csv",
		"charts/quality.svg", "charts/methods.svg", "charts/countries.svg", "charts/scores.svg",
		"charts/radar_ethiopia.svg", "charts/radar_united_states.svg",
	} {
		_, err := os.Stat(filepath.Join(outDir, p))
		assert.NoError(t, err, p)
	}
	b, err := os.ReadFile(filepath.Join(outDir, "tables", "map.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "USA")
}

func TestCLI_Init_Add_Analyze_Project(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "arabica.csv")

	runCmd(t, "init", "itest", "-d", "integration test")
	out := runCmd(t, "add", "-p", "itest", data, "--desc", "first lot")
	assert.Contains(t, out, "✓ Dataset added: arabica.csv (14 rows)")

	out = runCmd(t, "list", "--datasets", "-p", "itest")
	assert.Contains(t, out, "arabica.csv (14 rows) first lot")
	out = runCmd(t, "list", "--projects")
	assert.Contains(t, out, "- itest")

	out = runCmd(t, "analyze", "-p", "itest")
	assert.Contains(t, out, "✓ Analyzed arabica.csv: 12 samples, 2 countries retained")

	dir, err := resolveProjectDirByName("itest")
	require.NoError(t, err)
	p, err := project.LoadProject(dir)
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, a := range p.Artifacts {
		kinds[a.Kind]++
		_, err := os.Stat(a.Path)
		assert.NoError(t, err, a.Path)
	}
	assert.Equal(t, 1, kinds[project.KindReport])
	assert.Equal(t, 1, kinds[project.KindXLSX])
	assert.Equal(t, 5, kinds[project.KindCSV])

	out = runCmd(t, "project", "show", "itest")
	assert.Contains(t, out, "Datasets (1):")
	assert.Contains(t, out, "Artifacts (7):")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(p.OutputDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	out = runCmd(t, "project", "show")
	assert.Contains(t, out, "Project: itest")

	_, err = execCmd("init", "itest")
	assert.Error(t, err, "init must refuse an existing project")
}

func TestCLI_Table(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "arabica.csv")

	out := runCmd(t, "table", data)
	assert.Contains(t, out, "country")
	assert.Contains(t, out, "Ethiopia")
	assert.Less(t, strings.Index(out, "Ethiopia"), strings.Index(out, "United States"))

	out = runCmd(t, "table", data, "--view", "methods", "--top-methods", "1")
	assert.Contains(t, out, "Washed / Wet")
	assert.Contains(t, out, "Other")
	assert.NotContains(t, out, "Natural / Dry")

	_, err := execCmd("table", data, "--view", "bogus")
	assert.Error(t, err)
}

func TestCLI_NamesCheck(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "arabica.csv")
	bounds := filepath.Join(home, "regions.txt")
	require.NoError(t, os.WriteFile(bounds, []byte("USA\nKenya\n"), 0o644))

	out := runCmd(t, "names", "check", data, "--boundaries", bounds)
	assert.Contains(t, out, "✓ United States -> USA")
	assert.Contains(t, out, "⚠ Ethiopia -> Ethiopia")
	assert.Contains(t, out, "1 of 2 regions matched")

	out = runCmd(t, "names", "show")
	assert.Contains(t, out, "United States -> USA")
}

func TestCLI_ConfigSetShow(t *testing.T) {
	isolateHome(t)
	runCmd(t, "config", "set", "min_sample_threshold", "3")
	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "min_sample_threshold: 3")

	_, err := execCmd("config", "set", "sort_by", "loudness")
	assert.Error(t, err)
	_, err = execCmd("config", "set", "unknown_key", "1")
	assert.Error(t, err)
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolateHome(t)
	bad := filepath.Join(home, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1,2\n"), 0o644))
	_, err := execCmd("analyze", bad)
	assert.ErrorContains(t, err, "total_cup_points")

	_, err = execCmd("analyze")
	assert.Error(t, err)

	_, err = execCmd("analyze", bad, "--top-methods", "1", "--sort-by", "loudness")
	assert.Error(t, err)
}

func TestCLI_AnalyzeHeaderOnlyDataset(t *testing.T) {
	home := isolateHome(t)
	data := filepath.Join(home, "empty.csv")
	require.NoError(t, os.WriteFile(data,
		[]byte("total_cup_points,country_of_origin,processing_method,variety,aroma,flavor\n"), 0o644))
	outDir := filepath.Join(home, "out")

	runCmd(t, "analyze", data,
		"-o", filepath.Join(outDir, "report.md"),
		"--xlsx", filepath.Join(outDir, "summary.xlsx"),
		"--csv", filepath.Join(outDir, "tables"),
		"--charts", filepath.Join(outDir, "charts"), "--chart-format", "svg")

	b, err := os.ReadFile(filepath.Join(outDir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Samples: 0 (dropped 0")
	assert.Contains(t, string(b), "no country reaches the sample threshold")
	for _, p := range []string{"summary.xlsx", "tables/summary.csv", "tables/map.csv", "charts/quality.svg", "charts/scores.svg"} {
		_, err := os.Stat(filepath.Join(outDir, p))
		assert.NoError(t, err, p)
	}
	sum, err := os.ReadFile(filepath.Join(outDir, "tables", "summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(sum), "\n"), "header only")
}

func TestCLI_AnalyzeProjectSameFileNames(t *testing.T) {
	home := isolateHome(t)
	for _, d := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(home, d), 0o755))
		writeDataset(t, filepath.Join(home, d), "data.csv")
	}
	runCmd(t, "init", "twins")
	runCmd(t, "add", "-p", "twins", filepath.Join(home, "a", "data.csv"))
	runCmd(t, "add", "-p", "twins", filepath.Join(home, "b", "data.csv"))

	runCmd(t, "analyze", "-p", "twins")
	dir, err := resolveProjectDirByName("twins")
	require.NoError(t, err)
	p, err := project.LoadProject(dir)
	require.NoError(t, err)
	for _, rel := range []string{"data/report.md", "data__2/report.md"} {
		_, err := os.Stat(filepath.Join(p.OutputDir(), rel))
		assert.NoError(t, err, rel)
	}
	paths := map[string]bool{}
	for _, a := range p.Artifacts {
		paths[a.Path] = true
	}
	assert.Len(t, p.Artifacts, 14)
	assert.Len(t, paths, 14)

	// re-running replaces the recorded files instead of adding new entries
	second := p.SortedDatasets()[1]
	runCmd(t, "analyze", "-p", "twins")
	out := runCmd(t, "analyze", "-p", "twins", "--dataset", second.ID)
	assert.Contains(t, out, filepath.Join(p.OutputDir(), "data__2"))
	p, err = project.LoadProject(dir)
	require.NoError(t, err)
	assert.Len(t, p.Artifacts, 14)
}

func TestCLI_ConfigShowSortsSensoryColumns(t *testing.T) {
	home := isolateHome(t)
	cfgPath := filepath.Join(home, "cupscope.yaml")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte("columns:\n  sensory:\n    sweetness: Sweet\n    aroma: Aroma.Col\n    flavor: Flav\n"), 0o644))

	for i := 0; i < 3; i++ {
		out := runCmd(t, "config", "show", "--config", cfgPath)
		ia := strings.Index(out, "columns.sensory.aroma: Aroma.Col")
		iflav := strings.Index(out, "columns.sensory.flavor: Flav")
		is := strings.Index(out, "columns.sensory.sweetness: Sweet")
		require.True(t, ia >= 0 && iflav >= 0 && is >= 0, out)
		assert.Less(t, ia, iflav)
		assert.Less(t, iflav, is)
	}
}
