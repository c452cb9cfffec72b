package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/ingest"
	"github.com/KaramelBytes/cupscope-cli/internal/project"
)

var (
	abProject string
	abOutDir  string
	abCharts  bool
	abQuiet   bool
	abInput   inputFlags
	abMap     mapFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX datasets with progress and optional project attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		var p *project.Project
		if abProject != "" {
			projDir, err := resolveProjectDirByName(abProject)
			if err != nil {
				return err
			}
			pp, err := project.LoadProject(projDir)
			if err != nil {
				return err
			}
			p = pp
		}
		opt, err := abInput.options()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		used := map[string]bool{}
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			a, err := analyzeFile(cmd.Context(), path, &abInput, &abMap)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s: %v\n", filepath.Base(path), err)
				continue
			}
			datasetID := ""
			var dir string
			if p != nil {
				d, err := findOrAddDataset(p, path, opt)
				if err != nil {
					return err
				}
				d.Rows, d.Samples = a.Dataset.Rows, len(a.Dataset.Samples)
				datasetID = d.ID
				dir = datasetDirs(p)[d.ID]
			} else {
				dir = filepath.Join(abOutDir, uniqueSlug(used, baseName(path)))
			}
			o := outputFlags{
				markdown:    filepath.Join(dir, "report.md"),
				xlsx:        filepath.Join(dir, "summary.xlsx"),
				csvDir:      filepath.Join(dir, "tables"),
				chartFormat: "png",
				seed:        1,
			}
			if abCharts {
				o.chartsDir = filepath.Join(dir, "charts")
			}

			written, err := writeOutputs(a, o)
			if p != nil {
				for _, art := range written {
					p.RecordArtifact(art.kind, art.path, datasetID)
				}
			}
			if err != nil {
				return err
			}
			if !abQuiet {
				fmt.Fprintf(w, "  ✓ %d samples, %d countries retained -> %s\n", len(a.Result.Cleaned), len(a.Result.Retained), dir)
			}
		}
		if p != nil {
			if err := p.Save(); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d datasets failed", failed, total)
		}
		fmt.Fprintf(w, "✓ Analyzed %d datasets\n", total)
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates and
// files no reader supports.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || !ingest.Supported(m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func findOrAddDataset(p *project.Project, path string, opt ingest.Options) (*project.Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	for _, d := range p.Datasets {
		if d.Path == abs {
			return d, nil
		}
	}
	return p.AddDataset(abs, "", opt)
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	f := analyzeBatchCmd.Flags()
	f.StringVarP(&abProject, "project", "p", "", "project to register datasets and outputs with")
	f.StringVar(&abOutDir, "out", "cupscope-out", "output root when no project is given")
	f.BoolVar(&abCharts, "charts", false, "also render charts for each dataset")
	f.BoolVar(&abQuiet, "quiet", false, "suppress per-file progress")
	abInput.register(f)
	abMap.register(f)
}
