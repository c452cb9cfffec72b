package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/project"
)

var (
	anaProject string
	anaDataset string
	anaInput   inputFlags
	anaMap     mapFlags
	anaOut     outputFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Clean, classify and summarize a cupping dataset",
	Long: `Analyze a CSV/TSV/XLSX cupping dataset and print a Markdown report.

With --project, the dataset may be omitted: every dataset registered in the project
(or the one named by --dataset) is analyzed and all outputs are written under the
project's outputs/ directory and recorded as artifacts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if anaProject == "" {
			if len(args) == 0 {
				return fmt.Errorf("a dataset file is required unless --project is set")
			}
			a, err := analyzeFile(cmd.Context(), args[0], &anaInput, &anaMap)
			if err != nil {
				return err
			}
			written, err := writeOutputs(a, anaOut)
			if err != nil {
				return err
			}
			for _, w := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s %s\n", w.kind, w.path)
			}
			if anaOut.markdown == "" {
				fmt.Fprintln(cmd.OutOrStdout(), a.Report.Markdown())
			}
			return nil
		}
		return analyzeProject(cmd, args)
	},
}

func analyzeProject(cmd *cobra.Command, args []string) error {
	projDir, err := resolveProjectDirByName(anaProject)
	if err != nil {
		return err
	}
	p, err := project.LoadProject(projDir)
	if err != nil {
		return err
	}
	var targets []*project.Dataset
	switch {
	case len(args) == 1:
		opt, err := anaInput.options()
		if err != nil {
			return err
		}
		d, err := findOrAddDataset(p, args[0], opt)
		if err != nil {
			return err
		}
		targets = []*project.Dataset{d}
	case anaDataset != "":
		d, err := p.FindDataset(anaDataset)
		if err != nil {
			return err
		}
		targets = []*project.Dataset{d}
	default:
		targets = p.SortedDatasets()
	}
	if len(targets) == 0 {
		return fmt.Errorf("project '%s' has no datasets; add one with 'cupscope add -p %s <file>'", p.Name, p.Name)
	}

	dirs := datasetDirs(p)
	for _, d := range targets {
		a, err := analyzeFile(cmd.Context(), d.Path, &anaInput, &anaMap)
		if err != nil {
			return err
		}
		d.Rows, d.Samples = a.Dataset.Rows, len(a.Dataset.Samples)
		dir := dirs[d.ID]
		o := anaOut
		o.markdown = filepath.Join(dir, "report.md")
		o.xlsx = filepath.Join(dir, "summary.xlsx")
		o.csvDir = filepath.Join(dir, "tables")
		if anaOut.chartsDir != "" {
			o.chartsDir = filepath.Join(dir, "charts")
		}
		written, err := writeOutputs(a, o)
		for _, w := range written {
			p.RecordArtifact(w.kind, w.path, d.ID)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Analyzed %s: %d samples, %d countries retained (%d files in %s)\n",
			d.Name, len(a.Result.Cleaned), len(a.Result.Retained), len(written), dir)
	}
	if err := p.Save(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	f := analyzeCmd.Flags()
	f.StringVarP(&anaProject, "project", "p", "", "project name to analyze into")
	f.StringVar(&anaDataset, "dataset", "", "with --project: dataset name or id to analyze (default all)")
	anaInput.register(f)
	anaMap.register(f)
	anaOut.register(f)
}
