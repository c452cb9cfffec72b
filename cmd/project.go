package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/project"
	"github.com/KaramelBytes/cupscope-cli/internal/utils"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect projects",
}

var projectShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a project's datasets and recorded artifacts",
	Long:  "Show a project by name, or the project containing the current directory when no name is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		var err error
		if len(args) == 1 {
			dir, err = resolveProjectDirByName(args[0])
		} else {
			dir, err = utils.FindProjectRoot("")
		}
		if err != nil {
			return err
		}
		p, err := project.LoadProject(dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Project: %s\n", p.Name)
		if p.Description != "" {
			fmt.Fprintf(w, "Description: %s\n", p.Description)
		}
		fmt.Fprintf(w, "Location: %s\n", p.RootDir())
		fmt.Fprintf(w, "Updated: %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))

		names := map[string]string{}
		fmt.Fprintf(w, "\nDatasets (%d):\n", len(p.Datasets))
		for _, d := range p.SortedDatasets() {
			names[d.ID] = d.Name
			fmt.Fprintf(w, "- %s: %d rows, %d samples\n", d.Name, d.Rows, d.Samples)
		}
		fmt.Fprintf(w, "\nArtifacts (%d):\n", len(p.Artifacts))
		for _, a := range p.SortedArtifacts() {
			rel, err := filepath.Rel(p.RootDir(), a.Path)
			if err != nil {
				rel = a.Path
			}
			src := names[a.DatasetID]
			if src == "" {
				src = "-"
			}
			fmt.Fprintf(w, "- [%s] %s (from %s, %s)\n", a.Kind, rel, src, a.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectShowCmd)
}
