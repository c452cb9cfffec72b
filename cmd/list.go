package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/project"
)

var (
	listProjects bool
	listDatasets bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjects == listDatasets { // either both true or both false
			return fmt.Errorf("specify exactly one of --projects or --datasets")
		}
		w := cmd.OutOrStdout()
		if listProjects {
			return listAllProjects(w)
		}
		if listProjName == "" {
			return fmt.Errorf("--project is required when using --datasets")
		}
		projDir, err := resolveProjectDirByName(listProjName)
		if err != nil {
			return err
		}
		p, err := project.LoadProject(projDir)
		if err != nil {
			return err
		}
		ds := p.SortedDatasets()
		if len(ds) == 0 {
			fmt.Fprintln(w, "(no datasets)")
			return nil
		}
		for _, d := range ds {
			fmt.Fprintf(w, "- %s: %s (%d rows)", d.ID, d.Name, d.Rows)
			if d.Description != "" {
				fmt.Fprintf(w, " %s", d.Description)
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

func listAllProjects(w io.Writer) error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), "project.json")); err == nil {
			fmt.Fprintf(w, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(w, "(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --datasets")
}
