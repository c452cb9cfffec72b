package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/project"
)

var (
	addProjectName string
	addDesc        string
	addInput       inputFlags
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a dataset with a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addProjectName == "" {
			return fmt.Errorf("--project is required")
		}
		projDir, err := resolveProjectDirByName(addProjectName)
		if err != nil {
			return err
		}
		p, err := project.LoadProject(projDir)
		if err != nil {
			return err
		}
		opt, err := addInput.options()
		if err != nil {
			return err
		}
		d, err := p.AddDataset(args[0], addDesc, opt)
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset added: %s (%d rows)\n", d.Name, d.Rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addProjectName, "project", "p", "", "project name")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "dataset description")
	addInput.register(addCmd.Flags())
}
