package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/report"
)

var (
	tblView  string
	tblInput inputFlags
)

var tableCmd = &cobra.Command{
	Use:   "table <file>",
	Short: "Print one result table of a dataset",
	Long:  "Print one result table as aligned text. Views: " + strings.Join(report.Views(), ", ") + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(cmd.Context(), args[0], &tblInput, &mapFlags{})
		if err != nil {
			return err
		}
		if err := report.FprintTable(cmd.OutOrStdout(), tblView, a.Result); err != nil {
			return err
		}
		if len(a.Result.Retained) == 0 && tblView == report.ViewSummary {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ no country reaches the sample threshold")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().StringVar(&tblView, "view", report.ViewSummary, "table to print: "+strings.Join(report.Views(), "|"))
	tblInput.register(tableCmd.Flags())
}
