package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	namesMap   mapFlags
	namesInput inputFlags
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Inspect the country name table used for map joins",
}

var namesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective name table",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, _, err := namesMap.load()
		if err != nil {
			return err
		}
		for _, e := range tab.Entries() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", e[0], e[1])
		}
		return nil
	},
}

var namesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Join a dataset's retained countries to the boundary names and report gaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(cmd.Context(), args[0], &namesInput, &namesMap)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		matched := 0
		for _, r := range a.Map.Rows {
			mark := "✓"
			if !r.Matched {
				mark = "⚠"
			} else {
				matched++
			}
			fmt.Fprintf(w, "%s %s -> %s (%.2f, n=%d)\n", mark, r.Label, r.Region, r.Value, r.Count)
		}
		fmt.Fprintf(w, "%d of %d regions matched\n", matched, len(a.Map.Rows))
		if len(a.Map.Unmapped) > 0 {
			fmt.Fprintf(w, "without table entry: %v\n", a.Map.Unmapped)
		}
		if len(a.Map.Unmatched) > 0 {
			fmt.Fprintf(w, "missing from boundaries: %v\n", a.Map.Unmatched)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(namesCmd)
	namesCmd.AddCommand(namesShowCmd)
	namesCmd.AddCommand(namesCheckCmd)
	namesMap.register(namesCmd.PersistentFlags())
	namesInput.register(namesCheckCmd.Flags())
}
