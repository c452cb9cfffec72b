package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/render"
)

var (
	rndOutDir string
	rndFormat string
	rndSeed   int64
	rndInput  inputFlags
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render quality, method and country bars, the score scatter and radar charts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analyzeFile(cmd.Context(), args[0], &rndInput, &mapFlags{})
		if err != nil {
			return err
		}
		lo, hi := radarBounds()
		paths, err := renderCharts(rndOutDir, a.Result, rndFormat, rndSeed, render.Bounds{Min: lo, Max: hi})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Rendered %d charts into %s\n", len(paths), rndOutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&rndOutDir, "out", "charts", "output directory")
	renderCmd.Flags().StringVar(&rndFormat, "format", "png", "image format: png|svg|pdf")
	renderCmd.Flags().Int64Var(&rndSeed, "seed", 1, "jitter seed for the score scatter")
	rndInput.register(renderCmd.Flags())
}
