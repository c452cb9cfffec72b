package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/cupscope-cli/internal/config"
	"github.com/KaramelBytes/cupscope-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Pipeline flags (override config if set)
	flagMinSamples int
	flagTopMethods int
	flagWorkers    int
	flagSortBy     string

	// Loaded configuration
	cfg *cfgpkg.Global
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "cupscope",
	Short: "cupscope: clean, classify and aggregate coffee cupping scores",
	Long: `cupscope loads coffee quality datasets (CSV, TSV, XLSX), drops incomplete samples,
classifies scores into quality bands and summarizes them per country of origin.
Results are available as Markdown reports, spreadsheets, CSV tables and charts.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.cupscope/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.IntVar(&flagMinSamples, "min-samples", 0, "minimum samples per country (overrides config)")
	f.IntVar(&flagTopMethods, "top-methods", 0, "processing methods kept before lumping into Other (overrides config)")
	f.IntVar(&flagWorkers, "workers", 0, "aggregate countries concurrently with N workers (overrides config)")
	f.StringVar(&flagSortBy, "sort-by", "", "rank countries by mean|median|count|key|discovery (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
		c.MinSampleThreshold, c.TopMethods, c.SortBy = 5, 5, "mean"
		c.RadarMax = 10
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("min-samples") && flagMinSamples >= 0 {
		cfg.MinSampleThreshold = flagMinSamples
	}
	if f.Changed("top-methods") && flagTopMethods > 0 {
		cfg.TopMethods = flagTopMethods
	}
	if f.Changed("workers") && flagWorkers >= 0 {
		cfg.Workers = flagWorkers
	}
	if f.Changed("sort-by") {
		cfg.SortBy = flagSortBy
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logging.New(level, cfg.LogFormat, os.Stderr)
}
