package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cupscope-cli/internal/logging"
)

var (
	watchInput    inputFlags
	watchMap      mapFlags
	watchOut      outputFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run the analysis whenever the dataset file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return err
		}
		if !watchOut.any() {
			watchOut.markdown = baseName(path) + ".report.md"
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l := logging.Component(log, "watch")
		run := func() error {
			start := time.Now()
			a, err := analyzeFile(ctx, path, &watchInput, &watchMap)
			if err != nil {
				return err
			}
			written, err := writeOutputs(a, watchOut)
			if err != nil {
				return err
			}
			l.Info().
				Str("file", a.Dataset.Name).
				Int("samples", len(a.Result.Cleaned)).
				Int("countries", len(a.Result.Retained)).
				Int("outputs", len(written)).
				Dur("elapsed", time.Since(start)).
				Msg("analysis refreshed")
			return nil
		}
		if err := run(); err != nil {
			l.Error().Err(err).Msg("initial analysis failed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %s (Ctrl+C to stop)\n", path)
		return watchFile(ctx, path, watchDebounce, run, l)
	},
}

// watchFile calls run after path is written or replaced, coalescing bursts of
// events within debounce. The parent directory is watched so editors that save
// via rename keep triggering. It returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, run func() error, l zerolog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			l.Debug().Str("event", ev.Op.String()).Msg("dataset changed")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := run(); err != nil {
				l.Error().Err(err).Msg("analysis failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Warn().Err(err).Msg("watcher error")
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	f := watchCmd.Flags()
	f.DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "wait this long after the last change before re-running")
	watchInput.register(f)
	watchMap.register(f)
	watchOut.register(f)
}
