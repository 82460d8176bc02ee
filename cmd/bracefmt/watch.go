package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bracefmt/internal/driver"
	"bracefmt/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Re-indent files as they are saved",
	Long: `Watch directories (default: the current one) and format every file with a
configured extension whenever it is written. Stops on Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	watchCmd.Flags().Bool("cache", false, "skip files the cache knows are already formatted")
	watchCmd.Flags().Bool("final-newline", true, "end formatted files with a newline")
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "wait this long after the last change before formatting")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	for _, dir := range args {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("watch: %s is not a directory", dir)
		}
	}

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts := formatOptions(settings)
	if settings.Cache {
		if cache, cacheErr := driver.OpenDiskCache("bracefmt"); cacheErr == nil {
			opts.Cache = cache
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "bracefmt: cache disabled: %v\n", cacheErr)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	return driver.Watch(ctx, args, driver.WatchOptions{
		Format:   opts,
		Debounce: debounce,
		OnReady: func(dirs int) {
			if !quiet {
				fmt.Fprintf(out, "watching %d directories, Ctrl+C to stop\n", dirs)
			}
		},
		OnBatch: func(results []driver.FormatResult, err error) {
			if err != nil {
				fmt.Fprintln(errOut, color.RedString("bracefmt: %v", err))
				return
			}
			stamp := time.Now().Format("15:04:05")
			for _, res := range results {
				// watcher paths are absolute; show them relative to where we started
				if rel, relErr := source.RelativePath(res.Path, "."); relErr == nil {
					res.Path = rel
				}
				switch {
				case res.Err != nil:
					reportFileError(errOut, res)
				case res.Changed && !quiet:
					fmt.Fprintf(out, "%s %s %s\n", stamp, color.GreenString("reformatted"), res.Path)
				}
			}
		},
	})
}
