package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bracefmt/internal/config"
	"bracefmt/internal/driver"
	"bracefmt/internal/observ"
	"bracefmt/internal/pipeline"
	"bracefmt/internal/trace"
)

func init() {
	rootCmd.Flags().Bool("dry-run", false, "print formatted code to stdout instead of rewriting files")
	rootCmd.Flags().Bool("check", false, "list files that need formatting and exit 1 if there are any")
	rootCmd.Flags().String("format", "text", "output format (text|json)")
	rootCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	rootCmd.Flags().Bool("cache", false, "skip files the cache knows are already formatted")
	rootCmd.Flags().Bool("final-newline", true, "end formatted files with a newline")
	rootCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	rootCmd.Flags().Bool("explain", false, "print the per-line depth analysis instead of formatting")
}

func runFormat(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	explain, err := cmd.Flags().GetBool("explain")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	if dryRun && check {
		return fmt.Errorf("--dry-run cannot be used with --check")
	}
	if dryRun && outputFormat != "text" {
		return fmt.Errorf("--dry-run is only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if explain {
		return runExplain(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, settings)
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

	timer := observ.NewTimer()
	opts := formatOptions(settings)
	opts.Check = check
	opts.Stdout = dryRun
	opts.Timings = &pipeline.Timings{}
	if settings.Cache {
		cache, cacheErr := driver.OpenDiskCache("bracefmt")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "bracefmt: cache disabled: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	useUI := shouldUseTUI(mode) && !dryRun && !quiet && outputFormat == "text"
	idx := timer.Begin("format")
	var results []driver.FormatResult
	if useUI {
		results, err = runFormatWithUI(cmd.Context(), "bracefmt", args, opts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	timer.End(idx, fmt.Sprintf("%d files", len(results)))
	if err != nil {
		dumpTraceRing(cmd)
		return err
	}

	var hasErrors, hasChanges bool
	renderIdx := timer.Begin("render")
	switch outputFormat {
	case "text":
		if dryRun {
			hasErrors = renderFmtStdout(cmd.OutOrStdout(), cmd.ErrOrStderr(), results)
		} else {
			hasErrors, hasChanges = renderFmtText(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, check, quiet)
		}
	case "json":
		hasErrors, hasChanges = summarize(results)
		if err := renderFmtJSON(cmd.OutOrStdout(), results, check); err != nil {
			return err
		}
	}
	timer.End(renderIdx, "")

	if showTimings {
		foldStageTimings(timer, opts.Timings)
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if hasErrors {
		dumpTraceRing(cmd)
		return errReported
	}
	if check && hasChanges {
		return errReported
	}
	return nil
}

func formatOptions(settings config.Settings) driver.FormatOptions {
	return driver.FormatOptions{
		Jobs:         settings.Jobs,
		Config:       settings.Format,
		FinalNewline: settings.FinalNewline,
		Extensions:   settings.Extensions,
		Exclude:      settings.Exclude,
	}
}

func summarize(results []driver.FormatResult) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
		} else if res.Changed {
			hasChanges = true
		}
	}
	return hasErrors, hasChanges
}

func reportFileError(errOut io.Writer, res driver.FormatResult) {
	fmt.Fprintln(errOut, color.RedString("bracefmt: %s: %v", res.Path, res.Err))
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			reportFileError(errOut, res)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			reportFileError(errOut, res)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, color.YellowString("%s", res.Path))
			continue
		}
		fmt.Fprintf(out, "%s %s\n", color.GreenString("reformatted"), res.Path)
	}
	return hasErrors, hasChanges
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Cached   bool   `json:"cached,omitempty"`
		Encoding string `json:"encoding"`
		Lines    uint32 `json:"lines"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{
			Path:     res.Path,
			Changed:  res.Changed,
			Cached:   res.Cached,
			Encoding: res.Flags.String(),
			Lines:    res.Lines,
			CheckRun: check,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// dumpTraceRing prints the ring buffer, if tracing keeps one, after a failure.
func dumpTraceRing(cmd *cobra.Command) {
	ring, ok := trace.Ring(trace.FromContext(cmd.Context()))
	if !ok {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before failure:")
	if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}
