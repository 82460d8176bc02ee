package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bracefmt/internal/driver"
	"bracefmt/internal/pipeline"
	"bracefmt/internal/ui"
)

// errInterrupted reports a run the user stopped from the progress view.
var errInterrupted = errors.New("interrupted")

type formatOutcome struct {
	results []driver.FormatResult
	err     error
}

func runFormatWithUI(ctx context.Context, title string, paths []string, opts driver.FormatOptions) ([]driver.FormatResult, error) {
	if ctx == nil {
		return nil, errors.New("missing context")
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	results, err := formatWithProgress(runCtx, cancel, title, paths, opts, tea.WithOutput(os.Stdout))
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return results, errInterrupted
	}
	return results, err
}

// formatWithProgress runs the driver under the progress view. Leaving the view
// early calls cancel, so files not started yet are left as they are.
func formatWithProgress(ctx context.Context, cancel context.CancelFunc, title string, paths []string, opts driver.FormatOptions, progOpts ...tea.ProgramOption) ([]driver.FormatResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.Tee(pipeline.ChannelSink{Ch: events}, opts.Progress)
		res, err := driver.FormatPaths(ctx, paths, optsCopy)
		outcomeCh <- formatOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, progOpts...)
	_, uiErr := program.Run()
	// ctrl+c or a finished run, stop the driver either way
	cancel()
	// keep draining so the driver never blocks on a full channel
	for range events {
		// drain
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
