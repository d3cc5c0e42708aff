package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"swaplint/internal/driver"
	"swaplint/internal/source"
	"swaplint/internal/ui"
)

type analyzeOutcome struct {
	fs      *source.FileSet
	results []driver.DirResult
	err     error
}

// analyzeDirWithUI runs AnalyzeDir behind a progress display. The worker
// pool streams per-file events into the model; the analysis goroutine
// closes the channel when the run finishes, which tells the model to quit.
func analyzeDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, []driver.DirResult, error) {
	files, err := driver.ListFiles(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return driver.AnalyzeDir(ctx, dir, opts)
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = func(ev driver.Event) {
			events <- ev
		}
		fs, results, runErr := driver.AnalyzeDir(ctx, dir, runOpts)
		outcomeCh <- analyzeOutcome{fs: fs, results: results, err: runErr}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		outcome.err = uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
