package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/viralclips/clipctl/internal/shared"
	"github.com/viralclips/clipctl/internal/ui"
)

// TUI launches the interactive clip workflow, starting at the input form or,
// with --job, at the progress view for an existing job.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	start := ui.InputView
	jobID := cmd.String("job")
	if jobID != "" {
		start = ui.ProcessView
	}
	return r.runTUI(ctx, start, jobID)
}

// Edit opens the caption editor directly for a finished job.
func (r *Runner) Edit(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job_id")
	if jobID == "" {
		return fmt.Errorf("%w: job_id argument is required", shared.ErrMissingArgument)
	}
	return r.runTUI(ctx, ui.EditView, jobID)
}

func (r *Runner) runTUI(ctx context.Context, start ui.ViewState, jobID string) error {
	if r.svc == nil {
		return fmt.Errorf("%w: clip service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/clipctl-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	history, err := r.openHistory()
	if err != nil {
		r.logger.Warn("history unavailable", "error", err)
		history = nil
	}

	model := ui.NewModel(ctx, ui.Opts{
		Service:      r.svc,
		Channel:      r.channel,
		History:      history,
		Logger:       fileLogger,
		StartView:    start,
		JobID:        jobID,
		PollInterval: time.Duration(r.config.Updates.PollInterval) * time.Second,
	})

	// Mouse support drives the draggable color picker
	p := tea.NewProgram(model, tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
