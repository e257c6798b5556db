package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/services"
	"github.com/viralclips/clipctl/internal/session"
	"github.com/viralclips/clipctl/internal/shared"
	"github.com/viralclips/clipctl/internal/updates"
)

// Create validates and submits a clip generation job.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	req := models.ClipRequest{
		URL:      strings.TrimSpace(cmd.String("url")),
		Duration: cmd.Int("duration"),
		NumClips: cmd.Int("clips"),
	}

	if v := cmd.String("start"); v != "" {
		start, err := shared.ParseClock(v)
		if err != nil {
			return err
		}
		req.StartTime = &start
	}
	if v := cmd.String("end"); v != "" {
		end, err := shared.ParseClock(v)
		if err != nil {
			return err
		}
		req.EndTime = &end
	}

	if err := services.ValidateClipRequest(req); err != nil {
		return err
	}

	r.logger.Info("submitting clip job", "url", req.URL, "duration", req.Duration)
	started, err := r.svc.CreateJob(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if history, herr := r.openHistory(); herr == nil {
		entry := models.HistoryEntry{
			JobID:    started.JobID,
			URL:      req.URL,
			Duration: req.Duration,
			NumClips: req.NumClips,
		}
		if rerr := history.Record(entry); rerr != nil {
			r.logger.Warn("failed to record job history", "error", rerr)
		}
	} else {
		r.logger.Warn("history unavailable", "error", herr)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(started, true); err != nil {
			return err
		}
	} else {
		r.writePlainln("✓ Job submitted: %s", started.JobID)
	}

	if cmd.Bool("watch") {
		return r.watchJob(ctx, started.JobID)
	}
	return nil
}

// Status fetches and prints one job's state.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job_id")
	if jobID == "" {
		return fmt.Errorf("%w: job_id argument is required", shared.ErrMissingArgument)
	}

	job, err := r.svc.JobStatus(ctx, jobID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(job, cmd.Bool("pretty"))
	}

	r.writePlain("Job:      %s\n", job.JobID)
	r.writePlain("Status:   %s\n", job.Status)
	r.writePlain("Progress: %d%%\n", job.Progress)
	if job.Message != "" {
		r.writePlain("Message:  %s\n", job.Message)
	}
	if job.Error != "" {
		r.writePlain("Error:    %s\n", job.Error)
	}
	if job.ClipData != nil && job.ClipData.Filename != "" {
		r.writePlain("Clip:     %s\n", r.svc.ClipURL(job.ClipData.Filename))
	}
	return nil
}

// Watch follows live progress events for a job until it finishes.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job_id")
	if jobID == "" {
		return fmt.Errorf("%w: job_id argument is required", shared.ErrMissingArgument)
	}
	return r.watchJob(ctx, jobID)
}

// watchJob streams progress lines from the update channel, falling back to
// status polling when the channel cannot be opened.
func (r *Runner) watchJob(ctx context.Context, jobID string) error {
	// A job may finish before the channel connects; the one-shot poll
	// covers that window.
	job, err := r.svc.JobStatus(ctx, jobID)
	if err != nil {
		return err
	}
	switch job.Status {
	case models.StatusCompleted:
		r.writePlainln("✓ %s", doneMessage(job.Message))
		return nil
	case models.StatusError:
		return fmt.Errorf("%w: %s", shared.ErrServerReported, terminalError(job))
	}

	if r.channel == nil {
		return r.pollJob(ctx, jobID)
	}

	sub, err := r.channel.Subscribe(ctx, jobID)
	if err != nil {
		r.logger.Warn("update channel unavailable, polling instead", "error", err)
		return r.pollJob(ctx, jobID)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Events():
			if !ok {
				if sub.Err() != nil {
					r.logger.Warn("update channel closed, polling instead", "error", sub.Err())
					return r.pollJob(ctx, jobID)
				}
				return nil
			}
			switch ev.Kind {
			case updates.KindProgress:
				r.printProgress(ev.Progress, ev.Message)
			case updates.KindComplete:
				r.writePlainln("✓ %s", doneMessage(ev.Message))
				return nil
			case updates.KindError:
				return fmt.Errorf("%w: %s", shared.ErrServerReported, ev.Err)
			}
		}
	}
}

// pollJob re-fetches job status on an interval until a terminal state.
func (r *Runner) pollJob(ctx context.Context, jobID string) error {
	interval := time.Duration(r.config.Updates.PollInterval) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			job, err := r.svc.JobStatus(ctx, jobID)
			if err != nil {
				if errors.Is(err, shared.ErrJobNotFound) {
					return err
				}
				r.logger.Warn("status poll failed", "error", err)
				continue
			}
			switch job.Status {
			case models.StatusCompleted:
				r.writePlainln("✓ %s", doneMessage(job.Message))
				return nil
			case models.StatusError:
				return fmt.Errorf("%w: %s", shared.ErrServerReported, terminalError(job))
			default:
				r.printProgress(job.Progress, job.Message)
			}
		}
	}
}

func (r *Runner) printProgress(percent int, message string) {
	if stage, ok := session.ActiveStage(percent); ok {
		r.writePlain("[%3d%%] %-9s %s\n", percent, stage.Label(), message)
		return
	}
	r.writePlain("[%3d%%] %s\n", percent, message)
}

func doneMessage(message string) string {
	if message == "" {
		return "Clip generated successfully!"
	}
	return message
}

func terminalError(job *models.Job) string {
	if job.Error != "" {
		return job.Error
	}
	return job.Message
}

// Clips lists rendered clip filenames on the server.
func (r *Runner) Clips(ctx context.Context, cmd *cli.Command) error {
	clips, err := r.svc.AvailableClips(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(clips, true)
	}

	if len(clips) == 0 {
		r.writePlainln("No clips available")
		return nil
	}
	for _, name := range clips {
		r.writePlain("%s\n", r.svc.ClipURL(name))
	}
	return nil
}

// Activity lists the session's recently completed jobs.
func (r *Runner) Activity(ctx context.Context, cmd *cli.Command) error {
	recent, err := r.svc.RecentActivity(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recent, true)
	}

	if len(recent) == 0 {
		r.writePlainln("No recent activity")
		return nil
	}
	for _, clip := range recent {
		r.writePlain("%s  %s (%ds)\n", clip.JobID, clip.OriginalTitle, clip.Duration)
	}
	return nil
}

// HistoryList prints locally recorded submissions.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	history, err := r.openHistory()
	if err != nil {
		return err
	}

	entries, err := history.Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		r.writePlainln("No local history")
		return nil
	}
	for _, entry := range entries {
		r.writePlain("%s  %s  %s (%ds, %d clips)\n",
			entry.CreatedAt.Format("2006-01-02 15:04"), entry.JobID, entry.URL, entry.Duration, entry.NumClips)
	}
	return nil
}

// HistoryPrune trims the local history cache.
func (r *Runner) HistoryPrune(ctx context.Context, cmd *cli.Command) error {
	history, err := r.openHistory()
	if err != nil {
		return err
	}

	keep := cmd.Int("keep")
	if err := history.Prune(keep); err != nil {
		return err
	}
	r.writePlainln("✓ History pruned to %d entries", keep)
	return nil
}

// JobDebug prints the diagnostic view of a job.
func (r *Runner) JobDebug(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job_id")
	if jobID == "" {
		return fmt.Errorf("%w: job_id argument is required", shared.ErrMissingArgument)
	}

	diag, err := r.svc.DebugJob(ctx, jobID)
	if err != nil {
		return err
	}
	return r.writeJSON(diag, cmd.Bool("pretty"))
}

// JobFix asks the server to reconstruct missing clip data.
func (r *Runner) JobFix(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job_id")
	if jobID == "" {
		return fmt.Errorf("%w: job_id argument is required", shared.ErrMissingArgument)
	}

	repair, err := r.svc.FixJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !repair.Success {
		return fmt.Errorf("%w: %s", shared.ErrServerReported, repair.Message)
	}

	r.writePlainln("✓ %s", repair.Message)
	if repair.ClipData != nil && repair.ClipData.Filename != "" {
		r.writePlain("Clip: %s\n", r.svc.ClipURL(repair.ClipData.Filename))
	}
	return nil
}

// JobRefresh re-extracts captions and prints the refreshed video URL.
func (r *Runner) JobRefresh(ctx context.Context, cmd *cli.Command) error {
	jobID := cmd.StringArg("job_id")
	if jobID == "" {
		return fmt.Errorf("%w: job_id argument is required", shared.ErrMissingArgument)
	}

	refresh, err := r.svc.RefreshVideo(ctx, jobID)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Refreshed (%d captions)", len(refresh.Captions))
	if refresh.VideoURL != "" {
		r.writePlain("Video: %s\n", refresh.VideoURL)
	}
	return nil
}

// SetupConfig writes a starter configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.writePlainln("✓ Config written to %s", path)
	return nil
}

// SetupDatabase initializes the local history database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.openHistory(); err != nil {
		return err
	}
	r.writePlainln("✓ History database ready at %s", r.config.Database.Path)
	return nil
}
