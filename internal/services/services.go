package services

import (
	"context"

	"github.com/viralclips/clipctl/internal/models"
)

// Service defines the client operations against the clip generation server.
//
// Implemented by [ClipService]; test doubles live in internal/testing.
type Service interface {
	// CreateJob validates the request and submits a new clip generation job.
	CreateJob(ctx context.Context, req models.ClipRequest) (*models.JobStarted, error)

	// JobStatus fetches the last known state of one job.
	JobStatus(ctx context.Context, jobID string) (*models.Job, error)

	// RecentActivity lists the caller's recently completed jobs.
	RecentActivity(ctx context.Context) ([]models.RecentClip, error)

	// AvailableClips lists rendered clip filenames, sorted by the server.
	AvailableClips(ctx context.Context) ([]string, error)

	// UpdateCaptions submits the full editing payload and starts regeneration.
	UpdateCaptions(ctx context.Context, update models.CaptionUpdate) (*models.UpdateStarted, error)

	// RefreshVideo re-extracts captions and returns a cache-busted video URL.
	RefreshVideo(ctx context.Context, jobID string) (*models.VideoRefresh, error)

	// FixJob asks the server to reconstruct missing clip data from files.
	FixJob(ctx context.Context, jobID string) (*models.JobRepair, error)

	// DebugJob inspects server-side job state for the recovery probes.
	DebugJob(ctx context.Context, jobID string) (*models.JobDiagnostics, error)

	// ClipURL resolves a clip filename against the static clip route.
	ClipURL(filename string) string

	// ProbeClip checks whether the given clip URL is currently servable.
	ProbeClip(ctx context.Context, url string) error

	// Name returns the service name for logging.
	Name() string
}
