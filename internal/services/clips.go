// Clip server [Service] implementation
//
// Communicates with the Flask clip generation server's JSON API. Endpoint
// paths mirror the server's blueprint routes under /api.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/shared"
)

const defaultClipBaseURL = "http://localhost:5000"

// Duration and clip-count bounds enforced before any network call.
const (
	MinDuration = 5
	MaxDuration = 180
	MinClips    = 1
	MaxClips    = 5
)

// ClipService implements [Service] against the clip generation server.
type ClipService struct {
	baseURL    string
	clipPath   string
	sessionID  string
	httpClient *http.Client
}

// NewClipService creates a new clip server client.
//
// clipPath is the static route serving rendered clips (default "/clips").
func NewClipService(baseURL, clipPath, sessionID string, client *http.Client) *ClipService {
	if baseURL == "" {
		baseURL = defaultClipBaseURL
	}
	if clipPath == "" {
		clipPath = "/clips"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ClipService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clipPath:   "/" + strings.Trim(clipPath, "/"),
		sessionID:  sessionID,
		httpClient: client,
	}
}

// Name returns the service name.
func (c *ClipService) Name() string {
	return "Clip Server"
}

// ValidateClipRequest checks a job creation request before any network call.
//
// Validation failures are shown inline and never reach the server.
func ValidateClipRequest(req models.ClipRequest) error {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return fmt.Errorf("%w: video URL is required", shared.ErrInvalidInput)
	}
	if !strings.Contains(url, "youtube.com") && !strings.Contains(url, "youtu.be") {
		return fmt.Errorf("%w: %s", shared.ErrInvalidURL, url)
	}
	if req.Duration < MinDuration || req.Duration > MaxDuration {
		return fmt.Errorf("%w: duration must be %d-%d seconds", shared.ErrOutOfRange, MinDuration, MaxDuration)
	}
	if req.NumClips < MinClips || req.NumClips > MaxClips {
		return fmt.Errorf("%w: clip count must be %d-%d", shared.ErrOutOfRange, MinClips, MaxClips)
	}
	if req.StartTime != nil && req.EndTime != nil && *req.EndTime <= *req.StartTime {
		return fmt.Errorf("%w: end time must be after start time", shared.ErrOutOfRange)
	}
	return nil
}

// CreateJob validates locally, then submits a new clip generation job.
func (c *ClipService) CreateJob(ctx context.Context, req models.ClipRequest) (*models.JobStarted, error) {
	if err := ValidateClipRequest(req); err != nil {
		return nil, err
	}

	var started models.JobStarted
	if err := c.doRequest(ctx, http.MethodPost, "/api/generate_clip", req, &started); err != nil {
		return nil, err
	}
	return &started, nil
}

// JobStatus fetches the last known state of one job.
func (c *ClipService) JobStatus(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := c.doRequest(ctx, http.MethodGet, "/api/job_status/"+jobID, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// RecentActivity lists the caller's recently completed jobs.
func (c *ClipService) RecentActivity(ctx context.Context) ([]models.RecentClip, error) {
	var resp struct {
		RecentClips []models.RecentClip `json:"recent_clips"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/user_activity", nil, &resp); err != nil {
		return nil, err
	}
	return resp.RecentClips, nil
}

// AvailableClips lists rendered clip filenames in the server's sort order.
func (c *ClipService) AvailableClips(ctx context.Context) ([]string, error) {
	var resp struct {
		Clips []string `json:"clips"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/available_clips", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Clips, nil
}

// UpdateCaptions submits the full editing payload and starts regeneration.
func (c *ClipService) UpdateCaptions(ctx context.Context, update models.CaptionUpdate) (*models.UpdateStarted, error) {
	var started models.UpdateStarted
	if err := c.doRequest(ctx, http.MethodPost, "/api/update_captions", update, &started); err != nil {
		return nil, err
	}
	return &started, nil
}

// RefreshVideo re-extracts captions and returns a cache-busted video URL.
func (c *ClipService) RefreshVideo(ctx context.Context, jobID string) (*models.VideoRefresh, error) {
	var refresh models.VideoRefresh
	if err := c.doRequest(ctx, http.MethodGet, "/api/refresh_video/"+jobID, nil, &refresh); err != nil {
		return nil, err
	}
	return &refresh, nil
}

// FixJob asks the server to reconstruct missing clip data from files on disk.
func (c *ClipService) FixJob(ctx context.Context, jobID string) (*models.JobRepair, error) {
	var repair models.JobRepair
	if err := c.doRequest(ctx, http.MethodPost, "/api/fix_job/"+jobID, nil, &repair); err != nil {
		return nil, err
	}
	return &repair, nil
}

// DebugJob inspects server-side job state.
func (c *ClipService) DebugJob(ctx context.Context, jobID string) (*models.JobDiagnostics, error) {
	var diag models.JobDiagnostics
	if err := c.doRequest(ctx, http.MethodGet, "/api/debug/job/"+jobID, nil, &diag); err != nil {
		return nil, err
	}
	return &diag, nil
}

// ClipURL resolves a clip filename against the fixed static route.
//
// Any directory prefix is stripped (both separator styles); the server keys
// clips by filename only. Query strings (cache busters) are preserved.
func (c *ClipService) ClipURL(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	return c.baseURL + c.clipPath + "/" + name
}

// ProbeClip checks whether the given clip URL is currently servable.
//
// Stands in for the media element load: a 2xx response counts as loaded,
// anything else is a media error feeding the fallback cascade.
func (c *ClipService) ProbeClip(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMediaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrMediaUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *ClipService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := c.baseURL + endpoint

	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.serverError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// serverError maps a non-2xx response to a sentinel, surfacing the server's
// structured error text verbatim when present.
func (c *ClipService) serverError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)

	sentinel := shared.ErrServerReported
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = shared.ErrJobNotFound
	case http.StatusForbidden:
		sentinel = shared.ErrUnauthorized
	}

	if errResp.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, errResp.Error)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}
