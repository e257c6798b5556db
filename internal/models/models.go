package models

import "time"

// Job lifecycle states reported by the server.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// SpeakerCount is the fixed number of speaker slots; speaker keys are always 1..SpeakerCount.
const SpeakerCount = 3

// ClipRequest describes a job creation request.
type ClipRequest struct {
	URL       string `json:"url"`
	Duration  int    `json:"duration"`
	StartTime *int   `json:"start_time,omitempty"` // Seconds; nil for auto-detection
	EndTime   *int   `json:"end_time,omitempty"`
	NumClips  int    `json:"num_clips"`
}

// JobStarted is the server acknowledgement of a created job.
type JobStarted struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Job represents the server-side state of one clip generation job.
type Job struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	Message     string    `json:"message"`
	ClipData    *ClipData `json:"clip_data"`
	Error       string    `json:"error"`
	IsAnonymous bool      `json:"is_anonymous"`
}

// ClipData describes a generated clip. Read-only except Captions, which the
// editor mutates locally before submission.
type ClipData struct {
	Path            string    `json:"path,omitempty"`
	Filename        string    `json:"filename,omitempty"`
	VideoFile       string    `json:"video_file,omitempty"`
	SubtitleFile    string    `json:"subtitle_file,omitempty"`
	OriginalTitle   string    `json:"original_title,omitempty"`
	Duration        int       `json:"duration,omitempty"`
	StartTime       float64   `json:"start_time,omitempty"`
	DetectionMethod string    `json:"detection_method,omitempty"`
	Confidence      float64   `json:"confidence,omitempty"`
	Captions        []Caption `json:"captions,omitempty"`
	Reconstructed   bool      `json:"reconstructed,omitempty"`
}

// Caption is one editable caption entry. Index is the stable ordinal position
// within the clip; ordering is significant.
type Caption struct {
	Index     int     `json:"index"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker"`
}

// SpeakerStyle holds per-speaker caption styling, applied at render time.
type SpeakerStyle struct {
	Font             string `json:"font"`
	FillColor        string `json:"fill_color"`
	OutlineColor     string `json:"outline_color"`
	OutlineThickness int    `json:"outline_thickness"`
	FontSize         int    `json:"font_size"`
}

// EndScreen is the single global end-screen configuration.
type EndScreen struct {
	Enabled  bool   `json:"enabled"`
	Text     string `json:"text,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Position string `json:"position,omitempty"`
	Color    string `json:"color,omitempty"`
}

// CaptionUpdate is the full editing payload submitted in one request.
//
// Speaker maps are keyed by the string form of the speaker number ("1".."3"),
// matching the server's expected shape.
type CaptionUpdate struct {
	JobID                  string                  `json:"job_id"`
	Captions               []Caption               `json:"captions"`
	CaptionPosition        string                  `json:"caption_position"`
	CaptionPositionPercent int                     `json:"caption_position_percent"`
	SpeakerColors          map[string]string       `json:"speaker_colors"`
	SpeakerSettings        map[string]SpeakerStyle `json:"speaker_settings"`
	EndScreen              EndScreen               `json:"end_screen"`
}

// UpdateStarted is the server acknowledgement of a caption update submission.
type UpdateStarted struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	RegenerationJobID string `json:"regeneration_job_id"`
}

// RecentClip is one entry of the recent-activity listing.
type RecentClip struct {
	JobID         string `json:"job_id"`
	OriginalTitle string `json:"original_title"`
	Duration      int    `json:"duration"`
	CreatedAt     string `json:"created_at"`
}

// VideoRefresh is the refresh endpoint response carrying re-extracted captions
// and a cache-busted video URL.
type VideoRefresh struct {
	Status   string    `json:"status"`
	ClipData *ClipData `json:"clip_data"`
	Captions []Caption `json:"captions"`
	VideoURL string    `json:"video_url"`
}

// JobRepair is the repair endpoint response with server-reconstructed clip data.
type JobRepair struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	ClipData *ClipData `json:"clip_data"`
}

// JobDiagnostics is the diagnostic endpoint response used by the recovery probes.
type JobDiagnostics struct {
	JobID             string         `json:"job_id"`
	Status            string         `json:"status"`
	Progress          int            `json:"progress"`
	Message           string         `json:"message"`
	ClipDataKeys      []string       `json:"clip_data_keys"`
	HasCaptions       bool           `json:"has_captions"`
	CaptionsCount     int            `json:"captions_count"`
	FilesInfo         map[string]any `json:"files_info"`
	Error             string         `json:"error"`
	ReconstructedData *ClipData      `json:"reconstructed_data"`
}

// HistoryEntry is a locally recorded job submission.
type HistoryEntry struct {
	JobID     string    `json:"job_id"`
	URL       string    `json:"url"`
	Duration  int       `json:"duration"`
	NumClips  int       `json:"num_clips"`
	CreatedAt time.Time `json:"created_at"`
}
