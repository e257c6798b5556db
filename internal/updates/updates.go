// Package updates implements the job-scoped live update channel.
//
// The server pushes named events (progress, completion, error) for both clip
// generation and caption regeneration. [Client.Subscribe] opens a websocket
// scoped to one job and returns a [Subscription] delivering [Event] values in
// server-send order. Events carrying a different job id are filtered out by
// the subscription layer, so consumers never see cross-job noise.
//
// There is no reconnect policy: a read error ends the stream and consumers
// fall back to one-shot status polls. This mirrors the deliberately loose
// recovery model of the editing UI.
package updates

import (
	"encoding/json"
	"strings"
)

// Kind classifies a live update event.
type Kind int

const (
	KindProgress Kind = iota
	KindComplete
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	default:
		return ""
	}
}

// Event is one live update for a job.
type Event struct {
	Kind         Kind
	JobID        string
	Progress     int    // 0-100, progress events only
	Message      string // Human-readable status line
	Err          string // Server-supplied error text, error events only
	Regeneration bool   // True for caption regeneration events
}

// wireEvent is the server's JSON envelope for pushed events.
type wireEvent struct {
	Event    string `json:"event"`
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

// parseEvent decodes one websocket frame into an Event.
//
// Unknown event names are dropped (second return false), keeping the channel
// forward-compatible with server additions.
func parseEvent(data []byte) (Event, bool) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, false
	}

	ev := Event{
		JobID:        w.JobID,
		Progress:     w.Progress,
		Message:      w.Message,
		Err:          w.Error,
		Regeneration: strings.HasPrefix(w.Event, "regeneration_"),
	}

	switch w.Event {
	case "progress_update", "regeneration_update":
		ev.Kind = KindProgress
	case "clip_completed", "regeneration_complete":
		ev.Kind = KindComplete
		ev.Progress = 100
	case "clip_error", "regeneration_error":
		ev.Kind = KindError
		if ev.Err == "" {
			ev.Err = w.Message
		}
	default:
		return Event{}, false
	}
	return ev, true
}
