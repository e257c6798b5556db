package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/viralclips/clipctl/internal/models"
)

// ProbeState is the fallback resolution machine state.
type ProbeState int

const (
	ProbeIdle ProbeState = iota
	Probing
	ProbeLoaded
	ProbeExhausted
)

func (s ProbeState) String() string {
	switch s {
	case ProbeIdle:
		return "idle"
	case Probing:
		return "probing"
	case ProbeLoaded:
		return "loaded"
	case ProbeExhausted:
		return "exhausted"
	default:
		return ""
	}
}

// Prober walks an ordered candidate list, advancing only on a load error and
// stopping at the first success: probing(i) -> probing(i+1) | loaded | exhausted.
//
// Exhaustion is not an error surfaced to the user; the caller logs and moves on.
type Prober struct {
	candidates []string
	index      int
	state      ProbeState
	source     string
	attempts   int
}

// NewProber creates a prober over candidates in declared priority order.
//
// An empty candidate list starts exhausted.
func NewProber(candidates []string) *Prober {
	p := &Prober{candidates: candidates, state: Probing}
	if len(candidates) == 0 {
		p.state = ProbeExhausted
	}
	return p
}

// Current returns the candidate to try next, or false when nothing remains.
func (p *Prober) Current() (string, bool) {
	if p.state != Probing {
		return "", false
	}
	return p.candidates[p.index], true
}

// Fail records a load error for the current candidate and advances.
func (p *Prober) Fail() {
	if p.state != Probing {
		return
	}
	p.attempts++
	p.index++
	if p.index >= len(p.candidates) {
		p.state = ProbeExhausted
	}
}

// MarkLoaded records a successful load of the current candidate.
func (p *Prober) MarkLoaded() {
	if p.state != Probing {
		return
	}
	p.attempts++
	p.source = p.candidates[p.index]
	p.state = ProbeLoaded
}

// State returns the machine state.
func (p *Prober) State() ProbeState { return p.state }

// Source returns the successfully loaded candidate, if any.
func (p *Prober) Source() string { return p.source }

// Attempts returns the number of load attempts made so far.
func (p *Prober) Attempts() int { return p.attempts }

// basename strips any directory prefix, handling both separator styles.
func basename(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// VideoCandidates builds the ordered fallback list for a clip.
//
// Priority: the clip's explicit path fields (path > filename > video_file,
// directory prefixes stripped), then the lexically-last entry of the server's
// clip listing (treated as most recent), then fixed guess patterns built from
// the job id, clip duration, and timestamp. Duplicates are dropped, order
// preserved. Every entry is best-effort; none is guaranteed to exist.
func VideoCandidates(clip *models.ClipData, listing []string, jobID string, now time.Time) []string {
	var candidates []string
	seen := make(map[string]bool)

	add := func(name string) {
		name = basename(strings.TrimSpace(name))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		candidates = append(candidates, name)
	}

	if clip != nil {
		for _, field := range []string{clip.Path, clip.Filename, clip.VideoFile} {
			if field != "" {
				add(field)
				break
			}
		}
	}

	if len(listing) > 0 {
		latest := listing[0]
		for _, name := range listing[1:] {
			if name > latest {
				latest = name
			}
		}
		add(latest)
	}

	duration := 0
	if clip != nil {
		duration = clip.Duration
	}
	add(fmt.Sprintf("clip_%s.mp4", jobID))
	add(fmt.Sprintf("auto_peak_clip_%s_%ds.mp4", now.Format("20060102"), duration))
	add(fmt.Sprintf("auto_peak_clip_%ds.mp4", duration))

	return candidates
}
