package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/shared"
)

func TestStageStates(t *testing.T) {
	t.Run("all pending below first threshold", func(t *testing.T) {
		states := StageStates(0)
		for i, st := range states {
			if st != StagePending {
				t.Errorf("stage %d: expected pending, got %v", i, st)
			}
		}
	})

	t.Run("first stage activates at its threshold", func(t *testing.T) {
		states := StageStates(10)
		if states[StageDownload] != StageActive {
			t.Error("expected download active at 10")
		}
		if states[StageAnalyze] != StagePending {
			t.Error("expected analyze pending at 10")
		}
	})

	t.Run("crossing the next threshold completes the previous stage", func(t *testing.T) {
		states := StageStates(30)
		if states[StageDownload] != StageCompleted {
			t.Error("expected download completed at 30")
		}
		if states[StageAnalyze] != StageActive {
			t.Error("expected analyze active at 30")
		}
	})

	t.Run("one below a threshold leaves the stage active", func(t *testing.T) {
		states := StageStates(29)
		if states[StageDownload] != StageActive {
			t.Error("expected download still active at 29")
		}
	})

	t.Run("last stage active at 90, completed only at 100", func(t *testing.T) {
		states := StageStates(90)
		if states[StageVideo] != StageActive {
			t.Error("expected video active at 90")
		}
		states = StageStates(100)
		for i, st := range states {
			if st != StageCompleted {
				t.Errorf("stage %d: expected completed at 100, got %v", i, st)
			}
		}
	})

	t.Run("smaller progress arriving later rewinds the indicator", func(t *testing.T) {
		// Pure function of the latest value, no internal memory.
		_ = StageStates(70)
		states := StageStates(30)
		if states[StageSpeakers] != StagePending {
			t.Error("expected speakers pending after rewind to 30")
		}
	})
}

func TestActiveStage(t *testing.T) {
	t.Run("returns the in-flight stage", func(t *testing.T) {
		stage, ok := ActiveStage(55)
		if !ok || stage != StageSpeakers {
			t.Errorf("expected speakers active at 55, got %v (%v)", stage, ok)
		}
	})

	t.Run("no active stage before the pipeline starts or after it ends", func(t *testing.T) {
		if _, ok := ActiveStage(0); ok {
			t.Error("expected no active stage at 0")
		}
		if _, ok := ActiveStage(100); ok {
			t.Error("expected no active stage at 100")
		}
	})
}

func TestSpeakerNumber(t *testing.T) {
	cases := []struct {
		label string
		want  int
	}{
		{"Speaker 1", 1},
		{"Speaker 2", 2},
		{"speaker_3", 3},
		{"Host", 1},
		{"", 1},
		{"Speaker 0", 1},
		{"Speaker 7", models.SpeakerCount},
		{"2nd Guest", 2},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			if got := SpeakerNumber(tc.label); got != tc.want {
				t.Errorf("SpeakerNumber(%q) = %d, want %d", tc.label, got, tc.want)
			}
		})
	}
}

func TestEditor(t *testing.T) {
	captions := []models.Caption{
		{Index: 3, StartTime: 0, EndTime: 2, Text: "first", Speaker: "Speaker 1"},
		{Index: 9, StartTime: 2, EndTime: 4, Text: "second", Speaker: "Speaker 2"},
	}

	t.Run("NewEditor", func(t *testing.T) {
		ed := NewEditor(captions)

		t.Run("renumbers caption indices to ordinal position", func(t *testing.T) {
			for i, c := range ed.Captions() {
				if c.Index != i {
					t.Errorf("caption %d: expected index %d, got %d", i, i, c.Index)
				}
			}
		})

		t.Run("starts clean with defaults", func(t *testing.T) {
			if ed.Dirty() {
				t.Error("expected new editor to be clean")
			}
			pos, percent := ed.Position()
			if pos != "bottom" || percent != 80 {
				t.Errorf("expected bottom/80 defaults, got %s/%d", pos, percent)
			}
			if ed.ActiveSpeaker() != 1 {
				t.Error("expected speaker 1 active by default")
			}
		})

		t.Run("each speaker gets a distinct default fill color", func(t *testing.T) {
			seen := make(map[string]bool)
			for s := 1; s <= models.SpeakerCount; s++ {
				fill := ed.Style(s).FillColor
				if seen[fill] {
					t.Errorf("duplicate default fill color %s", fill)
				}
				seen[fill] = true
			}
		})

		t.Run("does not alias the caller's slice", func(t *testing.T) {
			src := []models.Caption{{Text: "original"}}
			ed := NewEditor(src)
			src[0].Text = "mutated"
			if ed.Captions()[0].Text != "original" {
				t.Error("expected editor to own its caption copy")
			}
		})
	})

	t.Run("SetCaptionText", func(t *testing.T) {
		t.Run("marks dirty on change", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetCaptionText(0, "edited"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ed.Dirty() {
				t.Error("expected dirty after edit")
			}
		})

		t.Run("accepts empty text", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetCaptionText(0, ""); err != nil {
				t.Fatalf("expected empty text accepted, got %v", err)
			}
			if ed.Captions()[0].Text != "" {
				t.Error("expected text cleared")
			}
		})

		t.Run("unchanged text stays clean", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetCaptionText(0, "first"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ed.Dirty() {
				t.Error("expected no-op edit to stay clean")
			}
		})

		t.Run("rejects out-of-range index", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetCaptionText(5, "x"); !errors.Is(err, shared.ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
		})
	})

	t.Run("SetCaptionSpeaker", func(t *testing.T) {
		ed := NewEditor(captions)
		if err := ed.SetCaptionSpeaker(0, 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ed.Captions()[0].Speaker != "Speaker 3" {
			t.Errorf("expected canonical label, got %q", ed.Captions()[0].Speaker)
		}
		if !ed.Dirty() {
			t.Error("expected dirty after reassignment")
		}

		if err := ed.SetCaptionSpeaker(0, 4); !errors.Is(err, shared.ErrOutOfRange) {
			t.Errorf("expected ErrOutOfRange for speaker 4, got %v", err)
		}
	})

	t.Run("SetActiveSpeaker is not an edit", func(t *testing.T) {
		ed := NewEditor(captions)
		if err := ed.SetActiveSpeaker(2); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ed.Dirty() {
			t.Error("tab switching alone must not mark the session dirty")
		}
	})

	t.Run("style mutations", func(t *testing.T) {
		t.Run("color values are normalized", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetFillColor(1, "f40"); err != nil {
				t.Fatalf("expected shorthand accepted, got %v", err)
			}
			if got := ed.Style(1).FillColor; got != "#FF4400" {
				t.Errorf("expected #FF4400, got %s", got)
			}
		})

		t.Run("invalid color rejected", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetOutlineColor(1, "#GGGGGG"); err == nil {
				t.Error("expected error for invalid hex")
			}
			if ed.Dirty() {
				t.Error("failed mutation must not mark dirty")
			}
		})

		t.Run("setting the same value stays clean", func(t *testing.T) {
			ed := NewEditor(captions)
			size := ed.Style(1).FontSize
			if err := ed.SetFontSize(1, size); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ed.Dirty() {
				t.Error("expected no-op style change to stay clean")
			}
		})
	})

	t.Run("ApplyStyleToAll", func(t *testing.T) {
		ed := NewEditor(captions)
		if err := ed.SetFont(2, "Futura"); err != nil {
			t.Fatal(err)
		}
		if err := ed.SetFontSize(2, 30); err != nil {
			t.Fatal(err)
		}
		fill1 := ed.Style(1).FillColor
		fill3 := ed.Style(3).FillColor

		if err := ed.ApplyStyleToAll(2); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, s := range []int{1, 3} {
			st := ed.Style(s)
			if st.Font != "Futura" || st.FontSize != 30 {
				t.Errorf("speaker %d: expected copied font settings, got %+v", s, st)
			}
		}
		if ed.Style(1).FillColor != fill1 || ed.Style(3).FillColor != fill3 {
			t.Error("fill colors must never be copied by apply-to-all")
		}
	})

	t.Run("Payload", func(t *testing.T) {
		t.Run("clean session returns ErrNothingToUpdate", func(t *testing.T) {
			ed := NewEditor(captions)
			if _, err := ed.Payload("job-1"); !errors.Is(err, shared.ErrNothingToUpdate) {
				t.Errorf("expected ErrNothingToUpdate, got %v", err)
			}
		})

		t.Run("dirty session builds the full payload", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetCaptionText(0, "edited"); err != nil {
				t.Fatal(err)
			}

			payload, err := ed.Payload("job-1")
			if err != nil {
				t.Fatalf("expected payload, got %v", err)
			}
			if payload.JobID != "job-1" {
				t.Errorf("expected job id, got %s", payload.JobID)
			}
			if len(payload.Captions) != len(captions) {
				t.Errorf("expected %d captions, got %d", len(captions), len(payload.Captions))
			}
			for s := 1; s <= models.SpeakerCount; s++ {
				key := string(rune('0' + s))
				if payload.SpeakerColors[key] == "" {
					t.Errorf("expected fill color for speaker key %q", key)
				}
				if payload.SpeakerSettings[key].Font == "" {
					t.Errorf("expected settings for speaker key %q", key)
				}
			}
			if payload.CaptionPosition != "bottom" || payload.CaptionPositionPercent != 80 {
				t.Error("expected position defaults in payload")
			}
		})

		t.Run("ClearDirty gates resubmission", func(t *testing.T) {
			ed := NewEditor(captions)
			if err := ed.SetCaptionText(0, "edited"); err != nil {
				t.Fatal(err)
			}
			ed.ClearDirty()
			if _, err := ed.Payload("job-1"); !errors.Is(err, shared.ErrNothingToUpdate) {
				t.Error("expected clean session after ClearDirty")
			}
		})
	})

	t.Run("SetEndScreen", func(t *testing.T) {
		ed := NewEditor(captions)
		es := ed.EndScreen()
		es.Enabled = true
		es.Text = "Subscribe!"
		es.Color = "ff0"

		if err := ed.SetEndScreen(es); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := ed.EndScreen()
		if got.Color != "#FFFF00" {
			t.Errorf("expected normalized color, got %s", got.Color)
		}
		if !ed.Dirty() {
			t.Error("expected dirty after end-screen change")
		}
	})
}

func TestProber(t *testing.T) {
	t.Run("advances through the list, one attempt per candidate", func(t *testing.T) {
		p := NewProber([]string{"a.mp4", "b.mp4", "c.mp4"})

		for _, want := range []string{"a.mp4", "b.mp4"} {
			got, ok := p.Current()
			if !ok || got != want {
				t.Fatalf("expected candidate %s, got %s (%v)", want, got, ok)
			}
			p.Fail()
		}

		got, ok := p.Current()
		if !ok || got != "c.mp4" {
			t.Fatalf("expected c.mp4, got %s", got)
		}
		p.MarkLoaded()

		if p.State() != ProbeLoaded {
			t.Errorf("expected loaded, got %v", p.State())
		}
		if p.Source() != "c.mp4" {
			t.Errorf("expected source c.mp4, got %s", p.Source())
		}
		if p.Attempts() != 3 {
			t.Errorf("expected exactly 3 attempts, got %d", p.Attempts())
		}
	})

	t.Run("exhausts after every candidate fails", func(t *testing.T) {
		p := NewProber([]string{"a.mp4"})
		p.Fail()

		if p.State() != ProbeExhausted {
			t.Errorf("expected exhausted, got %v", p.State())
		}
		if _, ok := p.Current(); ok {
			t.Error("expected no current candidate after exhaustion")
		}
	})

	t.Run("empty candidate list starts exhausted", func(t *testing.T) {
		p := NewProber(nil)
		if p.State() != ProbeExhausted {
			t.Errorf("expected exhausted, got %v", p.State())
		}
	})

	t.Run("terminal states ignore further input", func(t *testing.T) {
		p := NewProber([]string{"a.mp4"})
		p.MarkLoaded()
		p.Fail()
		p.MarkLoaded()

		if p.State() != ProbeLoaded {
			t.Errorf("expected loaded to be terminal, got %v", p.State())
		}
		if p.Attempts() != 1 {
			t.Errorf("expected 1 attempt, got %d", p.Attempts())
		}
	})
}

func TestVideoCandidates(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("only the first non-empty path field is used", func(t *testing.T) {
		clip := &models.ClipData{
			Path:      "/clips/primary.mp4",
			Filename:  "secondary.mp4",
			VideoFile: "tertiary.mp4",
			Duration:  30,
		}
		candidates := VideoCandidates(clip, nil, "job-1", now)

		if candidates[0] != "primary.mp4" {
			t.Errorf("expected path field first with prefix stripped, got %s", candidates[0])
		}
		for _, c := range candidates {
			if c == "secondary.mp4" || c == "tertiary.mp4" {
				t.Errorf("lower-priority field %s should not appear", c)
			}
		}
	})

	t.Run("lexically last listing entry is the recency guess", func(t *testing.T) {
		candidates := VideoCandidates(nil, []string{"clip_a.mp4", "clip_c.mp4", "clip_b.mp4"}, "job-1", now)
		if candidates[0] != "clip_c.mp4" {
			t.Errorf("expected clip_c.mp4 first, got %s", candidates[0])
		}
	})

	t.Run("guess patterns include job id, date, and duration", func(t *testing.T) {
		clip := &models.ClipData{Duration: 45}
		candidates := VideoCandidates(clip, nil, "abc123", now)

		joined := strings.Join(candidates, " ")
		for _, want := range []string{"clip_abc123.mp4", "auto_peak_clip_20250314_45s.mp4", "auto_peak_clip_45s.mp4"} {
			if !strings.Contains(joined, want) {
				t.Errorf("expected guess %s in %v", want, candidates)
			}
		}
	})

	t.Run("duplicates are dropped, order preserved", func(t *testing.T) {
		clip := &models.ClipData{Filename: "clip_job-1.mp4"}
		candidates := VideoCandidates(clip, []string{"clip_job-1.mp4"}, "job-1", now)

		seen := make(map[string]int)
		for _, c := range candidates {
			seen[c]++
		}
		for name, n := range seen {
			if n > 1 {
				t.Errorf("candidate %s appears %d times", name, n)
			}
		}
		if candidates[0] != "clip_job-1.mp4" {
			t.Errorf("expected clip filename first, got %s", candidates[0])
		}
	})
}

func TestPopup(t *testing.T) {
	newShown := func() *Popup {
		p := NewPopup(14, 7)
		p.SetViewport(80, 24)
		p.Show()
		return p
	}

	t.Run("press inside starts a drag with grab offset", func(t *testing.T) {
		p := newShown()
		p.Press(3, 2)

		if p.State() != Dragging {
			t.Fatalf("expected dragging, got %v", p.State())
		}

		p.Move(30, 10)
		x, y := p.Position()
		if x != 27 || y != 8 {
			t.Errorf("expected grab offset preserved (27,8), got (%d,%d)", x, y)
		}
	})

	t.Run("press outside is ignored", func(t *testing.T) {
		p := newShown()
		p.Press(50, 20)

		if p.State() != DragIdle {
			t.Error("expected idle after outside press")
		}
	})

	t.Run("move while idle is ignored", func(t *testing.T) {
		p := newShown()
		p.Move(40, 12)

		x, y := p.Position()
		if x != 0 || y != 0 {
			t.Errorf("expected position unchanged, got (%d,%d)", x, y)
		}
	})

	t.Run("position clamps to the viewport", func(t *testing.T) {
		p := newShown()
		p.Press(0, 0)
		p.Move(500, 500)

		x, y := p.Position()
		if x != 80-14 || y != 24-7 {
			t.Errorf("expected clamp to (66,17), got (%d,%d)", x, y)
		}

		p.Move(-50, -50)
		x, y = p.Position()
		if x != 0 || y != 0 {
			t.Errorf("expected clamp to origin, got (%d,%d)", x, y)
		}
	})

	t.Run("release returns to idle, hide cancels drag", func(t *testing.T) {
		p := newShown()
		p.Press(1, 1)
		p.Release()
		if p.State() != DragIdle {
			t.Error("expected idle after release")
		}

		p.Press(1, 1)
		p.Hide()
		if p.State() != DragIdle || p.Visible() {
			t.Error("expected hidden idle popup after Hide")
		}
	})

	t.Run("shrinking the viewport reclamps", func(t *testing.T) {
		p := newShown()
		p.Press(0, 0)
		p.Move(500, 500)
		p.Release()

		p.SetViewport(20, 10)
		x, y := p.Position()
		if x != 20-14 || y != 10-7 {
			t.Errorf("expected reclamp to (6,3), got (%d,%d)", x, y)
		}
	})
}

func TestPalette(t *testing.T) {
	// The picker geometry is derived from these constants, so the color list
	// has to match them exactly.
	if len(Palette) != PaletteSize {
		t.Errorf("expected %d palette colors, got %d", PaletteSize, len(Palette))
	}
	if PaletteSize%PaletteColumns != 0 {
		t.Errorf("expected %d colors to fill %d-wide rows evenly", PaletteSize, PaletteColumns)
	}
}
