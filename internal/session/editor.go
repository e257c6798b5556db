package session

import (
	"fmt"
	"strconv"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/shared"
)

// Default per-speaker fill colors, matching the server's regeneration defaults.
var defaultFillColors = [models.SpeakerCount + 1]string{
	1: "#FF4500",
	2: "#00BFFF",
	3: "#00FF88",
}

// defaultStyle returns the initial style profile for a speaker slot.
func defaultStyle(speaker int) models.SpeakerStyle {
	return models.SpeakerStyle{
		Font:             "Impact",
		FillColor:        defaultFillColors[speaker],
		OutlineColor:     "#000000",
		OutlineThickness: 2,
		FontSize:         22,
	}
}

// Editor owns all locally mutable editing state for one job: the caption
// sequence, the fixed speaker style map, caption position, the end-screen
// configuration, and the dirty flag gating submission and the quit guard.
type Editor struct {
	captions        []models.Caption
	styles          map[int]models.SpeakerStyle
	position        string
	positionPercent int
	endScreen       models.EndScreen
	activeSpeaker   int
	dirty           bool
}

// NewEditor creates an editor seeded with the clip's caption sequence.
//
// Caption indices are renumbered to ordinal position so they match row order
// regardless of what the server sent.
func NewEditor(captions []models.Caption) *Editor {
	owned := make([]models.Caption, len(captions))
	copy(owned, captions)
	for i := range owned {
		owned[i].Index = i
	}

	styles := make(map[int]models.SpeakerStyle, models.SpeakerCount)
	for s := 1; s <= models.SpeakerCount; s++ {
		styles[s] = defaultStyle(s)
	}

	return &Editor{
		captions:        owned,
		styles:          styles,
		position:        "bottom",
		positionPercent: 80,
		activeSpeaker:   1,
		endScreen:       models.EndScreen{Position: "center", Duration: 3, Color: "#FFFFFF"},
	}
}

// Captions returns the caption sequence in order.
func (e *Editor) Captions() []models.Caption { return e.captions }

// Caption returns the entry at ordinal position i.
func (e *Editor) Caption(i int) (models.Caption, error) {
	if i < 0 || i >= len(e.captions) {
		return models.Caption{}, fmt.Errorf("%w: caption %d", shared.ErrOutOfRange, i)
	}
	return e.captions[i], nil
}

// SetCaptionText replaces the text of caption i and marks the session dirty.
//
// Empty text is accepted; it is submitted as-is.
func (e *Editor) SetCaptionText(i int, text string) error {
	if i < 0 || i >= len(e.captions) {
		return fmt.Errorf("%w: caption %d", shared.ErrOutOfRange, i)
	}
	if e.captions[i].Text == text {
		return nil
	}
	e.captions[i].Text = text
	e.dirty = true
	return nil
}

// SetCaptionSpeaker reassigns caption i to the given speaker slot.
func (e *Editor) SetCaptionSpeaker(i, speaker int) error {
	if i < 0 || i >= len(e.captions) {
		return fmt.Errorf("%w: caption %d", shared.ErrOutOfRange, i)
	}
	if speaker < 1 || speaker > models.SpeakerCount {
		return fmt.Errorf("%w: speaker %d", shared.ErrOutOfRange, speaker)
	}
	label := fmt.Sprintf("Speaker %d", speaker)
	if e.captions[i].Speaker == label {
		return nil
	}
	e.captions[i].Speaker = label
	e.dirty = true
	return nil
}

// ActiveSpeaker returns the selected style tab (always 1..models.SpeakerCount).
func (e *Editor) ActiveSpeaker() int { return e.activeSpeaker }

// SetActiveSpeaker switches the style tab. Tab switching alone is not an edit.
func (e *Editor) SetActiveSpeaker(speaker int) error {
	if speaker < 1 || speaker > models.SpeakerCount {
		return fmt.Errorf("%w: speaker %d", shared.ErrOutOfRange, speaker)
	}
	e.activeSpeaker = speaker
	return nil
}

// Style returns the style profile for a speaker slot.
func (e *Editor) Style(speaker int) models.SpeakerStyle {
	return e.styles[speaker]
}

// SetFont updates the font for one speaker.
func (e *Editor) SetFont(speaker int, font string) error {
	return e.mutateStyle(speaker, func(s *models.SpeakerStyle) { s.Font = font })
}

// SetFontSize updates the caption size for one speaker.
func (e *Editor) SetFontSize(speaker, size int) error {
	return e.mutateStyle(speaker, func(s *models.SpeakerStyle) { s.FontSize = size })
}

// SetOutlineThickness updates the outline width for one speaker.
func (e *Editor) SetOutlineThickness(speaker, px int) error {
	return e.mutateStyle(speaker, func(s *models.SpeakerStyle) { s.OutlineThickness = px })
}

// SetFillColor commits a fill color, normalized to uppercase hex.
func (e *Editor) SetFillColor(speaker int, color string) error {
	normalized, err := shared.NormalizeHexColor(color)
	if err != nil {
		return err
	}
	return e.mutateStyle(speaker, func(s *models.SpeakerStyle) { s.FillColor = normalized })
}

// SetOutlineColor commits an outline color, normalized to uppercase hex.
func (e *Editor) SetOutlineColor(speaker int, color string) error {
	normalized, err := shared.NormalizeHexColor(color)
	if err != nil {
		return err
	}
	return e.mutateStyle(speaker, func(s *models.SpeakerStyle) { s.OutlineColor = normalized })
}

func (e *Editor) mutateStyle(speaker int, fn func(*models.SpeakerStyle)) error {
	if speaker < 1 || speaker > models.SpeakerCount {
		return fmt.Errorf("%w: speaker %d", shared.ErrOutOfRange, speaker)
	}
	style := e.styles[speaker]
	before := style
	fn(&style)
	if style == before {
		return nil
	}
	e.styles[speaker] = style
	e.dirty = true
	return nil
}

// ApplyStyleToAll copies every style attribute EXCEPT fill color from the
// source speaker onto the other speakers, leaving each target's own fill
// color untouched.
func (e *Editor) ApplyStyleToAll(source int) error {
	if source < 1 || source > models.SpeakerCount {
		return fmt.Errorf("%w: speaker %d", shared.ErrOutOfRange, source)
	}

	src := e.styles[source]
	for s := 1; s <= models.SpeakerCount; s++ {
		if s == source {
			continue
		}
		target := e.styles[s]
		target.Font = src.Font
		target.OutlineColor = src.OutlineColor
		target.OutlineThickness = src.OutlineThickness
		target.FontSize = src.FontSize
		e.styles[s] = target
	}
	e.dirty = true
	return nil
}

// Position returns the caption position name and percent-from-top.
func (e *Editor) Position() (string, int) { return e.position, e.positionPercent }

// SetPosition updates the caption position.
func (e *Editor) SetPosition(name string, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: position percent %d", shared.ErrOutOfRange, percent)
	}
	if e.position == name && e.positionPercent == percent {
		return nil
	}
	e.position = name
	e.positionPercent = percent
	e.dirty = true
	return nil
}

// EndScreen returns the global end-screen configuration.
func (e *Editor) EndScreen() models.EndScreen { return e.endScreen }

// SetEndScreen replaces the end-screen configuration, normalizing its color.
func (e *Editor) SetEndScreen(es models.EndScreen) error {
	if es.Color != "" {
		normalized, err := shared.NormalizeHexColor(es.Color)
		if err != nil {
			return err
		}
		es.Color = normalized
	}
	if e.endScreen == es {
		return nil
	}
	e.endScreen = es
	e.dirty = true
	return nil
}

// Dirty reports whether any local mutation is pending submission.
func (e *Editor) Dirty() bool { return e.dirty }

// ClearDirty marks the session clean. Called only after a confirmed 2xx
// submission response.
func (e *Editor) ClearDirty() { e.dirty = false }

// Payload assembles the full update submission for the job.
//
// Returns ErrNothingToUpdate while the session is clean; callers must not
// issue the network request in that case.
func (e *Editor) Payload(jobID string) (*models.CaptionUpdate, error) {
	if !e.dirty {
		return nil, shared.ErrNothingToUpdate
	}

	colors := make(map[string]string, models.SpeakerCount)
	settings := make(map[string]models.SpeakerStyle, models.SpeakerCount)
	for s := 1; s <= models.SpeakerCount; s++ {
		key := strconv.Itoa(s)
		colors[key] = e.styles[s].FillColor
		settings[key] = e.styles[s]
	}

	captions := make([]models.Caption, len(e.captions))
	copy(captions, e.captions)

	return &models.CaptionUpdate{
		JobID:                  jobID,
		Captions:               captions,
		CaptionPosition:        e.position,
		CaptionPositionPercent: e.positionPercent,
		SpeakerColors:          colors,
		SpeakerSettings:        settings,
		EndScreen:              e.endScreen,
	}, nil
}
