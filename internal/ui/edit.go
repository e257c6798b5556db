package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/session"
	"github.com/viralclips/clipctl/internal/shared"
	"github.com/viralclips/clipctl/internal/updates"
)

// Color picker popup geometry: bordered grid of palette cells plus title row.
const (
	paletteCellWidth = 3
	popupWidth       = session.PaletteColumns*paletteCellWidth + 2
	popupHeight      = session.PaletteSize/session.PaletteColumns + 3
)

// Fonts offered by the style panel.
var captionFonts = []string{"Impact", "Arial Black", "Helvetica", "Futura", "Montserrat"}

func (m *Model) initTextEdit() {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50
	m.textEdit = ti
}

// loadClipContext fetches job state and the clip listing used by the
// fallback prober. The listing is best-effort.
func (m *Model) loadClipContext() tea.Cmd {
	return func() tea.Msg {
		job, err := m.svc.JobStatus(m.ctx, m.jobID)
		if err != nil {
			return clipContextMsg{err: err}
		}
		listing, lerr := m.svc.AvailableClips(m.ctx)
		if lerr != nil {
			listing = nil
		}
		return clipContextMsg{job: job, listing: listing}
	}
}

func (m *Model) handleClipContext(msg clipContextMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notice = msg.err.Error()
		return m, nil
	}

	m.clip = msg.job.ClipData

	var captions []models.Caption
	if m.clip != nil {
		captions = m.clip.Captions
	}
	m.editor = session.NewEditor(captions)
	m.cursor = 0

	m.prober = session.NewProber(session.VideoCandidates(m.clip, msg.listing, m.jobID, time.Now()))

	cmds := []tea.Cmd{m.nextProbe()}

	// Recovery probe: missing clip/caption data triggers the diagnostic
	// fetch, then either a server-side repair or one delayed refresh.
	if (m.clip == nil || len(captions) == 0) && !m.repairTried {
		m.repairTried = true
		cmds = append(cmds, m.diagnose())
	}

	return m, tea.Batch(cmds...)
}

// nextProbe issues a paced load attempt for the prober's current candidate.
func (m *Model) nextProbe() tea.Cmd {
	candidate, ok := m.prober.Current()
	if !ok {
		if m.prober.State() == session.ProbeExhausted && m.logger != nil {
			m.logger.Info("video fallback exhausted", "job_id", m.jobID, "attempts", m.prober.Attempts())
		}
		return nil
	}

	url := m.svc.ClipURL(candidate)
	return func() tea.Msg {
		if err := m.probeLimiter.Wait(m.ctx); err != nil {
			return probeResultMsg{url: url, err: err}
		}
		return probeResultMsg{url: url, err: m.svc.ProbeClip(m.ctx, url)}
	}
}

func (m *Model) handleProbeResult(msg probeResultMsg) (tea.Model, tea.Cmd) {
	if m.prober == nil || m.prober.State() != session.Probing {
		return m, nil
	}

	if msg.err == nil {
		m.prober.MarkLoaded()
		m.videoURL = msg.url
		return m, nil
	}

	if m.logger != nil {
		m.logger.Debug("video probe failed", "url", msg.url, "err", msg.err)
	}
	m.prober.Fail()
	return m, m.nextProbe()
}

func (m *Model) diagnose() tea.Cmd {
	return func() tea.Msg {
		diag, err := m.svc.DebugJob(m.ctx, m.jobID)
		return diagnosticsMsg{diag: diag, err: err}
	}
}

func (m *Model) handleDiagnostics(msg diagnosticsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.logger != nil {
			m.logger.Warn("job diagnostics failed", "err", msg.err)
		}
		return m, nil
	}

	if msg.diag.ReconstructedData != nil {
		// Server offered reconstructed data; apply it via the repair endpoint.
		return m, func() tea.Msg {
			repair, err := m.svc.FixJob(m.ctx, m.jobID)
			return repairedMsg{repair: repair, err: err}
		}
	}

	if !m.refreshTried {
		m.refreshTried = true
		return m, tea.Tick(refreshRetryDelay, func(time.Time) tea.Msg { return refreshDelayMsg{} })
	}
	return m, nil
}

func (m *Model) handleRepaired(msg repairedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.repair == nil || !msg.repair.Success {
		if m.logger != nil {
			m.logger.Warn("job repair failed", "err", msg.err)
		}
		if !m.refreshTried {
			m.refreshTried = true
			return m, tea.Tick(refreshRetryDelay, func(time.Time) tea.Msg { return refreshDelayMsg{} })
		}
		return m, nil
	}

	m.clip = msg.repair.ClipData
	var captions []models.Caption
	if m.clip != nil {
		captions = m.clip.Captions
	}
	m.editor = session.NewEditor(captions)
	m.cursor = 0
	m.notice = "Job data reconstructed"
	m.prober = session.NewProber(session.VideoCandidates(m.clip, nil, m.jobID, time.Now()))
	return m, m.nextProbe()
}

func (m *Model) refreshVideo() tea.Cmd {
	return func() tea.Msg {
		refresh, err := m.svc.RefreshVideo(m.ctx, m.jobID)
		return refreshedMsg{refresh: refresh, err: err}
	}
}

func (m *Model) handleRefreshed(msg refreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notice = msg.err.Error()
		return m, nil
	}

	m.clip = msg.refresh.ClipData
	m.editor = session.NewEditor(msg.refresh.Captions)
	m.cursor = 0
	m.notice = "Video data refreshed"

	// The refresh endpoint hands back a cache-busted URL; probe just that one.
	if msg.refresh.VideoURL != "" {
		m.prober = session.NewProber([]string{msg.refresh.VideoURL})
		m.videoURL = ""
		return m, m.nextProbe()
	}
	return m, nil
}

func (m *Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Dirty flag stays set so the user can retry.
		m.notice = msg.err.Error()
		return m, nil
	}

	m.editor.ClearDirty()
	m.regenerating = true
	m.regenPercent = 0
	if msg.started != nil {
		m.regenMsg = msg.started.Message
	}
	if m.sub == nil {
		return m, m.subscribe()
	}
	return m, nil
}

// handleEditEvent consumes channel events while editing; only regeneration
// events matter here.
func (m *Model) handleEditEvent(ev updates.Event) (tea.Model, tea.Cmd) {
	if !ev.Regeneration {
		return m, m.waitForEvent()
	}

	switch ev.Kind {
	case updates.KindProgress:
		m.regenerating = true
		m.regenPercent = ev.Progress
		m.regenMsg = ev.Message

	case updates.KindComplete:
		m.regenerating = false
		m.regenPercent = 100
		m.notice = "Video updated with new captions"
		// Re-probe the freshly rendered file past any caches.
		if m.videoURL != "" {
			busted := fmt.Sprintf("%s?v=%d", strings.SplitN(m.videoURL, "?", 2)[0], time.Now().Unix())
			m.prober = session.NewProber([]string{busted})
			return m, tea.Batch(m.nextProbe(), m.waitForEvent())
		}

	case updates.KindError:
		m.regenerating = false
		m.notice = ev.Err
	}

	return m, m.waitForEvent()
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit guard prompt is modal
	if m.confirmQuit {
		switch msg.String() {
		case "y":
			return m, tea.Quit
		case "n", "esc":
			m.confirmQuit = false
		}
		return m, nil
	}

	// Text editing is modal
	if m.editTgt != editNothing {
		switch msg.String() {
		case "enter":
			return m.commitTextEdit()
		case "esc":
			m.editTgt = editNothing
			m.textEdit.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.textEdit, cmd = m.textEdit.Update(msg)
		return m, cmd
	}

	if m.editor == nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	captions := m.editor.Captions()

	switch {
	case key.Matches(msg, m.keys.quit):
		// Unsaved edits trigger a cancelable warning, mirroring the
		// navigation guard.
		if m.editor.Dirty() {
			m.confirmQuit = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		if m.popup.Visible() {
			m.popup.Hide()
			return m, nil
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.down):
		if m.cursor < len(captions)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if len(captions) == 0 {
			return m, nil
		}
		m.editTgt = editCaptionText
		m.textEdit.SetValue(captions[m.cursor].Text)
		m.textEdit.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.speaker):
		if len(captions) == 0 {
			return m, nil
		}
		current := session.SpeakerNumber(captions[m.cursor].Speaker)
		next := current%models.SpeakerCount + 1
		if err := m.editor.SetCaptionSpeaker(m.cursor, next); err != nil {
			m.notice = err.Error()
		}
		return m, nil

	case key.Matches(msg, m.keys.prevTab):
		tab := m.editor.ActiveSpeaker() - 1
		if tab < 1 {
			tab = models.SpeakerCount
		}
		_ = m.editor.SetActiveSpeaker(tab)
		return m, nil

	case key.Matches(msg, m.keys.nextTab):
		_ = m.editor.SetActiveSpeaker(m.editor.ActiveSpeaker()%models.SpeakerCount + 1)
		return m, nil

	case key.Matches(msg, m.keys.color):
		m.popupTarget = targetFill
		m.popup.Show()
		return m, nil

	case key.Matches(msg, m.keys.outline):
		m.popupTarget = targetOutline
		m.popup.Show()
		return m, nil

	case msg.String() == "x":
		m.popupTarget = targetEndScreen
		m.popup.Show()
		return m, nil

	case key.Matches(msg, m.keys.applyAll):
		if err := m.editor.ApplyStyleToAll(m.editor.ActiveSpeaker()); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = fmt.Sprintf("Applied Speaker %d style to all (fill colors kept)", m.editor.ActiveSpeaker())
		}
		return m, nil

	case msg.String() == "t":
		m.cycleFont()
		return m, nil

	case msg.String() == "+", msg.String() == "=":
		speaker := m.editor.ActiveSpeaker()
		_ = m.editor.SetFontSize(speaker, m.editor.Style(speaker).FontSize+2)
		return m, nil

	case msg.String() == "-":
		speaker := m.editor.ActiveSpeaker()
		if size := m.editor.Style(speaker).FontSize - 2; size >= 8 {
			_ = m.editor.SetFontSize(speaker, size)
		}
		return m, nil

	case msg.String() == ">":
		speaker := m.editor.ActiveSpeaker()
		_ = m.editor.SetOutlineThickness(speaker, m.editor.Style(speaker).OutlineThickness+1)
		return m, nil

	case msg.String() == "<":
		speaker := m.editor.ActiveSpeaker()
		if px := m.editor.Style(speaker).OutlineThickness - 1; px >= 0 {
			_ = m.editor.SetOutlineThickness(speaker, px)
		}
		return m, nil

	case key.Matches(msg, m.keys.endscr):
		es := m.editor.EndScreen()
		es.Enabled = !es.Enabled
		if err := m.editor.SetEndScreen(es); err != nil {
			m.notice = err.Error()
		}
		return m, nil

	case msg.String() == "E":
		m.editTgt = editEndScreenText
		m.textEdit.SetValue(m.editor.EndScreen().Text)
		m.textEdit.Focus()
		return m, textinput.Blink

	case msg.String() == "p":
		es := m.editor.EndScreen()
		es.Position = nextPosition(es.Position)
		_ = m.editor.SetEndScreen(es)
		return m, nil

	case key.Matches(msg, m.keys.submit):
		return m.submitUpdate()

	case key.Matches(msg, m.keys.reload):
		m.notice = "Reloading captions..."
		return m, m.refreshVideo()

	case key.Matches(msg, m.keys.open):
		if m.videoURL == "" {
			if m.prober != nil && m.prober.State() == session.ProbeExhausted {
				m.notice = shared.ErrProbeExhausted.Error()
			}
			return m, nil
		}
		if err := shared.OpenBrowser(m.videoURL); err != nil && m.logger != nil {
			m.logger.Warn("failed to open browser", "err", err)
		}
		return m, nil
	}

	return m, nil
}

func nextPosition(pos string) string {
	switch pos {
	case "center":
		return "top"
	case "top":
		return "bottom"
	default:
		return "center"
	}
}

func (m *Model) cycleFont() {
	speaker := m.editor.ActiveSpeaker()
	current := m.editor.Style(speaker).Font
	next := captionFonts[0]
	for i, f := range captionFonts {
		if f == current {
			next = captionFonts[(i+1)%len(captionFonts)]
			break
		}
	}
	_ = m.editor.SetFont(speaker, next)
}

func (m *Model) commitTextEdit() (tea.Model, tea.Cmd) {
	value := m.textEdit.Value()
	switch m.editTgt {
	case editCaptionText:
		if err := m.editor.SetCaptionText(m.cursor, value); err != nil {
			m.notice = err.Error()
		}
	case editEndScreenText:
		es := m.editor.EndScreen()
		es.Text = value
		if err := m.editor.SetEndScreen(es); err != nil {
			m.notice = err.Error()
		}
	}
	m.editTgt = editNothing
	m.textEdit.Blur()
	return m, nil
}

// submitUpdate posts the full editing payload. The request is never issued
// while the session is clean.
func (m *Model) submitUpdate() (tea.Model, tea.Cmd) {
	payload, err := m.editor.Payload(m.jobID)
	if err != nil {
		m.notice = "Nothing to update"
		return m, nil
	}

	m.notice = "Submitting caption update..."
	return m, func() tea.Msg {
		started, err := m.svc.UpdateCaptions(m.ctx, *payload)
		return submitResultMsg{started: started, err: err}
	}
}

func (m *Model) handleEditMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.popup.Visible() {
			return m, nil
		}
		if idx, ok := m.paletteHit(msg.X, msg.Y); ok {
			// Selection commits immediately; the popup stays open for
			// successive picks.
			m.applyPaletteColor(session.Palette[idx])
			return m, nil
		}
		m.popup.Press(msg.X, msg.Y)
		return m, nil

	case tea.MouseActionMotion:
		m.popup.Move(msg.X, msg.Y)
		return m, nil

	case tea.MouseActionRelease:
		m.popup.Release()
		return m, nil
	}
	return m, nil
}

// paletteHit maps a viewport point to a palette cell index.
func (m *Model) paletteHit(px, py int) (int, bool) {
	if !m.popup.Contains(px, py) {
		return 0, false
	}
	x, y := m.popup.Position()

	// Interior starts past the border; row 0 of the interior is the title bar.
	col := (px - x - 1) / paletteCellWidth
	row := py - y - 2
	if col < 0 || col >= session.PaletteColumns || row < 0 {
		return 0, false
	}
	idx := row*session.PaletteColumns + col
	if idx >= len(session.Palette) {
		return 0, false
	}
	return idx, true
}

// applyPaletteColor commits a picked color to the in-memory style profile and
// every dependent UI surface in one step.
func (m *Model) applyPaletteColor(color string) {
	if m.editor == nil {
		return
	}
	speaker := m.editor.ActiveSpeaker()

	var err error
	switch m.popupTarget {
	case targetFill:
		err = m.editor.SetFillColor(speaker, color)
	case targetOutline:
		err = m.editor.SetOutlineColor(speaker, color)
	case targetEndScreen:
		es := m.editor.EndScreen()
		es.Color = color
		err = m.editor.SetEndScreen(es)
	}
	if err != nil {
		m.notice = err.Error()
	}
}

func (m *Model) renderEdit() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Caption Editor"))
	b.WriteString("\n")

	// Video status
	switch {
	case m.videoURL != "":
		b.WriteString(fmt.Sprintf("Video: %s\n", m.videoURL))
	case m.prober != nil && m.prober.State() == session.Probing:
		b.WriteString(styles.help.Render("Video: resolving...") + "\n")
	default:
		b.WriteString(styles.help.Render("Video: not resolved") + "\n")
	}

	if m.editor == nil {
		b.WriteString("\nLoading clip data...\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.renderCaptions())
	b.WriteString("\n")
	b.WriteString(m.renderStylePanel())

	es := m.editor.EndScreen()
	state := "off"
	if es.Enabled {
		state = fmt.Sprintf("on • %q • %ds • %s %s", es.Text, es.Duration, es.Position, es.Color)
	}
	b.WriteString(fmt.Sprintf("\nEnd screen: %s\n", state))

	if m.regenerating {
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(float64(m.regenPercent) / 100))
		b.WriteString(fmt.Sprintf("  %d%%  %s\n", m.regenPercent, m.regenMsg))
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n")
	}

	if m.confirmQuit {
		b.WriteString("\n")
		b.WriteString(styles.err.Render("Unsaved changes — quit anyway? (y/n)"))
		b.WriteString("\n")
	}

	dirty := ""
	if m.editor.Dirty() {
		dirty = styles.warn.Render(" [modified]")
	}
	b.WriteString(dirty)
	b.WriteString("\n")
	fullHelp := m.help
	fullHelp.ShowAll = true
	b.WriteString(fullHelp.View(m.keys))

	view := b.String()
	if m.popup.Visible() {
		x, y := m.popup.Position()
		view = overlay(view, m.renderPopup(), x, y)
	}
	return view
}

// overlay composes the popup box over the base view at (x, y) so the drawn
// cells occupy exactly the rectangle the mouse handlers test against. Base
// lines are truncated ANSI-aware; whatever the box covers is hidden.
func overlay(base, top string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	topLines := strings.Split(top, "\n")

	for i, topLine := range topLines {
		row := y + i
		for len(baseLines) <= row {
			baseLines = append(baseLines, "")
		}
		left := ansi.Truncate(baseLines[row], x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		baseLines[row] = left + topLine
	}
	return strings.Join(baseLines, "\n")
}

func (m *Model) renderCaptions() string {
	captions := m.editor.Captions()
	if len(captions) == 0 {
		return styles.help.Render("No captions available") + "\n"
	}

	var b strings.Builder
	for i, caption := range captions {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		speaker := session.SpeakerNumber(caption.Speaker)
		accent := NewStyle(m.editor.Style(speaker).FillColor)

		text := caption.Text
		if i == m.cursor && m.editTgt == editCaptionText {
			text = m.textEdit.View()
		}

		b.WriteString(fmt.Sprintf("%s%s [S%d] %s\n",
			cursor,
			shared.FormatClock(int(caption.StartTime)),
			speaker,
			accent.Render(text),
		))
	}
	return b.String()
}

func (m *Model) renderStylePanel() string {
	var b strings.Builder

	// Speaker tabs: exactly one active at a time
	for s := 1; s <= models.SpeakerCount; s++ {
		label := fmt.Sprintf(" Speaker %d ", s)
		style := m.editor.Style(s)
		if s == m.editor.ActiveSpeaker() {
			b.WriteString(NewBold(style.FillColor).Underline(true).Render(label))
		} else {
			b.WriteString(styles.help.Render(label))
		}
	}
	b.WriteString("\n")

	active := m.editor.ActiveSpeaker()
	style := m.editor.Style(active)
	b.WriteString(fmt.Sprintf("Font %s • %dpx • outline %dpx %s %s • fill %s %s\n",
		style.Font, style.FontSize,
		style.OutlineThickness, style.OutlineColor, Swatch(style.OutlineColor),
		style.FillColor, Swatch(style.FillColor),
	))

	// Shared live preview, reflecting the active tab's style
	preview := NewBold(style.FillColor).Render("The quick brown fox")
	b.WriteString("Preview: " + preview + "\n")

	return b.String()
}

func (m *Model) renderPopup() string {
	rows := make([]string, 0, len(session.Palette)/session.PaletteColumns)
	for start := 0; start < len(session.Palette); start += session.PaletteColumns {
		var row strings.Builder
		for _, color := range session.Palette[start : start+session.PaletteColumns] {
			row.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("   "))
		}
		rows = append(rows, row.String())
	}

	// Titles stay narrower than the palette rows so the bordered box keeps
	// the fixed popupWidth the hit-testing assumes.
	var target string
	switch m.popupTarget {
	case targetFill:
		target = "Fill"
	case targetOutline:
		target = "Outline"
	case targetEndScreen:
		target = "End screen"
	}

	body := target + "\n" + strings.Join(rows, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Render(body)
}
