package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/session"
	"github.com/viralclips/clipctl/internal/updates"
)

func (m *Model) handleProcessKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		// Back to the input form for another attempt
		m.view = InputView
		m.terminalErr = ""
		m.percent = 0
		m.statusMsg = ""
		m.completed = false
		return m, m.loadHistory()
	}
	return m, nil
}

// handleStatusSeed applies the one-shot poll result: a finished job redirects
// immediately, a failed one renders the terminal panel, anything else seeds
// the progress readout so pushed events start from known values.
func (m *Model) handleStatusSeed(msg statusSeedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.logger != nil {
			m.logger.Warn("status poll failed", "err", msg.err)
		}
		if m.polling {
			return m, m.pollTick()
		}
		return m, nil
	}

	job := msg.job
	switch job.Status {
	case models.StatusCompleted:
		m.completed = true
		m.percent = 100
		m.statusMsg = job.Message
		return m.enterEditView()
	case models.StatusError:
		m.terminalErr = job.Error
		if m.terminalErr == "" {
			m.terminalErr = job.Message
		}
		m.view = ErrorView
		return m, nil
	default:
		m.percent = job.Progress
		m.statusMsg = job.Message
		if m.polling {
			return m, m.pollTick()
		}
		return m, nil
	}
}

// handleUpdateEvent routes pushed channel events to the active view.
func (m *Model) handleUpdateEvent(ev updates.Event) (tea.Model, tea.Cmd) {
	if m.view == EditView {
		return m.handleEditEvent(ev)
	}

	switch ev.Kind {
	case updates.KindProgress:
		m.percent = ev.Progress
		m.statusMsg = ev.Message
		return m, m.waitForEvent()

	case updates.KindComplete:
		m.completed = true
		m.percent = 100
		if ev.Message != "" {
			m.statusMsg = ev.Message
		} else {
			m.statusMsg = "Clip generated successfully!"
		}
		return m, tea.Batch(
			tea.Tick(redirectDelay, func(time.Time) tea.Msg { return redirectMsg{} }),
			m.waitForEvent(),
		)

	case updates.KindError:
		m.terminalErr = ev.Err
		m.view = ErrorView
		return m, nil
	}

	return m, m.waitForEvent()
}

// enterEditView switches to the editor and loads its clip context.
func (m *Model) enterEditView() (tea.Model, tea.Cmd) {
	m.view = EditView
	m.polling = false
	m.notice = ""
	cmds := []tea.Cmd{m.loadClipContext()}
	if m.sub == nil {
		cmds = append(cmds, m.subscribe())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) renderProcess() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Generating Clip"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Job %s\n\n", m.jobID))

	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteString(fmt.Sprintf("  %d%%\n\n", m.percent))

	b.WriteString(renderStages(m.percent))
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(m.statusMsg)
		b.WriteString("\n")
	}
	if m.completed {
		b.WriteString("\n")
		b.WriteString(styles.ok.Render("✓ Done — opening editor..."))
		b.WriteString("\n")
	}
	if m.polling {
		b.WriteString(styles.help.Render("(live channel unavailable, polling)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderStages draws the five-stage pipeline indicator from the latest
// progress value.
func renderStages(percent int) string {
	states := session.StageStates(percent)

	var b strings.Builder
	for i, state := range states {
		stage := session.Stage(i)
		switch state {
		case session.StageCompleted:
			b.WriteString(styles.ok.Render("● " + stage.Label()))
		case session.StageActive:
			b.WriteString(styles.warn.Render("◉ " + stage.Label()))
		default:
			b.WriteString(styles.help.Render("○ " + stage.Label()))
		}
		if i < session.NumStages-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderErrorPanel() string {
	var b strings.Builder
	b.WriteString(styles.err.Render("✗ Clip generation failed"))
	b.WriteString("\n\n")
	if m.terminalErr != "" {
		b.WriteString(m.terminalErr)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
