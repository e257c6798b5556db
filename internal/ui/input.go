package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/services"
	"github.com/viralclips/clipctl/internal/shared"
)

// Input form field order.
const (
	fieldURL = iota
	fieldDuration
	fieldClips
	fieldStart
	fieldEnd
	numFields
)

func (m *Model) initInputs() {
	m.inputs = make([]textinput.Model, numFields)

	url := textinput.New()
	url.Placeholder = "https://youtube.com/watch?v=..."
	url.CharLimit = 200
	url.Width = 50
	url.Focus()
	m.inputs[fieldURL] = url

	duration := textinput.New()
	duration.Placeholder = "30"
	duration.SetValue("30")
	duration.CharLimit = 4
	duration.Width = 6
	m.inputs[fieldDuration] = duration

	clips := textinput.New()
	clips.Placeholder = "1"
	clips.SetValue("1")
	clips.CharLimit = 1
	clips.Width = 3
	m.inputs[fieldClips] = clips

	start := textinput.New()
	start.Placeholder = "MM:SS (optional)"
	start.CharLimit = 8
	start.Width = 16
	m.inputs[fieldStart] = start

	end := textinput.New()
	end.Placeholder = "MM:SS (optional)"
	end.CharLimit = 8
	end.Width = 16
	m.inputs[fieldEnd] = end

	m.focus = fieldURL
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit) && m.focus == fieldURL && m.inputs[fieldURL].Value() == "":
		return m, tea.Quit

	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		// Dismiss the inline validation error
		m.formErr = ""
		return m, nil

	case key.Matches(msg, m.keys.tab), key.Matches(msg, m.keys.down):
		m.setFocus((m.focus + 1) % numFields)
		return m, nil

	case msg.String() == "shift+tab", key.Matches(msg, m.keys.up):
		m.setFocus((m.focus + numFields - 1) % numFields)
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if m.focus < numFields-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.submitForm()

	case msg.String() == "ctrl+s":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// submitForm validates the form and issues the job creation request.
// Validation failures never reach the network.
func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	req, err := m.buildRequest()
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	if err := services.ValidateClipRequest(req); err != nil {
		m.formErr = err.Error()
		return m, nil
	}

	m.formErr = ""
	return m, func() tea.Msg {
		started, err := m.svc.CreateJob(m.ctx, req)
		return jobCreatedMsg{started: started, req: req, err: err}
	}
}

func (m *Model) buildRequest() (models.ClipRequest, error) {
	req := models.ClipRequest{
		URL: strings.TrimSpace(m.inputs[fieldURL].Value()),
	}

	duration, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldDuration].Value()))
	if err != nil {
		return req, fmt.Errorf("%w: duration must be a number of seconds", shared.ErrInvalidInput)
	}
	req.Duration = duration

	clips, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldClips].Value()))
	if err != nil {
		return req, fmt.Errorf("%w: clip count must be a number", shared.ErrInvalidInput)
	}
	req.NumClips = clips

	if v := strings.TrimSpace(m.inputs[fieldStart].Value()); v != "" {
		start, err := shared.ParseClock(v)
		if err != nil {
			return req, err
		}
		req.StartTime = &start
	}
	if v := strings.TrimSpace(m.inputs[fieldEnd].Value()); v != "" {
		end, err := shared.ParseClock(v)
		if err != nil {
			return req, err
		}
		req.EndTime = &end
	}

	return req, nil
}

func (m *Model) handleJobCreated(msg jobCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.formErr = msg.err.Error()
		return m, nil
	}

	m.jobID = msg.started.JobID
	if m.history != nil {
		entry := models.HistoryEntry{
			JobID:     msg.started.JobID,
			URL:       msg.req.URL,
			Duration:  msg.req.Duration,
			NumClips:  msg.req.NumClips,
			CreatedAt: time.Now().UTC(),
		}
		if err := m.history.Record(entry); err != nil && m.logger != nil {
			m.logger.Warn("failed to record job history", "err", err)
		}
	}

	m.view = ProcessView
	m.percent = 0
	m.statusMsg = "Job submitted..."
	return m, tea.Batch(m.seedStatus(), m.subscribe())
}

func (m *Model) renderInput() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Create a Clip"))
	b.WriteString("\n\n")

	labels := [numFields]string{"Video URL", "Duration (s)", "Clips", "Start", "End"}
	for i, input := range m.inputs {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-14s %s\n", cursor, labels[i], input.View()))
	}

	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render("✗ " + m.formErr))
		b.WriteString(styles.help.Render("  (esc to dismiss)"))
		b.WriteString("\n")
	}

	if len(m.recent) > 0 || len(m.local) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render("Recent jobs"))
		b.WriteString("\n")
		for _, clip := range m.recent {
			b.WriteString(fmt.Sprintf("  %s  %s (%ds)\n", clip.JobID, clip.OriginalTitle, clip.Duration))
		}
		for _, entry := range m.local {
			b.WriteString(fmt.Sprintf("  %s  %s (%ds)\n", entry.JobID, entry.URL, entry.Duration))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
