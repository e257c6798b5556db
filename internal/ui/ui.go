package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/viralclips/clipctl/internal/models"
	"github.com/viralclips/clipctl/internal/repositories"
	"github.com/viralclips/clipctl/internal/services"
	"github.com/viralclips/clipctl/internal/session"
	"github.com/viralclips/clipctl/internal/updates"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	ProcessView
	EditView
	ErrorView
)

// Delay between completion notice and the switch to the editor view.
const redirectDelay = 1500 * time.Millisecond

// Delay before the single refresh retry when job data is missing.
const refreshRetryDelay = 3 * time.Second

// editTarget selects what the shared text input is editing.
type editTarget int

const (
	editNothing editTarget = iota
	editCaptionText
	editEndScreenText
)

// colorTarget selects what a palette pick applies to.
type colorTarget int

const (
	targetFill colorTarget = iota
	targetOutline
	targetEndScreen
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	svc     services.Service
	channel *updates.Client
	history *repositories.HistoryRepository
	logger  *log.Logger
	keys    keyMap
	help    help.Model

	view   ViewState
	width  int
	height int
	jobID  string

	// input page
	inputs  []textinput.Model
	focus   int
	formErr string
	recent  []models.RecentClip
	local   []models.HistoryEntry

	// process page
	bar         progress.Model
	percent     int
	statusMsg   string
	sub         updates.Subscription
	pollEvery   time.Duration
	polling     bool
	completed   bool
	terminalErr string

	// edit page
	editor       *session.Editor
	clip         *models.ClipData
	cursor       int
	editTgt      editTarget
	textEdit     textinput.Model
	popup        *session.Popup
	popupTarget  colorTarget
	prober       *session.Prober
	probeLimiter *rate.Limiter
	videoURL     string
	regenerating bool
	regenPercent int
	regenMsg     string
	notice       string
	confirmQuit  bool
	repairTried  bool
	refreshTried bool
}

// Opts contains the dependencies and entry state for the TUI.
type Opts struct {
	Service      services.Service
	Channel      *updates.Client
	History      *repositories.HistoryRepository
	Logger       *log.Logger
	StartView    ViewState
	JobID        string
	PollInterval time.Duration
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Opts) *Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}

	popup := session.NewPopup(popupWidth, popupHeight)

	m := &Model{
		ctx:          ctx,
		svc:          opts.Service,
		channel:      opts.Channel,
		history:      opts.History,
		logger:       opts.Logger,
		keys:         newKeyMap(),
		help:         help.New(),
		view:         opts.StartView,
		jobID:        opts.JobID,
		bar:          progress.New(progress.WithDefaultGradient()),
		pollEvery:    opts.PollInterval,
		popup:        popup,
		probeLimiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	m.initInputs()
	m.initTextEdit()
	return m
}

// Page construction messages

type historyLoadedMsg struct {
	recent []models.RecentClip
	local  []models.HistoryEntry
}

type jobCreatedMsg struct {
	started *models.JobStarted
	req     models.ClipRequest
	err     error
}

type statusSeedMsg struct {
	job *models.Job
	err error
}

type subscribedMsg struct {
	sub updates.Subscription
	err error
}

type updateEventMsg updates.Event

type channelClosedMsg struct{ err error }

type pollTickMsg struct{}

type redirectMsg struct{}

type clipContextMsg struct {
	job     *models.Job
	listing []string
	err     error
}

type probeResultMsg struct {
	url string
	err error
}

type diagnosticsMsg struct {
	diag *models.JobDiagnostics
	err  error
}

type repairedMsg struct {
	repair *models.JobRepair
	err    error
}

type refreshDelayMsg struct{}

type refreshedMsg struct {
	refresh *models.VideoRefresh
	err     error
}

type submitResultMsg struct {
	started *models.UpdateStarted
	err     error
}

// Init wires the entry view: the input form loads history, while direct
// process/edit entry seeds job state immediately.
func (m *Model) Init() tea.Cmd {
	switch m.view {
	case ProcessView:
		return tea.Batch(m.seedStatus(), m.subscribe())
	case EditView:
		return tea.Batch(m.loadClipContext(), m.subscribe())
	default:
		return tea.Batch(textinput.Blink, m.loadHistory())
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-8, 60)
		m.help.Width = msg.Width
		m.popup.SetViewport(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ProcessView:
			return m.handleProcessKeys(msg)
		case EditView:
			return m.handleEditKeys(msg)
		case ErrorView:
			return m.handleErrorKeys(msg)
		}

	case tea.MouseMsg:
		if m.view == EditView {
			return m.handleEditMouse(msg)
		}
		return m, nil

	case historyLoadedMsg:
		m.recent = msg.recent
		m.local = msg.local
		return m, nil

	case jobCreatedMsg:
		return m.handleJobCreated(msg)

	case statusSeedMsg:
		return m.handleStatusSeed(msg)

	case subscribedMsg:
		if msg.err != nil {
			if m.logger != nil {
				m.logger.Warn("update channel unavailable, polling instead", "err", msg.err)
			}
			m.polling = true
			return m, m.pollTick()
		}
		m.sub = msg.sub
		return m, m.waitForEvent()

	case updateEventMsg:
		return m.handleUpdateEvent(updates.Event(msg))

	case channelClosedMsg:
		if m.logger != nil && msg.err != nil {
			m.logger.Warn("update channel closed", "err", msg.err)
		}
		m.sub = nil
		if m.view == ProcessView && !m.completed && m.terminalErr == "" {
			m.polling = true
			return m, m.pollTick()
		}
		return m, nil

	case pollTickMsg:
		if !m.polling || m.completed || m.terminalErr != "" {
			return m, nil
		}
		return m, m.seedStatus()

	case redirectMsg:
		return m.enterEditView()

	case clipContextMsg:
		return m.handleClipContext(msg)

	case probeResultMsg:
		return m.handleProbeResult(msg)

	case diagnosticsMsg:
		return m.handleDiagnostics(msg)

	case repairedMsg:
		return m.handleRepaired(msg)

	case refreshDelayMsg:
		return m, m.refreshVideo()

	case refreshedMsg:
		return m.handleRefreshed(msg)

	case submitResultMsg:
		return m.handleSubmitResult(msg)
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case ProcessView:
		return m.renderProcess()
	case EditView:
		return m.renderEdit()
	case ErrorView:
		return m.renderErrorPanel()
	default:
		return ""
	}
}

// updateFocused forwards non-key messages to whichever text input is active.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		if m.focus >= 0 && m.focus < len(m.inputs) {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		}
	case EditView:
		if m.editTgt != editNothing {
			m.textEdit, cmd = m.textEdit.Update(msg)
		}
	}
	return m, cmd
}

// subscribe opens the live update channel for the current job.
func (m *Model) subscribe() tea.Cmd {
	if m.channel == nil || m.jobID == "" {
		return nil
	}
	return func() tea.Msg {
		sub, err := m.channel.Subscribe(m.ctx, m.jobID)
		return subscribedMsg{sub: sub, err: err}
	}
}

// waitForEvent blocks on the subscription stream, bridging events into the
// bubbletea loop one at a time.
func (m *Model) waitForEvent() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return channelClosedMsg{err: sub.Err()}
		}
		return updateEventMsg(ev)
	}
}

// seedStatus issues the one-shot status poll covering jobs that finished or
// failed before the channel connected.
func (m *Model) seedStatus() tea.Cmd {
	return func() tea.Msg {
		job, err := m.svc.JobStatus(m.ctx, m.jobID)
		return statusSeedMsg{job: job, err: err}
	}
}

func (m *Model) pollTick() tea.Cmd {
	return tea.Tick(m.pollEvery, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		var loaded historyLoadedMsg
		if recent, err := m.svc.RecentActivity(m.ctx); err == nil {
			loaded.recent = recent
		}
		if m.history != nil {
			if local, err := m.history.Recent(10); err == nil {
				loaded.local = local
			}
		}
		return loaded
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
