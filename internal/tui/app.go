package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/senti/internal/clipboard"
	"github.com/f3rmion/senti/internal/flow"
	"github.com/f3rmion/senti/internal/tui/views"
)

// outcomeMsg carries a finished classification back to the event loop.
type outcomeMsg flow.Outcome

type copiedMsg struct {
	err error
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// AppModel is the main TUI model. It dispatches key presses and async
// results into the controller and renders the controller's state.
type AppModel struct {
	ctx  context.Context
	ctrl *flow.Controller

	// Layout state
	width  int
	height int
	ready  bool

	form   views.FormModel
	result views.ResultModel
	keys   keyMap
	help   help.Model

	// Replaced in tests.
	copyText func(string) error
}

// NewApp creates the TUI for ctrl. ctx bounds outbound requests.
func NewApp(ctx context.Context, ctrl *flow.Controller) AppModel {
	return AppModel{
		ctx:      ctx,
		ctrl:     ctrl,
		form:     views.NewFormModel(),
		result:   views.NewResultModel(),
		keys:     newKeyMap(),
		help:     help.New(),
		copyText: clipboard.Write,
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.ctrl.State().Screen == flow.ScreenResult {
			return m.updateResult(msg)
		}
		return m.updateForm(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - 8
		contentHeight := m.height - 8
		m.form.SetSize(contentWidth, contentHeight)
		m.result.SetSize(contentWidth, contentHeight)
		return m, nil

	case outcomeMsg:
		st := m.ctrl.Complete(flow.Outcome(msg))
		if st.Input == "" {
			m.form.Reset()
		}
		m.result.SetCopied(false, nil)
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.State().Submission != flow.SubmissionPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case copiedMsg:
		m.result.SetCopied(msg.err == nil, msg.err)
		if msg.err != nil {
			return m, nil
		}
		return m, clearCopiedAfter(2 * time.Second)

	case clearCopiedMsg:
		m.result.SetCopied(false, nil)
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m AppModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	if v := m.form.Value(); v != m.ctrl.State().Input {
		m.ctrl.OnInputChanged(v)
	}
	return m, cmd
}

func (m AppModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctrl.OnBackRequested()
		m.result.SetCopied(false, nil)
		return m, m.form.Focus()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyResult()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// submit starts a classification if the controller accepts it.
func (m AppModel) submit() (tea.Model, tea.Cmd) {
	a, ok := m.ctrl.OnSubmitRequested()
	if !ok {
		return m, nil
	}
	return m, tea.Batch(m.form.StartSpinner(), m.classify(a))
}

// classify runs the request off the event loop.
func (m AppModel) classify(a flow.Attempt) tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		return outcomeMsg(ctrl.Run(ctx, a))
	}
}

func (m AppModel) copyResult() tea.Cmd {
	text := views.Summary(m.ctrl.State().Rendering)
	if text == "" {
		return nil
	}
	write := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	st := m.ctrl.State()

	var content string
	var bindings []key.Binding
	switch st.Screen {
	case flow.ScreenResult:
		content = m.result.View(st)
		bindings = m.keys.resultHelp()
	default:
		content = m.form.View(st)
		bindings = m.keys.formHelp()
	}

	header := TitleStyle.Render("Senti") + "  " + SubtitleStyle.Render("Análisis de sentimiento")
	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		content,
		HelpStyle.Render(m.help.ShortHelpView(bindings)),
	)

	return FrameStyle.
		Width(m.width - 2).
		Render(body)
}
