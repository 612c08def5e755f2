// Package views provides the form and result screens of the TUI.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/senti/internal/flow"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a1a2e")).
			Background(lipgloss.Color("#4ecdc4")).
			Padding(0, 2)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)
)

// FormModel is the text entry screen.
type FormModel struct {
	input   textarea.Model
	spinner spinner.Model
	width   int
}

// NewFormModel creates a focused form.
func NewFormModel() FormModel {
	ta := textarea.New()
	ta.Placeholder = "Escribe aquí tu comentario..."
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(5)
	// enter submits, so newlines need a modifier.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(loadingStyle),
	)

	return FormModel{
		input:   ta,
		spinner: sp,
		width:   60,
	}
}

// SetSize updates the view dimensions.
func (m *FormModel) SetSize(width, height int) {
	m.width = width
	w := width - 4
	if w < 20 {
		w = 20
	}
	m.input.SetWidth(w)

	h := height / 3
	if h < 3 {
		h = 3
	}
	m.input.SetHeight(h)
}

// Value returns the raw text in the input.
func (m FormModel) Value() string {
	return m.input.Value()
}

// Reset clears the input.
func (m *FormModel) Reset() {
	m.input.Reset()
}

// Focus focuses the input.
func (m *FormModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// StartSpinner starts the pending animation.
func (m FormModel) StartSpinner() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(spinner.TickMsg); ok {
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the form for st.
func (m FormModel) View(st flow.State) string {
	var b strings.Builder

	b.WriteString(promptStyle.Render("¿Qué quieres analizar?"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	button := buttonDisabledStyle.Render("Analizar")
	if st.CanSubmit() {
		button = buttonStyle.Render("Analizar")
	}
	counter := counterStyle.Render(st.Counter())
	gap := m.width - lipgloss.Width(counter) - lipgloss.Width(button) - 4
	if gap < 2 {
		gap = 2
	}
	b.WriteString(counter + strings.Repeat(" ", gap) + button)
	b.WriteString("\n")

	if st.Advisory != "" {
		b.WriteString("\n")
		b.WriteString(m.renderAdvisory(st))
		b.WriteString("\n")
	}

	return b.String()
}

func (m FormModel) renderAdvisory(st flow.State) string {
	switch st.Submission {
	case flow.SubmissionPending:
		return m.spinner.View() + " " + loadingStyle.Render(st.Advisory)
	case flow.SubmissionError:
		return errorStyle.Render(st.Advisory)
	default:
		return warnStyle.Render(st.Advisory)
	}
}
