package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/senti/internal/flow"
	"github.com/mattn/go-runewidth"
)

var (
	emojiStyle = lipgloss.NewStyle().
			Padding(1, 0).
			Align(lipgloss.Center)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a1a2e")).
			Padding(0, 2)

	percentStyle = lipgloss.NewStyle().
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee")).
				Italic(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

// ResultModel is the classification result screen.
type ResultModel struct {
	width   int
	copied  bool
	copyErr error
}

// NewResultModel creates a result view.
func NewResultModel() ResultModel {
	return ResultModel{width: 60}
}

// SetSize updates the view dimensions.
func (m *ResultModel) SetSize(width, height int) {
	m.width = width
}

// SetCopied records the outcome of a clipboard copy. A nil error with
// copied false clears the indicator.
func (m *ResultModel) SetCopied(copied bool, err error) {
	m.copied = copied
	m.copyErr = err
}

// View renders the result screen for st.
func (m ResultModel) View(st flow.State) string {
	r := st.Rendering
	if r == nil {
		return mutedStyle.Render("Todavía no hay ningún resultado.")
	}

	width := m.width - 8
	if width < 30 {
		width = 30
	}
	color := r.Entry.Color

	var b strings.Builder

	quote := lipgloss.NewStyle().Foreground(color).Italic(true).
		Render(wordWrap("'"+r.Text+"'", width))
	b.WriteString(quote)
	b.WriteString("\n")

	b.WriteString(emojiStyle.Width(width).Render(r.Entry.Emoji))
	b.WriteString("\n")

	badge := badgeStyle.Background(color).Render(r.Entry.Label)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, badge))
	b.WriteString("\n\n")

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width-6),
		progress.WithoutPercentage(),
	)
	b.WriteString(bar.ViewAs(float64(r.Percent) / 100))
	b.WriteString(" ")
	b.WriteString(percentStyle.Foreground(color).Render(fmt.Sprintf("%d%%", r.Percent)))
	b.WriteString("\n\n")

	b.WriteString(descriptionStyle.Render(r.Entry.Description))

	if m.copied {
		b.WriteString("\n\n")
		b.WriteString(copiedStyle.Render("¡Copiado!"))
	} else if m.copyErr != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("No se pudo copiar: " + m.copyErr.Error()))
	}

	return cardStyle.BorderForeground(color).Render(b.String())
}

// Summary is the one-line form of a rendering used for the clipboard.
func Summary(r *flow.Rendering) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %d%% '%s'", r.Entry.Emoji, r.Entry.Label, r.Percent, r.Text)
}

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if wordWidth > width {
			word = runewidth.Truncate(word, width, "…")
			wordWidth = runewidth.StringWidth(word)
		}
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return strings.Join(lines, "\n")
}
