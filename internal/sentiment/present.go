package sentiment

import "github.com/charmbracelet/lipgloss"

// Entry holds the display attributes for one sentiment label.
type Entry struct {
	Key         Label
	Emoji       string
	Label       string // Human label shown in the badge
	Description string

	// Style tags for the badge, progress bar, background gradient and quoted text.
	BadgeClass    string
	ProgressClass string
	GradientClass string
	TextClass     string

	Color lipgloss.Color
}

var entries = map[Label]Entry{
	Positive: {
		Key:           Positive,
		Emoji:         "😊",
		Label:         "Positivo",
		Description:   "El texto expresa emociones positivas",
		BadgeClass:    "sentiment-value sentiment-positive",
		ProgressClass: "progress-bar bg-positive",
		GradientClass: "gradient-positive",
		TextClass:     "text-positive",
		Color:         lipgloss.Color("#a8e6cf"),
	},
	Negative: {
		Key:           Negative,
		Emoji:         "😞",
		Label:         "Negativo",
		Description:   "El texto expresa emociones negativas",
		BadgeClass:    "sentiment-value sentiment-negative",
		ProgressClass: "progress-bar bg-negative",
		GradientClass: "gradient-negative",
		TextClass:     "text-negative",
		Color:         lipgloss.Color("#ff6b6b"),
	},
	Neutral: {
		Key:           Neutral,
		Emoji:         "😐",
		Label:         "Neutral",
		Description:   "El texto no expresa emociones fuertes",
		BadgeClass:    "sentiment-value sentiment-neutral",
		ProgressClass: "progress-bar bg-neutral",
		GradientClass: "gradient-neutral",
		TextClass:     "text-neutral",
		Color:         lipgloss.Color("#ffe66d"),
	},
}

// Present looks up the display entry for a label. When the label is not
// recognized it returns false and callers must keep their previous rendering.
func Present(label string) (Entry, bool) {
	l, ok := ParseLabel(label)
	if !ok {
		return Entry{}, false
	}
	return entries[l], true
}
