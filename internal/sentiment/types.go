// Package sentiment provides the sentiment labels, the input validation gate
// and the presentation table used to render classification results.
package sentiment

import (
	"math"
	"strings"
)

// Label is a sentiment category as returned by the classification service.
type Label string

const (
	Positive Label = "positivo"
	Negative Label = "negativo"
	Neutral  Label = "neutral"
)

// Labels lists the known categories in display order.
var Labels = []Label{Positive, Negative, Neutral}

// ParseLabel matches s against the known labels, ignoring case and
// surrounding whitespace.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case Positive, Negative, Neutral:
		return l, true
	}
	return "", false
}

// Result is a classification as received from the service.
type Result struct {
	Label       string // Raw label, may be unknown
	Probability int    // Confidence as a percentage, 0-100
}

// Percent converts a probability fraction in [0,1] to a rounded percentage.
func Percent(fraction float64) int {
	return int(math.Round(fraction * 100))
}
