package sentiment

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinLength is the default minimum input length. Input must be strictly
// longer than this to be submitted.
const MinLength = 10

// Verdict is the outcome of validating raw input.
type Verdict struct {
	Valid    bool
	Advisory string
}

// Validate checks raw input against MinLength.
func Validate(raw string) Verdict {
	return ValidateMin(raw, MinLength)
}

// ValidateMin checks raw input against an explicit threshold. Empty input is
// invalid without an advisory so an untouched field is not flagged.
func ValidateMin(raw string, min int) Verdict {
	n := Length(raw)
	switch {
	case n == 0:
		return Verdict{}
	case n <= min:
		return Verdict{Advisory: ShortAdvisory(min)}
	default:
		return Verdict{Valid: true}
	}
}

// Length returns the number of characters in the trimmed input.
func Length(raw string) int {
	return utf8.RuneCountInString(strings.TrimSpace(raw))
}

// Counter renders the live character counter for raw input.
func Counter(raw string) string {
	return fmt.Sprintf("%d caracteres", Length(raw))
}

// ShortAdvisory is shown while the user is typing input that is too short.
func ShortAdvisory(min int) string {
	return fmt.Sprintf("Escribe más de %d caracteres para analizar", min)
}

// RejectAdvisory is shown when a submission is attempted with short input.
func RejectAdvisory(min int) string {
	return fmt.Sprintf("El mensaje debe tener más de %d caracteres", min)
}
