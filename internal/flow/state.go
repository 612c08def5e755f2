package flow

import "github.com/f3rmion/senti/internal/sentiment"

// Submission is the lifecycle state of the submit action.
type Submission int

const (
	SubmissionIdle Submission = iota
	SubmissionPending
	SubmissionError
)

func (s Submission) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionPending:
		return "pending"
	case SubmissionError:
		return "error"
	default:
		return "unknown"
	}
}

// Advisory texts.
const (
	AdvisorySending     = "Enviando mensaje..."
	AdvisoryErrorPrefix = "❌ Error: "
)

// Rendering is what the result screen shows.
type Rendering struct {
	Text    string // Original trimmed input
	Entry   sentiment.Entry
	Percent int
}

// State is the complete UI state owned by a Controller.
type State struct {
	Screen     Screen
	Submission Submission
	Input      string // Raw, untrimmed input
	Verdict    sentiment.Verdict
	Advisory   string

	// Rendering is nil until the first recognized result.
	Rendering *Rendering
}

// Counter is the live character counter for the current input.
func (s State) Counter() string {
	return sentiment.Counter(s.Input)
}

// CanSubmit reports whether the submit action is enabled.
func (s State) CanSubmit() bool {
	return s.Submission != SubmissionPending && s.Verdict.Valid
}
