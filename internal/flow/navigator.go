// Package flow implements the form/result screen flow and the submission
// state machine. It has no dependency on any UI toolkit; front ends call the
// On* transition methods from their own event loop.
package flow

// Screen is one of the two mutually exclusive top-level views.
type Screen int

const (
	ScreenForm Screen = iota
	ScreenResult
)

func (s Screen) String() string {
	switch s {
	case ScreenForm:
		return "form"
	case ScreenResult:
		return "result"
	default:
		return "unknown"
	}
}

// GoTo returns st with screen as the only visible screen.
func GoTo(st State, screen Screen) State {
	st.Screen = screen
	return st
}
