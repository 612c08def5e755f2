// Package clipboard copies text to the system clipboard through the
// platform's command line tools.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool found")

// tools lists candidate commands per GOOS in preference order.
var tools = map[string][][]string{
	"darwin":  {{"pbcopy"}},
	"linux":   {{"wl-copy"}, {"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}},
	"windows": {{"cmd", "/c", "clip"}},
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// command returns the first installed clipboard tool for goos.
func command(goos string) ([]string, error) {
	candidates, ok := tools[goos]
	if !ok {
		candidates = tools["linux"]
	}
	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrUnavailable
}

// Write copies text to the system clipboard.
func Write(text string) error {
	args, err := command(runtime.GOOS)
	if err != nil {
		return err
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}
	return nil
}

// Available checks if clipboard functionality is available.
func Available() bool {
	_, err := command(runtime.GOOS)
	return err == nil
}
