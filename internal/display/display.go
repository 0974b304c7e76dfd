// Package display renders the rolling conversation window that parrotd
// shows with --display, wrapping lines the way the teacher's engine wraps
// its console output.
package display

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Window is a fixed-length rolling view of the most recent teacher/agent
// exchanges, rendered at a fixed wrap width.
type Window struct {
	width   int
	maxLine int
	lines   []string
}

// NewWindow returns an empty Window that wraps at width columns and keeps
// at most maxLines of rendered history.
func NewWindow(width, maxLines int) *Window {
	if width <= 0 {
		width = 80
	}
	if maxLines <= 0 {
		maxLines = 200
	}
	return &Window{width: width, maxLine: maxLines}
}

// Push appends one exchange to the window, wrapping it to the configured
// width and trimming the oldest lines once over capacity.
func (w *Window) Push(teacherText, agentText string, reward rune) {
	entry := fmt.Sprintf("teacher: %s\nparrot:  %s  [%c]", teacherText, agentText, reward)
	wrapped := rosed.Edit(entry).Wrap(w.width).String()
	w.lines = append(w.lines, strings.Split(wrapped, "\n")...)
	if len(w.lines) > w.maxLine {
		w.lines = w.lines[len(w.lines)-w.maxLine:]
	}
}

// Render returns the current window contents as one string, oldest line
// first, ready to print to the terminal.
func (w *Window) Render() string {
	return strings.Join(w.lines, "\n")
}
