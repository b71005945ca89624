// Package tui renders inline progress for the generate command.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run draws the progress display until events is closed or a DoneEvent
// arrives. It renders inline and leaves the final state on screen.
func Run(events <-chan Event, opts ...ModelOption) error {
	_, err := tea.NewProgram(NewModel(events, opts...)).Run()
	return err
}

// Scheduled profile refreshes usually run in CI, where plain logs read
// better in the job output.
var ciVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"BUILDKITE",
	"CIRCLECI",
	"JENKINS_URL",
	"TRAVIS",
}

// ShouldUseTUI reports whether stdout is an interactive terminal outside CI.
func ShouldUseTUI() bool {
	if os.Getenv("TERM") == "dumb" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return false
		}
	}
	return true
}

// SendEvent delivers e without blocking. A nil channel or a full buffer
// drops the event; progress updates are superseded by later ones anyway.
func SendEvent(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- e:
	default:
	}
}

// SendTaskEvent builds a TaskEvent from opts and sends it.
func SendTaskEvent(ch chan<- Event, task TaskID, status TaskStatus, opts ...TaskEventOption) {
	e := TaskEvent{Task: task, Status: status}
	for _, opt := range opts {
		opt(&e)
	}
	SendEvent(ch, e)
}

// TaskEventOption sets an optional TaskEvent field.
type TaskEventOption func(*TaskEvent)

// WithMessage attaches a short status text, such as "12/40".
func WithMessage(msg string) TaskEventOption {
	return func(e *TaskEvent) { e.Message = msg }
}

// WithCount reports how many items the task produced.
func WithCount(count int) TaskEventOption {
	return func(e *TaskEvent) { e.Count = count }
}

// WithProgress reports completion between 0 and 1.
func WithProgress(progress float64) TaskEventOption {
	return func(e *TaskEvent) { e.Progress = progress }
}

// WithError attaches the failure of a StatusError event.
func WithError(err error) TaskEventOption {
	return func(e *TaskEvent) { e.Error = err }
}
