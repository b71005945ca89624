package tui

import (
	"fmt"
	"strings"
	"time"
)

// Task is one pipeline step of a generate run.
type Task struct {
	ID       TaskID
	Name     string
	Unit     string // noun for Count, e.g. "files"
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error

	Started  time.Time
	Finished time.Time
}

// NewTask creates a pending task. unit labels the count reported on
// completion and may be empty.
func NewTask(id TaskID, name, unit string) Task {
	return Task{ID: id, Name: name, Unit: unit, Status: StatusPending}
}

// Elapsed is the time the task ran, or zero if it never started.
func (t Task) Elapsed(now time.Time) time.Duration {
	if t.Started.IsZero() {
		return 0
	}
	end := t.Finished
	if end.IsZero() {
		end = now
	}
	return end.Sub(t.Started)
}

// apply folds an event into the task, stamping start and finish times.
func (t *Task) apply(e TaskEvent, now time.Time) {
	if e.Status == StatusRunning && t.Started.IsZero() {
		t.Started = now
	}
	if e.Status.finished() && t.Finished.IsZero() {
		if t.Started.IsZero() {
			t.Started = now
		}
		t.Finished = now
	}

	t.Status = e.Status
	if e.Message != "" {
		t.Message = e.Message
	}
	if e.Count > 0 {
		t.Count = e.Count
	}
	if e.Progress > 0 {
		t.Progress = e.Progress
	}
	if e.Error != nil {
		t.Error = e.Error
	}
}

// detail is the dim text shown after the task name.
func (t Task) detail() string {
	var parts []string
	if t.Message != "" {
		parts = append(parts, t.Message)
	}
	if t.Count > 0 {
		count := fmt.Sprint(t.Count)
		if t.Unit != "" {
			count += " " + t.Unit
		}
		parts = append(parts, count)
	}
	return strings.Join(parts, ", ")
}

// View renders the task line. bar is the rendered progress bar for a
// running task and may be empty.
func (t Task) View(spinnerFrame, bar string, now time.Time) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(StatusIcon(t.Status, spinnerFrame))
	b.WriteString(" ")

	if t.Status == StatusPending {
		b.WriteString(subtleStyle.Render(t.Name))
		return b.String()
	}
	b.WriteString(textStyle.Render(t.Name))

	if t.Status == StatusRunning && t.Progress > 0 && bar != "" {
		fmt.Fprintf(&b, " %s %d%%", bar, int(t.Progress*100))
	}
	if d := t.detail(); d != "" {
		b.WriteString(" " + mutedStyle.Render("("+d+")"))
	}
	if t.Status.finished() && t.Status != StatusSkipped {
		b.WriteString(" " + subtleStyle.Render(formatElapsed(t.Elapsed(now))))
	}
	if t.Error != nil {
		b.WriteString(" " + errorStyle.Render(t.Error.Error()))
	}
	return b.String()
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}
