package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the generate progress display.
type Model struct {
	tasks    []Task
	spinner  spinner.Model
	progress progress.Model
	events   <-chan Event
	now      func() time.Time

	username       string
	started        time.Time
	done           bool
	rateLimited    bool
	rateLimitReset time.Time
}

// eventsClosedMsg is delivered when the event channel is closed.
type eventsClosedMsg struct{}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTasks replaces the default pipeline tasks.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) {
		m.tasks = tasks
	}
}

// WithClock sets the time source used for task timings.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// DefaultTasks returns the steps of a generate run, in order.
func DefaultTasks() []Task {
	return []Task{
		NewTask(TaskValidate, "Checking configuration", ""),
		NewTask(TaskFetch, "Fetching GitHub data", ""),
		NewTask(TaskAggregate, "Aggregating statistics", ""),
		NewTask(TaskRender, "Rendering cards and documents", "files"),
		NewTask(TaskWrite, "Writing files", "files"),
		NewTask(TaskPublish, "Publishing", "objects"),
	}
}

// NewModel creates a progress model fed by events.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := Model{
		tasks:   DefaultTasks(),
		spinner: s,
		progress: progress.New(
			progress.WithGradient("#0e4429", "#39d353"),
			progress.WithWidth(24),
			progress.WithoutPercentage(),
		),
		events: events,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.started = m.now()
	return m
}

// Init starts the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case TaskEvent:
		cmd := m.apply(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case RateLimitEvent:
		m.rateLimited = msg.Limited
		m.rateLimitReset = msg.ResetAt
		return m, waitForEvent(m.events)

	case DoneEvent, eventsClosedMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) apply(e TaskEvent) tea.Cmd {
	for i := range m.tasks {
		if m.tasks[i].ID != e.Task {
			continue
		}
		m.tasks[i].apply(e, m.now())
		if e.Task == TaskValidate && e.Status == StatusComplete && e.Message != "" {
			m.username = e.Message
		}
		if e.Progress > 0 {
			return m.progress.SetPercent(e.Progress)
		}
		return nil
	}
	return nil
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	now := m.now()

	if m.username != "" {
		b.WriteString(headerStyle.Render("  Generating stats for "+userStyle.Render("@"+m.username)) + "\n")
	}

	for _, t := range m.tasks {
		bar := ""
		if t.Status == StatusRunning && t.Progress > 0 {
			bar = m.progress.View()
		}
		b.WriteString(t.View(m.spinner.View(), bar, now) + "\n")
	}

	if m.rateLimited {
		if wait := m.rateLimitReset.Sub(now).Round(time.Second); wait > 0 {
			b.WriteString(warnStyle.Render(fmt.Sprintf("\n  Rate limited: some repositories were skipped (resets in %s)", wait)) + "\n")
		}
	}

	if m.done {
		b.WriteString(footerStyle.Render("  Finished in "+formatElapsed(now.Sub(m.started))) + "\n")
	} else {
		b.WriteString(footerStyle.Render("  Press Ctrl+C to cancel") + "\n")
	}
	return b.String()
}

func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return e
	}
}
