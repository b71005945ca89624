package tui

import "time"

// TaskID identifies a task in the TUI progress display.
type TaskID int

const (
	TaskValidate  TaskID = iota // Checking configuration and credentials
	TaskFetch                   // Fetching profile, repositories, languages and commits
	TaskAggregate               // Deriving statistics
	TaskRender                  // Rendering SVG cards and documents
	TaskWrite                   // Writing files to disk
	TaskPublish                 // Uploading files to object storage
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// finished reports whether a task in this status will not change again.
func (s TaskStatus) finished() bool {
	return s == StatusComplete || s == StatusError || s == StatusSkipped
}

// Event is the interface for all TUI events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // Optional message (e.g., "12/30" for progress)
	Count    int     // Count of items (e.g., repositories fetched)
	Progress float64 // Progress from 0.0 to 1.0
	Error    error   // Error if status is StatusError
}

func (TaskEvent) isEvent() {}

// RateLimitEvent reports that the API rate limit was exhausted.
type RateLimitEvent struct {
	Limited bool
	ResetAt time.Time
}

func (RateLimitEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
