// Package output renders the run history in the supported formats.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/spiffcs/statcard/internal/stats"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --output value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be table, json or markdown)", s)
	}
}

// Run is one recorded generate run. Previous is the run of the same user
// before it, if any.
type Run struct {
	stats.Snapshot
	Previous *stats.Snapshot
}

// Runs pairs each snapshot with the previous one of the same user and
// returns them newest first. records must be oldest first.
func Runs(records []stats.Snapshot) []Run {
	last := map[string]int{}
	runs := make([]Run, len(records))

	for i, r := range records {
		runs[i] = Run{Snapshot: r}
		if j, ok := last[r.Username]; ok {
			prev := records[j]
			runs[i].Previous = &prev
		}
		last[r.Username] = i
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(runs []Run, now time.Time, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
