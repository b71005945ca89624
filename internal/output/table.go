package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spiffcs/statcard/internal/format"
)

type column struct {
	title string
	width int
	right bool
}

var columns = []column{
	{"When", 10, false},
	{"User", 16, false},
	{"Contrib", 14, true},
	{"Commits", 14, true},
	{"Stars", 12, true},
	{"Streak", 7, true},
	{"Top Language", 14, false},
	{"Took", 7, true},
}

// TableFormatter formats output as an aligned terminal table
type TableFormatter struct{}

// Format writes one line per run below a header.
func (f *TableFormatter) Format(runs []Run, now time.Time, w io.Writer) error {
	fmt.Fprintln(w, tableLine(headerCells()))
	fmt.Fprintln(w, strings.Repeat("─", tableWidth()))
	for _, r := range runs {
		fmt.Fprintln(w, tableLine(Cells(r, now)))
	}
	return nil
}

// Cells formats a run for display, with changes against the previous run
// shown next to contributions, commits and stars.
func Cells(r Run, now time.Time) []string {
	contrib := format.Number(r.TotalContributions)
	commits := format.Number(r.Commits)
	stars := format.Number(r.Stars)
	if p := r.Previous; p != nil {
		contrib = withDelta(contrib, format.Delta(p.TotalContributions, r.TotalContributions))
		commits = withDelta(commits, format.Delta(p.Commits, r.Commits))
		stars = withDelta(stars, format.Delta(p.Stars, r.Stars))
	}

	top := r.TopLanguage
	if top == "" {
		top = "-"
	}

	return []string{
		format.Ago(r.Timestamp, now),
		r.Username,
		contrib,
		commits,
		stars,
		fmt.Sprintf("%dd", r.CurrentStreak),
		top,
		took(r.DurationMs).String(),
	}
}

func took(ms int64) time.Duration {
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond)
}

func withDelta(value, delta string) string {
	if delta == "" {
		return value
	}
	return value + " " + delta
}

func headerCells() []string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = c.title
	}
	return cells
}

func tableLine(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		col := columns[i]
		cell = format.Truncate(cell, col.width)
		if col.right {
			parts[i] = format.PadLeft(cell, col.width)
		} else {
			parts[i] = format.PadRight(cell, col.width)
		}
	}
	return strings.Join(parts, "  ")
}

func tableWidth() int {
	w := 0
	for _, c := range columns {
		w += c.width
	}
	return w + 2*(len(columns)-1)
}
