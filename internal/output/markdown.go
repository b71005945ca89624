package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// Format outputs the runs as a Markdown table.
func (f *MarkdownFormatter) Format(runs []Run, now time.Time, w io.Writer) error {
	fmt.Fprintln(w, "# statcard run history")
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", now.Format("2006-01-02 15:04"))

	fmt.Fprintln(w, markdownRow(headerCells()))

	seps := make([]string, len(columns))
	for i, c := range columns {
		seps[i] = "---"
		if c.right {
			seps[i] = "---:"
		}
	}
	fmt.Fprintln(w, markdownRow(seps))

	for _, r := range runs {
		fmt.Fprintln(w, markdownRow(Cells(r, now)))
	}
	return nil
}

func markdownRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}
