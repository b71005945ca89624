package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Histogram draws a 24-row bar chart of commits per UTC hour. Bars are
// scaled to width; daytime hours (06-18) are yellow and the rest blue. The
// busiest hour is marked with "^".
func Histogram(hours [24]int, width int) string {
	var b strings.Builder

	total, peak := 0, 0
	for h, c := range hours {
		total += c
		if c > hours[peak] {
			peak = h
		}
	}

	b.WriteString("⏰ Commits by hour (UTC)\n")
	b.WriteString(strings.Repeat("─", 40) + "\n")
	if total == 0 {
		b.WriteString("No commit activity available\n")
		return b.String()
	}

	day := color.New(color.FgYellow)
	night := color.New(color.FgBlue)
	marker := color.New(color.FgGreen, color.Bold)

	for h, c := range hours {
		line := fmt.Sprintf("%02d:00 ", h)
		if h == peak {
			line += marker.Sprint("^") + " "
		} else {
			line += "  "
		}

		if c == 0 {
			b.WriteString(line + "\n")
			continue
		}
		line += fmt.Sprintf("(%3d) ", c)

		barLen := max(1, c*width/hours[peak])
		bar := day
		if h < 6 || h > 18 {
			bar = night
		}
		if barLen == 1 {
			line += bar.Sprint("·")
		} else {
			line += bar.Sprint(strings.Repeat("█", barLen))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
