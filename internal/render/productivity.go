package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

const (
	productivityWidth  = 800
	productivityHeight = 380
)

// Donut geometry, relative to the left panel.
const (
	donutCX    = 240
	donutCY    = 170
	donutR     = 85
	donutRing  = 18
	legendX    = 30
	legendY    = 280
	legendColW = 125
	legendRowH = 20
)

// Clock geometry, relative to the right panel.
const (
	clockCX      = 185
	clockCY      = 210
	clockR       = 60
	clockMaxBarH = 70
)

// dayColors is indexed by time.Weekday.
var dayColors = [7]string{
	"#fb7185", // Sunday
	"#f472b6",
	"#fbbf24",
	"#34d399",
	"#60a5fa",
	"#818cf8",
	"#a78bfa",
}

// weekOrder lists weekdays Monday first.
var weekOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Productivity renders the weekly cadence donut next to a 24-hour clock of
// commit times.
func Productivity(stats *model.GitHubStats) string {
	t := DefaultTheme

	styles := strings.Join([]string{
		fmt.Sprintf(`    .header { %s fill: %s; }`, font(600, 20), t.Text),
		fmt.Sprintf(`    .subheader { %s fill: %s; }`, font(400, 12), t.TextSecondary),
		fmt.Sprintf(`    .chart-label { %s fill: %s; }`, font(600, 12), t.TextSecondary),
		fmt.Sprintf(`    .chart-value { %s fill: %s; }`, font(600, 24), t.Text),
		fmt.Sprintf(`    .chart-sub { %s fill: %s; }`, font(400, 11), t.TextSecondary),
		fmt.Sprintf(`    .legend-key { %s fill: %s; }`, font(600, 11), t.Text),
		fmt.Sprintf(`    .legend-val { %s fill: %s; }`, font(400, 11), t.TextSecondary),
		`    .bar-anim { animation: scaleUp 1s cubic-bezier(0.4, 0, 0.2, 1) forwards; stroke-dasharray: 200; stroke-dashoffset: 200; transform-origin: center; }`,
		fmt.Sprintf(`    .slice-anim { animation: rotateIn 0.8s cubic-bezier(0.4, 0, 0.2, 1) forwards; transform-origin: %dpx %dpx; }`, donutCX, donutCY),
		`    @keyframes scaleUp { to { stroke-dashoffset: 0; } }`,
		`    @keyframes rotateIn { from { transform: scale(0.8) rotate(-10deg); opacity: 0; } to { transform: scale(1) rotate(0deg); opacity: 1; } }`,
	}, "\n")

	var b strings.Builder
	b.WriteString(`  <defs>
    <linearGradient id="grad-day" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" stop-color="#fbbf24" />
      <stop offset="100%" stop-color="#f59e0b" />
    </linearGradient>
    <linearGradient id="grad-night" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" stop-color="#8b5cf6" />
      <stop offset="100%" stop-color="#6366f1" />
    </linearGradient>
  </defs>
`)
	fmt.Fprintf(&b, "  <g transform=\"translate(0, 0)\">\n    %s\n  </g>\n", header("⏰ Productivity & Weekly Cadence"))

	b.WriteString("  <g transform=\"translate(20, 0)\">\n")
	writeWeeklyCadence(&b, t, stats)
	b.WriteString("  </g>\n")

	fmt.Fprintf(&b, `  <line x1="460" y1="70" x2="460" y2="340" stroke="%s" stroke-width="1" opacity="0.3" stroke-dasharray="4 4" />`+"\n", t.Border)

	b.WriteString("  <g transform=\"translate(430, 0)\">\n")
	writeClock(&b, t, stats.ProductivityStats.HourlyDistribution)
	b.WriteString("  </g>")

	return wrap(t, productivityWidth, productivityHeight, styles, b.String())
}

// WeekdayTotals sums contributions by weekday, indexed by time.Weekday.
func WeekdayTotals(graph []model.ContributionDay) [7]int {
	var days [7]int
	for _, d := range graph {
		days[d.Date.Weekday()] += d.Count
	}
	return days
}

func writeWeeklyCadence(b *strings.Builder, t Theme, stats *model.GitHubStats) {
	days := WeekdayTotals(stats.ContributionGraph)
	total := 0
	for _, c := range days {
		total += c
	}
	if total == 0 {
		fmt.Fprintf(b, `    <text x="%d" y="%d" text-anchor="middle" class="chart-sub">No Data</text>`+"\n", donutCX, donutCY)
		return
	}

	busiest := time.Sunday
	for d, c := range days {
		if c > days[busiest] {
			busiest = time.Weekday(d)
		}
	}

	angle := -math.Pi / 2
	inner := float64(donutR - donutRing)
	for i, d := range weekOrder {
		count := days[d]
		if count == 0 {
			continue
		}
		slice := float64(count) / float64(total) * 2 * math.Pi
		end := angle + slice
		largeArc := 0
		if slice > math.Pi {
			largeArc = 1
		}

		x1, y1 := polar(donutCX, donutCY, inner, angle)
		x2, y2 := polar(donutCX, donutCY, donutR, angle)
		x3, y3 := polar(donutCX, donutCY, donutR, end)
		x4, y4 := polar(donutCX, donutCY, inner, end)
		path := fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %d %d 0 %d 1 %.2f %.2f L %.2f %.2f A %d %d 0 %d 0 %.2f %.2f Z",
			x1, y1, x2, y2, donutR, donutR, largeArc, x3, y3, x4, y4,
			donutR-donutRing, donutR-donutRing, largeArc, x1, y1)

		fmt.Fprintf(b, `    <path d="%s" fill="%s" stroke="%s" stroke-width="2" class="slice-anim" style="animation-delay: %ss">
      <title>%s: %d</title>
    </path>
`, path, dayColors[d], t.Bg, formatDecimal(float64(i)*0.05), d, count)

		angle = end
	}

	fmt.Fprintf(b, `    <text x="%d" y="%d" text-anchor="middle" class="chart-value">%s</text>
    <text x="%d" y="%d" text-anchor="middle" class="chart-sub">Contributions</text>
`, donutCX, donutCY-5, FormatNumber(total), donutCX, donutCY+15)

	for i, d := range weekOrder {
		lx := legendX + (i%2)*legendColW
		ly := legendY + (i/2)*legendRowH
		fmt.Fprintf(b, `    <g transform="translate(%d, %d)">
      <rect width="10" height="10" rx="3" fill="%s" />
      <text x="16" y="9" class="legend-key">%s</text>
      <text x="105" y="9" text-anchor="end" class="legend-val">%.0f%%</text>
    </g>
`, lx, ly, dayColors[d], d, float64(days[d])/float64(total)*100)
	}

	fmt.Fprintf(b, `    <g transform="translate(30, 110)">
      <text class="chart-sub" y="0">Avg / Day</text>
      <text class="chart-value" y="25" font-size="20">%.1f</text>
      <text class="chart-sub" y="60">Most Active</text>
      <text class="chart-value" y="85" font-size="20" fill="%s">%s</text>
    </g>
`, float64(total)/float64(periodDays(stats)), dayColors[busiest], busiest)
}

// periodDays is the reporting window in whole days, at least one.
func periodDays(stats *model.GitHubStats) int {
	n := int(math.Ceil(stats.PeriodEnd.Sub(stats.PeriodStart).Hours() / 24))
	if n <= 0 {
		return 1
	}
	return n
}

func writeClock(b *strings.Builder, t Theme, hours [model.HoursPerDay]int) {
	maxCommits := 0
	for _, c := range hours {
		maxCommits = max(maxCommits, c)
	}
	if maxCommits == 0 {
		maxCommits = 1
	}

	fmt.Fprintf(b, `    <circle cx="%d" cy="%d" r="%d" fill="none" stroke="%s" stroke-width="1" opacity="0.2" />
    <circle cx="%d" cy="%d" r="%d" fill="none" stroke="%s" stroke-width="1" opacity="0.1" stroke-dasharray="4 4"/>
`, clockCX, clockCY, clockR-5, t.Border, clockCX, clockCY, clockR+clockMaxBarH+5, t.Border)

	for hour, count := range hours {
		if count == 0 {
			continue
		}
		angle := float64(hour)/model.HoursPerDay*2*math.Pi - math.Pi/2
		barH := math.Max(4, float64(count)/float64(maxCommits)*clockMaxBarH)
		x1, y1 := polar(clockCX, clockCY, clockR, angle)
		x2, y2 := polar(clockCX, clockCY, clockR+barH, angle)

		gradient := "url(#grad-night)"
		if hour >= 6 && hour <= 18 {
			gradient = "url(#grad-day)"
		}
		fmt.Fprintf(b, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="5" stroke-linecap="round" class="bar-anim" style="animation-delay: %ss"></line>
`, x1, y1, x2, y2, gradient, formatDecimal(float64(hour)*0.03))
	}

	labels := []struct {
		text string
		x, y int
	}{
		{"12 AM", clockCX, clockCY - clockR - clockMaxBarH - 15},
		{"6 AM", clockCX + clockR + clockMaxBarH + 25, clockCY + 4},
		{"12 PM", clockCX, clockCY + clockR + clockMaxBarH + 20},
		{"6 PM", clockCX - clockR - clockMaxBarH - 25, clockCY + 4},
	}
	for _, l := range labels {
		fmt.Fprintf(b, `    <text x="%d" y="%d" text-anchor="middle" class="chart-label">%s</text>`+"\n", l.x, l.y, l.text)
	}

	fmt.Fprintf(b, `    <text x="%d" y="%d" text-anchor="middle" class="chart-value" font-size="18">UTC</text>
    <text x="%d" y="%d" text-anchor="middle" class="chart-sub">Timezone</text>
`, clockCX, clockCY-5, clockCX, clockCY+15)
}

func polar(cx, cy int, r, angle float64) (float64, float64) {
	return float64(cx) + r*math.Cos(angle), float64(cy) + r*math.Sin(angle)
}
