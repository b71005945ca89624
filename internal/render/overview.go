package render

import (
	"fmt"
	"strings"

	"github.com/spiffcs/statcard/internal/model"
)

const (
	overviewWidth  = 800
	overviewHeight = 500

	gridCardW   = 170
	gridCardH   = 75
	gridGap     = 20
	gridOriginX = 40
	gridOriginY = 150
	gridColumns = 4

	heatmapDays    = 84
	heatmapCell    = 11
	heatmapGap     = 3
	heatmapOriginX = 40
	heatmapOriginY = 365
)

// Octicon-style paths drawn in each grid card.
const (
	iconCommit = "M10.5 13.5a3.5 3.5 0 1 1-7 0 3.5 3.5 0 0 1 7 0Z M7 7v1.5M7 15.5V17M3.5 12H2M15.5 12H12"
	iconPR     = "M10 4a2 2 0 1 1-4 0 2 2 0 0 1 4 0ZM6 6v3.5a2.5 2.5 0 1 0 5 0V6M4 13.5a2.5 2.5 0 1 1 5 0 2.5 2.5 0 0 1-5 0Zm10-3a2.5 2.5 0 1 1-5 0 2.5 2.5 0 0 1 5 0Z"
	iconIssue  = "M8 9.5a1.5 1.5 0 1 0 0-3 1.5 1.5 0 0 0 0 3ZM8 12.5a1.5 1.5 0 1 0 0-3 1.5 1.5 0 0 0 0 3Z M8 0a8 8 0 1 0 0 16A8 8 0 0 0 8 0ZM1.5 8a6.5 6.5 0 1 1 13 0 6.5 6.5 0 0 1-13 0Z"
	iconStar   = "M8 .25a.75.75 0 0 1 .673.418l1.882 3.815 4.21.612a.75.75 0 0 1 .416 1.279l-3.046 2.97.719 4.192a.75.75 0 0 1-1.088.791L8 12.347l-3.766 1.98a.75.75 0 0 1-1.088-.79l.72-4.194L.818 6.374a.75.75 0 0 1 .416-1.28l4.21-.611L7.327.668A.75.75 0 0 1 8 .25Z"
	iconFork   = "M5 5.372v.878c0 .414.336.75.75.75h4.5a.75.75 0 0 0 .75-.75v-.878a2.25 2.25 0 1 1 1.5 0v.878a2.25 2.25 0 0 1-2.25 2.25h-1.5v2.128a2.251 2.251 0 1 1-1.5 0V8.5h-1.5A2.25 2.25 0 0 1 3.5 6.25v-.878a2.25 2.25 0 1 1 1.5 0Z"
	iconReview = "M8 1.5c-3.5 0-6.5 3-6.5 6.5s3 6.5 6.5 6.5 6.5-3 6.5-6.5-3-6.5-6.5-6.5ZM8 13a5 5 0 1 1 0-10 5 5 0 0 1 0 10Z M8 5a3 3 0 1 0 0 6 3 3 0 0 0 0-6Z"
	iconRepo   = "M2 2.5A2.5 2.5 0 0 1 4.5 0h8.75a.75.75 0 0 1 .75.75v12.5a.75.75 0 0 1-.75.75h-2.5a.75.75 0 1 1 0-1.5h1.75v-2h-8a1 1 0 0 0-.714 1.7.75.75 0 0 1-1.072 1.05A2.495 2.495 0 0 1 2 11.5v-9Zm10.5-1V9h-8c-.356 0-.694.074-1 .208V2.5a1 1 0 0 1 1-1h8Z"
	iconUser   = "M10.561 8.073a6.005 6.005 0 0 1 3.432 5.142.75.75 0 1 1-1.498.07 4.5 4.5 0 0 0-8.99 0 .75.75 0 0 1-1.498-.07 6.004 6.004 0 0 1 3.431-5.142 3.999 3.999 0 1 1 5.123 0ZM10.5 5a2.5 2.5 0 1 0-5 0 2.5 2.5 0 0 0 5 0Z"
)

type gridCard struct {
	label string
	value int
	icon  string
	sub   string
	color string
}

// PeriodLabel formats the reporting window, e.g. "Mar 15, 2025 - Mar 15, 2026".
func PeriodLabel(stats *model.GitHubStats) string {
	const layout = "Jan 2, 2006"
	return stats.PeriodStart.Format(layout) + " - " + stats.PeriodEnd.Format(layout)
}

// Overview renders the dashboard card: hero figures, an eight-card grid and
// a twelve-week heatmap.
func Overview(stats *model.GitHubStats) string {
	t := DefaultTheme

	styles := strings.Join([]string{
		fmt.Sprintf(`    .header { %s fill: %s; }`, font(600, 22), t.Text),
		fmt.Sprintf(`    .subheader { %s fill: %s; }`, font(400, 13), t.TextSecondary),
		fmt.Sprintf(`    .card-bg { fill: %s; opacity: 0.15; }`, t.Border),
		fmt.Sprintf(`    .card-label { %s fill: %s; text-transform: uppercase; letter-spacing: 0.5px; }`, font(600, 12), t.TextSecondary),
		fmt.Sprintf(`    .card-value { %s fill: %s; }`, font(600, 20), t.Text),
		fmt.Sprintf(`    .card-sub { %s fill: %s; }`, font(400, 11), t.TextSecondary),
		fmt.Sprintf(`    .hero-val { %s fill: %s; }`, font(700, 32), t.Accent),
		fmt.Sprintf(`    .hero-lbl { %s fill: %s; }`, font(400, 14), t.TextSecondary),
		fmt.Sprintf(`    .heatmap-lbl { %s fill: %s; }`, font(600, 12), t.Text),
		`    .slide-content { animation: slideUp 0.6s cubic-bezier(0.2, 0, 0.2, 1) forwards; transform-origin: center; }`,
		`    @keyframes slideUp { from { opacity: 0; transform: translateY(10px); } to { opacity: 1; transform: translateY(0); } }`,
	}, "\n")

	var b strings.Builder
	b.WriteString(`  <defs>
    <linearGradient id="grad-streak" x1="0%" y1="0%" x2="100%" y2="0%">
      <stop offset="0%" stop-color="#fbbf24" />
      <stop offset="100%" stop-color="#f59e0b" />
    </linearGradient>
  </defs>
`)
	fmt.Fprintf(&b, "  <g>\n    %s\n    %s\n  </g>\n", header("📊 GitHub Overview"), subheader(PeriodLabel(stats)))

	writeHero(&b, t, stats)
	writeGrid(&b, stats)
	writeActivity(&b, t, stats)

	return wrap(t, overviewWidth, overviewHeight, styles, b.String())
}

func writeHero(b *strings.Builder, t Theme, stats *model.GitHubStats) {
	fmt.Fprintf(b, `  <g transform="translate(40, 80)">
    <g class="slide-content" style="animation-delay: 0.1s">
      <g>
        <text x="0" y="0" class="hero-lbl">Total Contributions</text>
        <text x="0" y="35" class="hero-val">%s</text>
      </g>
      <line x1="220" y1="0" x2="220" y2="45" stroke="%s" stroke-width="1" opacity="0.3"/>
      <g transform="translate(260, 0)">
        <text x="0" y="0" class="hero-lbl">Current Streak</text>
        <text x="0" y="35" class="hero-val" fill="url(#grad-streak)">%d days</text>
        <text x="140" y="35" class="card-sub" dy="-5">Best: %d</text>
      </g>
    </g>
  </g>
`, FormatNumber(stats.Streak.TotalContributions), t.Border, stats.Streak.CurrentStreak, stats.Streak.LongestStreak)
}

func writeGrid(b *strings.Builder, stats *model.GitHubStats) {
	pct := stats.ContributionPercentages
	cards := []gridCard{
		{"Commits", stats.TotalCommits, iconCommit, fmt.Sprintf("%d%%", pct.Commits), "#3b82f6"},
		{"Pull Requests", stats.TotalPRs, iconPR, fmt.Sprintf("%d%%", pct.PRs), "#10b981"},
		{"Code Reviews", stats.TotalReviews, iconReview, fmt.Sprintf("%d%%", pct.Reviews), "#8b5cf6"},
		{"Issues", stats.TotalIssues, iconIssue, fmt.Sprintf("%d%%", pct.Issues), "#f59e0b"},
		{"Repositories", stats.TotalRepos, iconRepo, "Contributed", "#ec4899"},
		{"Stars Earned", stats.TotalStars, iconStar, "Total", "#eab308"},
		{"Forks", stats.TotalForks, iconFork, "Total", "#64748b"},
		{"Followers", stats.Followers, iconUser, "Network", "#06b6d4"},
	}

	for i, c := range cards {
		row, col := i/gridColumns, i%gridColumns
		x := gridOriginX + col*(gridCardW+gridGap)
		y := gridOriginY + row*(gridCardH+gridGap)

		fmt.Fprintf(b, `  <g transform="translate(%d, %d)">
    <g class="slide-content" style="animation-delay: %ss">
      <rect width="%d" height="%d" rx="8" class="card-bg" />
      <g transform="translate(%d, 12) scale(1.2)">
        <path d="%s" fill="%s" opacity="0.8"/>
      </g>
      <g transform="translate(16, 28)">
        <text y="0" class="card-label" fill="%s">%s</text>
        <text y="24" class="card-value">%s</text>
        <text y="38" class="card-sub" opacity="0.7">%s</text>
      </g>
    </g>
  </g>
`, x, y, formatDecimal(0.2+float64(i)*0.05), gridCardW, gridCardH, gridCardW-28, c.icon, c.color, c.color, c.label, FormatNumber(c.value), c.sub)
	}
}

func writeActivity(b *strings.Builder, t Theme, stats *model.GitHubStats) {
	graph := stats.ContributionGraph
	if len(graph) > heatmapDays {
		graph = graph[len(graph)-heatmapDays:]
	}

	var cells strings.Builder
	for i, day := range graph {
		w, d := i/7, i%7
		x := heatmapOriginX + w*(heatmapCell+heatmapGap)
		y := heatmapOriginY + d*(heatmapCell+heatmapGap) + 20
		fmt.Fprintf(&cells, `<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="%s" opacity="0.9" />`,
			x, y, heatmapCell, heatmapCell, t.LevelColor(day.Level))
	}

	fmt.Fprintf(b, `  <g class="slide-content" style="animation-delay: 0.6s">
    <rect x="40" y="350" width="740" height="120" rx="8" class="card-bg" />
    <g>
      <text x="55" y="375" class="heatmap-lbl">Recent Activity (12 Weeks)</text>
      %s
    </g>
    <g transform="translate(550, 380)">
      <text x="0" y="0" class="card-label">Average</text>
      <text x="0" y="25" class="card-value">%s / day</text>
      <text x="0" y="60" class="card-label">Contributed To</text>
      <text x="0" y="85" class="card-value">%s Repos</text>
    </g>
  </g>`, cells.String(), formatDecimal(stats.AvgCommitsPerDay), FormatNumber(stats.ContributedTo))
}
