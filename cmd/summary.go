package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/spiffcs/statcard/internal/format"
	"github.com/spiffcs/statcard/internal/model"
	"github.com/spiffcs/statcard/internal/stats"
)

const histogramWidth = 30

type summaryLine struct {
	label string
	value string
	delta string
}

// writeSummary prints the end-of-run report. previous, when set, adds the
// change since the last run of the same user.
func writeSummary(w io.Writer, s *model.GitHubStats, previous *stats.Snapshot) {
	title := color.New(color.Bold)
	value := color.New(color.FgCyan)
	up := color.New(color.FgGreen)
	down := color.New(color.FgRed)

	fmt.Fprintln(w, color.GreenString("🎉 GitHub Stats Factory completed successfully!"))
	fmt.Fprintln(w)
	title.Fprintln(w, "📊 Summary:")

	for _, l := range summaryLines(s, previous) {
		line := fmt.Sprintf("   • %s: %s", l.label, value.Sprint(l.value))
		switch {
		case l.delta == "":
		case l.delta[0] == '-':
			line += " " + down.Sprintf("(%s)", l.delta)
		default:
			line += " " + up.Sprintf("(%s)", l.delta)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, format.Histogram(s.ProductivityStats.HourlyDistribution, histogramWidth))
	fmt.Fprintln(w, "\n✨ Your stats are now up to date!")
}

func summaryLines(s *model.GitHubStats, previous *stats.Snapshot) []summaryLine {
	var prev stats.Snapshot
	delta := func(from, to int) string {
		if previous == nil {
			return ""
		}
		return format.Delta(from, to)
	}
	if previous != nil {
		prev = *previous
	}

	topLanguage := "N/A"
	if top, ok := s.TopLanguage(); ok {
		topLanguage = fmt.Sprintf("%s (%.1f%%)", top.Name, top.Percentage)
	}

	return []summaryLine{
		{"Total Contributions", format.Number(s.Streak.TotalContributions), delta(prev.TotalContributions, s.Streak.TotalContributions)},
		{"Total Commits", format.Number(s.TotalCommits), delta(prev.Commits, s.TotalCommits)},
		{"Total PRs", format.Number(s.TotalPRs), delta(prev.PRs, s.TotalPRs)},
		{"Total Reviews", format.Number(s.TotalReviews), delta(prev.Reviews, s.TotalReviews)},
		{"Total Issues", format.Number(s.TotalIssues), delta(prev.Issues, s.TotalIssues)},
		{"Total Repos", strconv.Itoa(s.TotalRepos), delta(prev.Repos, s.TotalRepos)},
		{"Total Stars", format.Number(s.TotalStars), delta(prev.Stars, s.TotalStars)},
		{"Total Forks", format.Number(s.TotalForks), delta(prev.Forks, s.TotalForks)},
		{"Followers", format.Number(s.Followers), delta(prev.Followers, s.Followers)},
		{"Current Streak", fmt.Sprintf("%d days", s.Streak.CurrentStreak), ""},
		{"Avg Commits/Day", strconv.FormatFloat(s.AvgCommitsPerDay, 'f', -1, 64), ""},
		{"Top Language", topLanguage, ""},
	}
}
