package aggregate

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/model"
)

// OtherCommitType is assigned to messages without a conventional prefix.
const OtherCommitType = "other"

var conventionalPrefix = regexp.MustCompile(`(?i)^(feat|fix|docs|style|refactor|perf|test|chore|build|ci|revert|merge)(\(.+\))?:`)

// ClassifyCommit returns the lowercased conventional-commit type of message.
func ClassifyCommit(message string) string {
	m := conventionalPrefix.FindStringSubmatch(message)
	if m == nil {
		return OtherCommitType
	}
	return strings.ToLower(m[1])
}

// HourlyDistribution counts commits per UTC hour.
func HourlyDistribution(commits []model.CommitData) [model.HoursPerDay]int {
	var dist [model.HoursPerDay]int
	for _, c := range commits {
		if c.Hour >= 0 && c.Hour < model.HoursPerDay {
			dist[c.Hour]++
		}
	}
	return dist
}

// CommitTypes counts commits by conventional-commit type.
func CommitTypes(commits []model.CommitData) map[string]int {
	types := make(map[string]int)
	for _, c := range commits {
		types[ClassifyCommit(c.Message)]++
	}
	return types
}

// RepoActivity builds a per-day commit series for each repository over the
// trailing window and returns the busiest repositories.
//
// A commit is in the window when it is at most days before now, to the
// exact time. Slots are indexed by calendar day from midnight of the first
// day, and commits dated today count toward the total without a slot.
func RepoActivity(commits []model.CommitData, days int, now time.Time) []model.RepoActivity {
	if days <= 0 {
		return nil
	}
	cutoff := now.AddDate(0, 0, -days)
	start := midnight(cutoff)

	byRepo := make(map[string]*model.RepoActivity)
	for _, c := range commits {
		if c.Date.Before(cutoff) {
			continue
		}
		ra, ok := byRepo[c.Repository]
		if !ok {
			ra = &model.RepoActivity{Name: c.Repository, ActivityOverTime: make([]int, days)}
			byRepo[c.Repository] = ra
		}
		ra.Commits++

		slot := int(midnight(c.Date).Sub(start) / day)
		if slot >= 0 && slot < days {
			ra.ActivityOverTime[slot]++
		}
	}

	out := make([]model.RepoActivity, 0, len(byRepo))
	for _, ra := range byRepo {
		if ra.Commits > 0 {
			out = append(out, *ra)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > constants.TopRepoCount {
		out = out[:constants.TopRepoCount]
	}
	return out
}
