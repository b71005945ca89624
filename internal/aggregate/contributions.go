// Package aggregate derives report statistics from raw GitHub records.
// Every function is pure; callers inject the reference time.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

const day = 24 * time.Hour

// Level buckets a daily contribution count into the 0-4 intensity scale.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count < 3:
		return 1
	case count < 6:
		return 2
	case count < 9:
		return 3
	default:
		return 4
	}
}

// ParseContributionGraph flattens the calendar into days in week order.
// The platform's own level is ignored in favor of Level.
func ParseContributionGraph(c *model.Contributions) []model.ContributionDay {
	if c == nil {
		return nil
	}

	var days []model.ContributionDay
	for _, week := range c.Calendar.Weeks {
		for _, d := range week.Days {
			days = append(days, model.ContributionDay{
				Date:  midnight(d.Date),
				Count: d.Count,
				Level: Level(d.Count),
			})
		}
	}
	return days
}

// CalculateStreak computes the current and longest runs of active days.
//
// The current streak walks days from newest to oldest. A zero day only ends
// the streak when it lies more than one day before today, so today's empty
// cell does not reset it. Once inactive, the streak stays inactive.
func CalculateStreak(days []model.ContributionDay, now time.Time) model.StreakInfo {
	var info model.StreakInfo
	if len(days) == 0 {
		return info
	}

	sorted := make([]model.ContributionDay, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	today := midnight(now)
	active := true
	for _, d := range sorted {
		if !active {
			continue
		}
		if d.Count > 0 {
			info.CurrentStreak++
			continue
		}
		diffDays := int(math.Floor(float64(today.Sub(d.Date)) / float64(day)))
		if diffDays > 1 {
			active = false
		}
	}

	run := 0
	for _, d := range days {
		info.TotalContributions += d.Count
		if d.Count > 0 {
			run++
			if run > info.LongestStreak {
				info.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	return info
}

// ContributionPercentages returns each activity type's rounded share.
// All shares are 0 when there is no activity.
func ContributionPercentages(commits, prs, reviews, issues int) model.ContributionPercentages {
	total := commits + prs + reviews + issues
	if total <= 0 {
		return model.ContributionPercentages{}
	}
	share := func(n int) int {
		return int(math.Round(float64(n) / float64(total) * 100))
	}
	return model.ContributionPercentages{
		Commits: share(commits),
		PRs:     share(prs),
		Reviews: share(reviews),
		Issues:  share(issues),
	}
}

// AvgCommitsPerDay averages commits over the calendar length, rounded to one decimal.
func AvgCommitsPerDay(totalCommits, days int) float64 {
	if days <= 0 {
		return 0
	}
	return math.Round(float64(totalCommits)/float64(days)*10) / 10
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
