package model

import "time"

// Profile is the subset of a GitHub user profile the report needs.
type Profile struct {
	Login             string
	ID                int64
	Name              string
	PublicRepos       int
	TotalPrivateRepos int
	Followers         int
	Following         int
}

// Repository is an owned repository as returned by the listing endpoints.
type Repository struct {
	Owner       string
	Name        string
	FullName    string
	Description string
	Language    string // primary language, empty when undetected
	Fork        bool
	Private     bool
	Stars       int
	Forks       int
	PushedAt    time.Time
}

// Contributions holds the contribution collection for a date range.
type Contributions struct {
	TotalCommitContributions                int
	TotalIssueContributions                 int
	TotalPullRequestContributions           int
	TotalPullRequestReviewContributions     int
	TotalRepositoryContributions            int
	TotalRepositoriesWithContributedCommits int
	RestrictedContributionsCount            int
	Calendar                                ContributionCalendar
}

// ContributionCalendar is the platform's week-by-week activity calendar.
type ContributionCalendar struct {
	TotalContributions int
	Weeks              []ContributionWeek
}

// ContributionWeek is one column of the calendar.
type ContributionWeek struct {
	Days []CalendarDay
}

// CalendarDay is a raw calendar cell. Level is the platform's own
// classification (e.g. "FIRST_QUARTILE") and is kept for reference only.
type CalendarDay struct {
	Date  time.Time
	Count int
	Level string
}
