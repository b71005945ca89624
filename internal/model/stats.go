// Package model contains domain types for the statcard application.
// These types are independent of any external GitHub library.
package model

import "time"

// ContributionDay is a single day of the contribution calendar.
type ContributionDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Level int       `json:"level"` // 0-4, derived from Count
}

// StreakInfo summarizes runs of active days in a contribution calendar.
type StreakInfo struct {
	CurrentStreak      int `json:"currentStreak"`
	LongestStreak      int `json:"longestStreak"`
	TotalContributions int `json:"totalContributions"`
}

// LanguageStats is the share of code written in a single language.
type LanguageStats struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
	Size       int64   `json:"size"` // bytes
}

// CommitData is one commit authored by the target user.
type CommitData struct {
	Date       time.Time `json:"date"`
	Hour       int       `json:"hour"` // 0-23, UTC
	Message    string    `json:"message"`
	Repository string    `json:"repository"`
}

// HoursPerDay is the number of slots in an hourly distribution.
const HoursPerDay = 24

// ProductivityStats captures when and what kind of work was committed.
type ProductivityStats struct {
	HourlyDistribution [HoursPerDay]int `json:"hourlyDistribution"`
	CommitTypes        map[string]int   `json:"commitTypes"`
}

// RepoActivity is the daily commit series of one repository over a trailing window.
type RepoActivity struct {
	Name             string `json:"name"`
	Commits          int    `json:"commits"`
	ActivityOverTime []int  `json:"activityOverTime"`
}

// RepoInfo describes a highlighted repository.
type RepoInfo struct {
	Name        string `json:"name"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// ContributionPercentages is each activity type's rounded share of the total.
type ContributionPercentages struct {
	Commits int `json:"commits"`
	PRs     int `json:"prs"`
	Reviews int `json:"reviews"`
	Issues  int `json:"issues"`
}

// GitHubStats is the aggregate root consumed by every renderer.
// It is built once per run and never mutated afterwards.
type GitHubStats struct {
	Username    string    `json:"username"`
	UserID      int64     `json:"userId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	TotalCommits  int `json:"totalCommits"`
	TotalPRs      int `json:"totalPRs"`
	TotalIssues   int `json:"totalIssues"`
	TotalReviews  int `json:"totalReviews"`
	TotalRepos    int `json:"totalRepos"`
	TotalStars    int `json:"totalStars"`
	TotalForks    int `json:"totalForks"`
	ContributedTo int `json:"contributedTo"`
	Followers     int `json:"followers"`
	Following     int `json:"following"`

	Streak            StreakInfo        `json:"streak"`
	Languages         []LanguageStats   `json:"languages"`
	ContributionGraph []ContributionDay `json:"contributionGraph"`
	TopRepos          []RepoInfo        `json:"topRepos"`

	AvgCommitsPerDay        float64                 `json:"avgCommitsPerDay"`
	ContributionPercentages ContributionPercentages `json:"contributionPercentages"`

	CommitData        []CommitData      `json:"commitData"`
	ProductivityStats ProductivityStats `json:"productivityStats"`
	RepoActivity      []RepoActivity    `json:"repoActivity"`
}

// TopLanguage returns the largest language, if any.
func (s *GitHubStats) TopLanguage() (LanguageStats, bool) {
	if s == nil || len(s.Languages) == 0 {
		return LanguageStats{}, false
	}
	return s.Languages[0], true
}
