package aggregate

import (
	"sort"
	"time"

	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/model"
)

// UnknownLanguage labels repositories without a detected primary language.
const UnknownLanguage = "Unknown"

// TopRepositories ranks owned, non-fork repositories by stars.
func TopRepositories(repos []model.Repository) []model.RepoInfo {
	owned := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Fork {
			owned = append(owned, r)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Stars > owned[j].Stars
	})
	if len(owned) > constants.TopRepoCount {
		owned = owned[:constants.TopRepoCount]
	}

	out := make([]model.RepoInfo, 0, len(owned))
	for _, r := range owned {
		lang := r.Language
		if lang == "" {
			lang = UnknownLanguage
		}
		out = append(out, model.RepoInfo{
			Name:        r.Name,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Description: r.Description,
			Language:    lang,
		})
	}
	return out
}

// Input is everything fetched for one report.
type Input struct {
	Username      string
	Profile       *model.Profile
	Repositories  []model.Repository
	Contributions *model.Contributions
	// Languages holds per-repository language bytes; failed fetches are nil.
	Languages []map[string]int64
	Commits   []model.CommitData
	Colors    map[string]string

	// ContributionDays and ActivityDays default to the constants when zero.
	ContributionDays int
	ActivityDays     int
}

// Build composes the full statistics report.
func Build(in Input, now time.Time) *model.GitHubStats {
	periodDays := in.ContributionDays
	if periodDays <= 0 {
		periodDays = constants.ContributionDays
	}
	activityDays := in.ActivityDays
	if activityDays <= 0 {
		activityDays = constants.ActivityDays
	}

	contrib := in.Contributions
	if contrib == nil {
		contrib = &model.Contributions{}
	}
	profile := in.Profile
	if profile == nil {
		profile = &model.Profile{}
	}

	username := in.Username
	if username == "" {
		username = profile.Login
	}

	today := midnight(now)
	graph := ParseContributionGraph(contrib)

	stats := &model.GitHubStats{
		Username:    username,
		UserID:      profile.ID,
		PeriodStart: today.AddDate(0, 0, -periodDays),
		PeriodEnd:   today,

		TotalCommits:  contrib.TotalCommitContributions,
		TotalPRs:      contrib.TotalPullRequestContributions,
		TotalIssues:   contrib.TotalIssueContributions,
		TotalReviews:  contrib.TotalPullRequestReviewContributions,
		TotalRepos:    profile.PublicRepos + profile.TotalPrivateRepos,
		ContributedTo: contrib.TotalRepositoriesWithContributedCommits,
		Followers:     profile.Followers,
		Following:     profile.Following,

		Streak:            CalculateStreak(graph, now),
		Languages:         CalculateLanguageStats(in.Languages, in.Colors),
		ContributionGraph: graph,
		TopRepos:          TopRepositories(in.Repositories),

		AvgCommitsPerDay: AvgCommitsPerDay(contrib.TotalCommitContributions, len(graph)),
		ContributionPercentages: ContributionPercentages(
			contrib.TotalCommitContributions,
			contrib.TotalPullRequestContributions,
			contrib.TotalPullRequestReviewContributions,
			contrib.TotalIssueContributions,
		),

		CommitData: in.Commits,
		ProductivityStats: model.ProductivityStats{
			HourlyDistribution: HourlyDistribution(in.Commits),
			CommitTypes:        CommitTypes(in.Commits),
		},
		RepoActivity: RepoActivity(in.Commits, activityDays, now),
	}

	for _, r := range in.Repositories {
		stats.TotalStars += r.Stars
		stats.TotalForks += r.Forks
	}

	return stats
}
