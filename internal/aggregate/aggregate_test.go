package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

var refNow = time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

func dayOffset(n int) time.Time {
	return midnight(refNow).AddDate(0, 0, -n)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{5, 2},
		{6, 3},
		{8, 3},
		{9, 4},
		{100, 4},
	}

	for _, tt := range tests {
		if got := Level(tt.count); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestParseContributionGraph(t *testing.T) {
	c := &model.Contributions{
		Calendar: model.ContributionCalendar{
			Weeks: []model.ContributionWeek{
				{Days: []model.CalendarDay{
					{Date: dayOffset(2), Count: 0, Level: "NONE"},
					{Date: dayOffset(1), Count: 4, Level: "FOURTH_QUARTILE"},
				}},
				{Days: []model.CalendarDay{
					{Date: dayOffset(0), Count: 12, Level: "FIRST_QUARTILE"},
				}},
			},
		},
	}

	got := ParseContributionGraph(c)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantLevels := []int{0, 2, 4}
	for i, d := range got {
		if d.Level != wantLevels[i] {
			t.Errorf("day %d level = %d, want %d", i, d.Level, wantLevels[i])
		}
	}
	if !got[0].Date.Equal(dayOffset(2)) {
		t.Errorf("first day = %v, want %v", got[0].Date, dayOffset(2))
	}

	if ParseContributionGraph(nil) != nil {
		t.Error("ParseContributionGraph(nil) should return nil")
	}
}

func TestCalculateStreak(t *testing.T) {
	// counts[i] is the count i days before refNow
	build := func(counts ...int) []model.ContributionDay {
		days := make([]model.ContributionDay, len(counts))
		for i, c := range counts {
			days[len(counts)-1-i] = model.ContributionDay{Date: dayOffset(i), Count: c, Level: Level(c)}
		}
		return days
	}

	tests := []struct {
		name        string
		days        []model.ContributionDay
		wantCurrent int
		wantLongest int
		wantTotal   int
	}{
		{
			name:        "gap of one day keeps streak",
			days:        build(3, 0, 2, 1, 0),
			wantCurrent: 3,
			wantLongest: 2,
			wantTotal:   6,
		},
		{
			name:        "empty today keeps streak",
			days:        build(0, 1, 1, 1),
			wantCurrent: 3,
			wantLongest: 3,
			wantTotal:   3,
		},
		{
			name:        "old gap ends streak",
			days:        build(1, 1, 0, 0, 5, 5),
			wantCurrent: 2,
			wantLongest: 2,
			wantTotal:   12,
		},
		{
			name:        "no activity",
			days:        build(0, 0, 0),
			wantCurrent: 0,
			wantLongest: 0,
			wantTotal:   0,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStreak(tt.days, refNow)
			if got.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantCurrent)
			}
			if got.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", got.LongestStreak, tt.wantLongest)
			}
			if got.TotalContributions != tt.wantTotal {
				t.Errorf("TotalContributions = %d, want %d", got.TotalContributions, tt.wantTotal)
			}
		})
	}
}

func TestLongestStreakForwardScan(t *testing.T) {
	counts := []int{0, 2, 2, 2, 0, 1}
	days := make([]model.ContributionDay, len(counts))
	for i, c := range counts {
		days[i] = model.ContributionDay{Date: dayOffset(len(counts) - 1 - i), Count: c}
	}

	if got := CalculateStreak(days, refNow).LongestStreak; got != 3 {
		t.Errorf("LongestStreak = %d, want 3", got)
	}
}

func TestCalculateLanguageStats(t *testing.T) {
	t.Run("sums bytes across repositories", func(t *testing.T) {
		perRepo := []map[string]int64{
			{"Go": 500},
			nil,
			{"Go": 200, "Python": 300},
		}
		colors := map[string]string{"Go": "#123456"}

		got := CalculateLanguageStats(perRepo, colors)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].Name != "Go" || got[0].Size != 700 {
			t.Errorf("got[0] = %+v, want Go/700", got[0])
		}
		if math.Abs(got[0].Percentage-70) > 1e-9 {
			t.Errorf("Go percentage = %v, want 70", got[0].Percentage)
		}
		if math.Abs(got[1].Percentage-30) > 1e-9 {
			t.Errorf("Python percentage = %v, want 30", got[1].Percentage)
		}
		if got[0].Color != "#123456" {
			t.Errorf("Go color = %s, want table color", got[0].Color)
		}
		if got[1].Color != "#3572A5" {
			t.Errorf("Python color = %s, want fallback color", got[1].Color)
		}
	})

	t.Run("zero total yields zero percentages", func(t *testing.T) {
		got := CalculateLanguageStats([]map[string]int64{{"Go": 0}}, nil)
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if got[0].Percentage != 0 {
			t.Errorf("Percentage = %v, want 0", got[0].Percentage)
		}
	})

	t.Run("unknown language gets default color", func(t *testing.T) {
		got := CalculateLanguageStats([]map[string]int64{{"Zig": 10}}, nil)
		if got[0].Color != model.DefaultLanguageColor {
			t.Errorf("Color = %s, want %s", got[0].Color, model.DefaultLanguageColor)
		}
	})

	t.Run("no repositories", func(t *testing.T) {
		if got := CalculateLanguageStats(nil, nil); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestTopLanguages(t *testing.T) {
	mk := func(pcts ...float64) []model.LanguageStats {
		out := make([]model.LanguageStats, len(pcts))
		for i, p := range pcts {
			out[i] = model.LanguageStats{Name: string(rune('A' + i)), Percentage: p, Size: int64(p * 100)}
		}
		return out
	}

	tests := []struct {
		name      string
		langs     []model.LanguageStats
		wantLen   int
		wantOther bool
	}{
		{
			name:    "fewer than limit",
			langs:   mk(60, 40),
			wantLen: 2,
		},
		{
			name:      "remainder above threshold",
			langs:     mk(30, 20, 10, 10, 10, 5, 5, 5, 3, 2),
			wantLen:   9,
			wantOther: true,
		},
		{
			name:    "remainder below threshold",
			langs:   mk(30, 20, 10, 10, 10, 9.6, 5, 5, 0.2, 0.2),
			wantLen: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopLanguages(tt.langs, 8, 0.5)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			hasOther := got[len(got)-1].Name == OtherLanguage
			if hasOther != tt.wantOther {
				t.Errorf("has Other = %v, want %v", hasOther, tt.wantOther)
			}
			if hasOther {
				other := got[len(got)-1]
				if other.Color != model.OtherLanguageColor {
					t.Errorf("Other color = %s", other.Color)
				}
				if math.Abs(other.Percentage-5) > 1e-9 {
					t.Errorf("Other percentage = %v, want 5", other.Percentage)
				}
			}
		})
	}
}

func TestClassifyCommit(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"feat: add login", "feat"},
		{"FIX(api): handle nil", "fix"},
		{"chore(deps): bump x", "chore"},
		{"Merge: branch main", "merge"},
		{"feature: not conventional", "other"},
		{"fix missing colon", "other"},
		{"update readme", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		if got := ClassifyCommit(tt.message); got != tt.want {
			t.Errorf("ClassifyCommit(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestCommitTypesAndHours(t *testing.T) {
	commits := []model.CommitData{
		{Hour: 9, Message: "feat: a"},
		{Hour: 9, Message: "fix: b"},
		{Hour: 23, Message: "feat(ui): c"},
		{Hour: 0, Message: "wip"},
	}

	types := CommitTypes(commits)
	if types["feat"] != 2 || types["fix"] != 1 || types["other"] != 1 {
		t.Errorf("CommitTypes = %v", types)
	}

	hours := HourlyDistribution(commits)
	if hours[9] != 2 || hours[23] != 1 || hours[0] != 1 {
		t.Errorf("HourlyDistribution = %v", hours)
	}
	sum := 0
	for _, h := range hours {
		sum += h
	}
	if sum != len(commits) {
		t.Errorf("histogram sum = %d, want %d", sum, len(commits))
	}
}

func TestRepoActivity(t *testing.T) {
	start := midnight(refNow).AddDate(0, 0, -30)

	t.Run("slot index from window start", func(t *testing.T) {
		commits := []model.CommitData{
			{Date: start.AddDate(0, 0, 5).Add(3 * time.Hour), Repository: "statcard"},
		}
		got := RepoActivity(commits, 30, refNow)
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if len(got[0].ActivityOverTime) != 30 {
			t.Errorf("series length = %d, want 30", len(got[0].ActivityOverTime))
		}
		if got[0].ActivityOverTime[5] != 1 {
			t.Errorf("slot 5 = %d, want 1", got[0].ActivityOverTime[5])
		}
		if got[0].Commits != 1 {
			t.Errorf("Commits = %d, want 1", got[0].Commits)
		}
	})

	t.Run("old commits excluded", func(t *testing.T) {
		commits := []model.CommitData{
			{Date: start.AddDate(0, 0, -1), Repository: "old"},
		}
		if got := RepoActivity(commits, 30, refNow); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("window starts at the exact time", func(t *testing.T) {
		cutoff := refNow.AddDate(0, 0, -30)
		commits := []model.CommitData{
			{Date: start.Add(3 * time.Hour), Repository: "early"},
			{Date: cutoff, Repository: "edge"},
			{Date: cutoff.Add(time.Hour), Repository: "edge"},
		}
		got := RepoActivity(commits, 30, refNow)
		if len(got) != 1 || got[0].Name != "edge" {
			t.Fatalf("got %+v, want only edge", got)
		}
		if got[0].Commits != 2 || got[0].ActivityOverTime[0] != 2 {
			t.Errorf("edge = %d commits, slot 0 = %d, want 2 and 2", got[0].Commits, got[0].ActivityOverTime[0])
		}
	})

	t.Run("today counts without slot", func(t *testing.T) {
		commits := []model.CommitData{{Date: refNow, Repository: "today"}}
		got := RepoActivity(commits, 30, refNow)
		if len(got) != 1 || got[0].Commits != 1 {
			t.Fatalf("got %+v", got)
		}
		for i, v := range got[0].ActivityOverTime {
			if v != 0 {
				t.Errorf("slot %d = %d, want 0", i, v)
			}
		}
	})

	t.Run("top five by commits", func(t *testing.T) {
		var commits []model.CommitData
		for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
			for j := 0; j <= i; j++ {
				commits = append(commits, model.CommitData{Date: start.AddDate(0, 0, 1), Repository: name})
			}
		}
		got := RepoActivity(commits, 30, refNow)
		if len(got) != 5 {
			t.Fatalf("len = %d, want 5", len(got))
		}
		if got[0].Name != "f" || got[4].Name != "b" {
			t.Errorf("order = %s..%s, want f..b", got[0].Name, got[4].Name)
		}
	})
}

func TestTopRepositories(t *testing.T) {
	repos := []model.Repository{
		{Name: "fork", Stars: 500, Fork: true},
		{Name: "one", Stars: 1, Language: "Go"},
		{Name: "ten", Stars: 10},
		{Name: "five", Stars: 5, Language: "Rust"},
		{Name: "three", Stars: 3},
		{Name: "two", Stars: 2},
		{Name: "zero", Stars: 0},
	}

	got := TopRepositories(repos)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	want := []string{"ten", "five", "three", "two", "one"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Name, name)
		}
	}
	if got[0].Language != UnknownLanguage {
		t.Errorf("missing language = %q, want %q", got[0].Language, UnknownLanguage)
	}
}

func TestContributionPercentages(t *testing.T) {
	got := ContributionPercentages(50, 25, 15, 10)
	want := model.ContributionPercentages{Commits: 50, PRs: 25, Reviews: 15, Issues: 10}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if got := ContributionPercentages(0, 0, 0, 0); got != (model.ContributionPercentages{}) {
		t.Errorf("zero activity = %+v, want zeros", got)
	}

	// 1/3 each rounds down; shares need not sum to 100
	got = ContributionPercentages(1, 1, 1, 0)
	if got.Commits != 33 || got.PRs != 33 || got.Reviews != 33 {
		t.Errorf("thirds = %+v", got)
	}
}

func TestAvgCommitsPerDay(t *testing.T) {
	tests := []struct {
		commits, days int
		want          float64
	}{
		{365, 365, 1},
		{100, 365, 0.3},
		{0, 365, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := AvgCommitsPerDay(tt.commits, tt.days); got != tt.want {
			t.Errorf("AvgCommitsPerDay(%d, %d) = %v, want %v", tt.commits, tt.days, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	in := Input{
		Username: "octo",
		Profile: &model.Profile{
			Login: "octo", ID: 42, PublicRepos: 3, TotalPrivateRepos: 2, Followers: 7, Following: 1,
		},
		Repositories: []model.Repository{
			{Owner: "octo", Name: "a", Stars: 10, Forks: 2, Language: "Go"},
			{Owner: "octo", Name: "b", Stars: 5, Forks: 1, Language: "Python"},
			{Owner: "octo", Name: "c", Stars: 1, Fork: true},
		},
		Contributions: &model.Contributions{
			TotalCommitContributions:                20,
			TotalPullRequestContributions:           10,
			TotalPullRequestReviewContributions:     5,
			TotalIssueContributions:                 5,
			TotalRepositoriesWithContributedCommits: 2,
			Calendar: model.ContributionCalendar{
				Weeks: []model.ContributionWeek{{Days: []model.CalendarDay{
					{Date: dayOffset(1), Count: 4},
					{Date: dayOffset(0), Count: 6},
				}}},
			},
		},
		Languages: []map[string]int64{{"Go": 700}, {"Python": 300}, nil},
		Commits: []model.CommitData{
			{Date: dayOffset(2), Hour: 10, Message: "feat: x", Repository: "a"},
			{Date: dayOffset(3), Hour: 22, Message: "fix: y", Repository: "b"},
		},
	}

	stats := Build(in, refNow)

	if stats.Username != "octo" || stats.UserID != 42 {
		t.Errorf("identity = %s/%d", stats.Username, stats.UserID)
	}
	if stats.TotalRepos != 5 {
		t.Errorf("TotalRepos = %d, want 5", stats.TotalRepos)
	}
	if stats.TotalStars != 16 || stats.TotalForks != 3 {
		t.Errorf("stars/forks = %d/%d, want 16/3", stats.TotalStars, stats.TotalForks)
	}
	if stats.ContributedTo != 2 {
		t.Errorf("ContributedTo = %d, want 2", stats.ContributedTo)
	}
	if stats.ContributionPercentages.Commits != 50 {
		t.Errorf("commit share = %d, want 50", stats.ContributionPercentages.Commits)
	}
	if stats.AvgCommitsPerDay != 10 {
		t.Errorf("AvgCommitsPerDay = %v, want 10", stats.AvgCommitsPerDay)
	}
	if stats.Streak.CurrentStreak != 2 || stats.Streak.TotalContributions != 10 {
		t.Errorf("Streak = %+v", stats.Streak)
	}
	if len(stats.Languages) != 2 || stats.Languages[0].Name != "Go" {
		t.Errorf("Languages = %+v", stats.Languages)
	}
	if len(stats.TopRepos) != 2 {
		t.Errorf("TopRepos len = %d, want 2", len(stats.TopRepos))
	}
	if len(stats.RepoActivity) != 2 {
		t.Errorf("RepoActivity len = %d, want 2", len(stats.RepoActivity))
	}
	if stats.ProductivityStats.HourlyDistribution[10] != 1 {
		t.Errorf("hour 10 = %d, want 1", stats.ProductivityStats.HourlyDistribution[10])
	}
	if !stats.PeriodEnd.Equal(midnight(refNow)) {
		t.Errorf("PeriodEnd = %v", stats.PeriodEnd)
	}
	if want := midnight(refNow).AddDate(0, 0, -365); !stats.PeriodStart.Equal(want) {
		t.Errorf("PeriodStart = %v, want %v", stats.PeriodStart, want)
	}
}

func TestBuildEmpty(t *testing.T) {
	stats := Build(Input{Username: "nobody"}, refNow)
	if stats.TotalStars != 0 || len(stats.Languages) != 0 || len(stats.TopRepos) != 0 {
		t.Errorf("empty build = %+v", stats)
	}
	if stats.ProductivityStats.CommitTypes == nil {
		t.Error("CommitTypes should be non-nil")
	}
}
