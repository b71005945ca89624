package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

func TestAppendAndRecent(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))

	if got := s.Recent(10); len(got) != 0 {
		t.Fatalf("expected 0 records, got %d", len(got))
	}

	if err := s.Append(Snapshot{Timestamp: time.Now(), Commits: 42, PRs: 3}); err != nil {
		t.Fatal(err)
	}
	got := s.Recent(10)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Commits != 42 {
		t.Fatalf("expected Commits 42, got %d", got[0].Commits)
	}

	if err := s.Append(Snapshot{Timestamp: time.Now(), Commits: 50}); err != nil {
		t.Fatal(err)
	}
	got = s.Recent(10)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].Commits != 50 {
		t.Fatalf("expected Commits 50, got %d", got[1].Commits)
	}
}

func TestRecentLimitsResults(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))

	for i := range 10 {
		if err := s.Append(Snapshot{Commits: i}); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Recent(3)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Commits != 7 || got[2].Commits != 9 {
		t.Fatalf("expected the last three records, got %+v", got)
	}
}

func TestPrune(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))
	s.max = 20

	for i := range s.max + 5 {
		if err := s.Append(Snapshot{Commits: i}); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Recent(100)
	if len(got) != s.max {
		t.Fatalf("expected %d records after prune, got %d", s.max, len(got))
	}
	if got[0].Commits != 5 {
		t.Fatalf("expected first record Commits 5, got %d", got[0].Commits)
	}
}

func TestSince(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "history.jsonl"))
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		if err := s.Append(Snapshot{Timestamp: base.AddDate(0, 0, i), Commits: i}); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Since(base.AddDate(0, 0, 3))
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Commits != 3 {
		t.Errorf("expected first record Commits 3, got %d", got[0].Commits)
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	s1 := NewStoreWithPath(path)
	if err := s1.Append(Snapshot{Commits: 99, TopLanguage: "Go", Published: true}); err != nil {
		t.Fatal(err)
	}

	got := NewStoreWithPath(path).Recent(10)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Commits != 99 || got[0].TopLanguage != "Go" || !got[0].Published {
		t.Fatalf("unexpected record %+v", got[0])
	}
}

func TestMissingDirectoryIsCreated(t *testing.T) {
	s := NewStoreWithPath(filepath.Join(t.TempDir(), "nested", "history.jsonl"))

	if got := s.Recent(10); len(got) != 0 {
		t.Fatalf("expected 0 records, got %d", len(got))
	}
	if err := s.Append(Snapshot{Commits: 1}); err != nil {
		t.Fatalf("Append should create the parent directory: %v", err)
	}
}

func TestMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	content := `{"ts":"2024-01-01T00:00:00Z","commits":10}
not json at all
{"ts":"2024-01-02T00:00:00Z","commits":20}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := NewStoreWithPath(path).Recent(10)
	if len(got) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(got))
	}
	if got[0].Commits != 10 || got[1].Commits != 20 {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	s := &model.GitHubStats{
		Username:     "octo",
		TotalCommits: 12,
		TotalStars:   4,
		Streak:       model.StreakInfo{CurrentStreak: 2, LongestStreak: 9, TotalContributions: 30},
		Languages:    []model.LanguageStats{{Name: "Go"}, {Name: "Rust"}},
	}

	snap := NewSnapshot(s, now, 1500*time.Millisecond)
	if snap.Username != "octo" || snap.Commits != 12 || snap.Stars != 4 {
		t.Errorf("totals not copied: %+v", snap)
	}
	if snap.TotalContributions != 30 || snap.CurrentStreak != 2 || snap.LongestStreak != 9 {
		t.Errorf("streak not copied: %+v", snap)
	}
	if snap.TopLanguage != "Go" || snap.Languages != 2 {
		t.Errorf("languages = %q/%d", snap.TopLanguage, snap.Languages)
	}
	if snap.DurationMs != 1500 || !snap.Timestamp.Equal(now) {
		t.Errorf("timing = %d/%v", snap.DurationMs, snap.Timestamp)
	}
}
