// Package stats records a snapshot of every generate run so that trends can
// be compared across runs.
package stats

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
)

// Snapshot captures the headline figures of a single generate run.
type Snapshot struct {
	Timestamp          time.Time `json:"ts"`
	Username           string    `json:"user"`
	TotalContributions int       `json:"contributions"`
	Commits            int       `json:"commits"`
	PRs                int       `json:"prs"`
	Issues             int       `json:"issues"`
	Reviews            int       `json:"reviews"`
	Repos              int       `json:"repos"`
	Stars              int       `json:"stars"`
	Forks              int       `json:"forks"`
	Followers          int       `json:"followers"`
	CurrentStreak      int       `json:"streak"`
	LongestStreak      int       `json:"longestStreak"`
	TopLanguage        string    `json:"topLanguage,omitempty"`
	Languages          int       `json:"languages"`
	CacheHits          int       `json:"cacheHits"`
	DurationMs         int64     `json:"durationMs"`
	Published          bool      `json:"published,omitempty"`
}

// NewSnapshot summarizes s as observed at now.
func NewSnapshot(s *model.GitHubStats, now time.Time, elapsed time.Duration) Snapshot {
	snap := Snapshot{
		Timestamp:          now,
		Username:           s.Username,
		TotalContributions: s.Streak.TotalContributions,
		Commits:            s.TotalCommits,
		PRs:                s.TotalPRs,
		Issues:             s.TotalIssues,
		Reviews:            s.TotalReviews,
		Repos:              s.TotalRepos,
		Stars:              s.TotalStars,
		Forks:              s.TotalForks,
		Followers:          s.Followers,
		CurrentStreak:      s.Streak.CurrentStreak,
		LongestStreak:      s.Streak.LongestStreak,
		Languages:          len(s.Languages),
		DurationMs:         elapsed.Milliseconds(),
	}
	if top, ok := s.TopLanguage(); ok {
		snap.TopLanguage = top.Name
	}
	return snap
}

// Store manages persistence of run snapshots as JSON Lines.
type Store struct {
	path string
	max  int
	mu   sync.Mutex
}

// NewStore creates a store at ~/.cache/statcard/history.jsonl.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cacheDir, "statcard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return NewStoreWithPath(filepath.Join(dir, "history.jsonl")), nil
}

// NewStoreWithPath creates a store at the given path.
func NewStoreWithPath(path string) *Store {
	return &Store{path: path, max: constants.HistoryMaxRecords}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Append adds a snapshot and prunes to the most recent records.
func (s *Store) Append(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		log.Debug("could not read history, starting fresh", "error", err)
		records = nil
	}

	records = append(records, snap)
	if len(records) > s.max {
		records = records[len(records)-s.max:]
	}

	return s.writeAll(records)
}

// Recent returns the last n snapshots (or fewer if not enough exist).
func (s *Store) Recent(n int) []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil
	}

	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// Since returns the snapshots taken at or after t, oldest first.
func (s *Store) Since(t time.Time) []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil
	}

	var out []Snapshot
	for _, r := range records {
		if !r.Timestamp.Before(t) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) readAll() ([]Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []Snapshot
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			continue // skip malformed lines
		}
		records = append(records, snap)
	}
	return records, scanner.Err()
}

// writeAll writes all snapshots to disk atomically.
func (s *Store) writeAll(records []Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, s.path)
}
