package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spiffcs/statcard/internal/ghclient"
	"github.com/spiffcs/statcard/internal/model"
)

type fakeSource struct {
	mu sync.Mutex

	profile     *model.Profile
	profileErr  error
	repos       []model.Repository
	contrib     *model.Contributions
	langs       map[string]map[string]int64
	langErrs    map[string]error
	commits     map[string][]model.CommitData
	commitErrs  map[string]error
	langCalls   int
	commitCalls int
}

func (f *fakeSource) User(ctx context.Context, login string) (*model.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeSource) Repositories(ctx context.Context, login string) ([]model.Repository, error) {
	return f.repos, nil
}

func (f *fakeSource) Languages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	f.mu.Lock()
	f.langCalls++
	f.mu.Unlock()
	if err := f.langErrs[repo]; err != nil {
		return nil, err
	}
	return f.langs[repo], nil
}

func (f *fakeSource) Commits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]model.CommitData, error) {
	f.mu.Lock()
	f.commitCalls++
	f.mu.Unlock()
	if err := f.commitErrs[repo]; err != nil {
		return nil, err
	}
	return f.commits[repo], nil
}

func (f *fakeSource) Contributions(ctx context.Context, login string, from, to time.Time) (*model.Contributions, error) {
	return f.contrib, nil
}

func (f *fakeSource) LanguageColors(ctx context.Context) map[string]string {
	return map[string]string{"Go": "#00ADD8"}
}

var _ ghclient.Source = (*fakeSource)(nil)

type memLanguageCache struct {
	mu      sync.Mutex
	entries map[string]map[string]int64
}

func (m *memLanguageCache) GetLanguages(fullName string, pushedAt time.Time) (map[string]int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.entries[fullName]
	return l, ok
}

func (m *memLanguageCache) SetLanguages(fullName string, pushedAt time.Time, langs map[string]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]map[string]int64)
	}
	m.entries[fullName] = langs
	return nil
}

func TestFetchAll(t *testing.T) {
	src := &fakeSource{
		profile: &model.Profile{Login: "octo", ID: 1},
		repos: []model.Repository{
			{Owner: "octo", Name: "a", FullName: "octo/a"},
			{Owner: "octo", Name: "b", FullName: "octo/b"},
			{Owner: "octo", Name: "c", FullName: "octo/c"},
		},
		contrib: &model.Contributions{TotalCommitContributions: 3},
		langs: map[string]map[string]int64{
			"a": {"Go": 100},
			"c": {"Python": 50},
		},
		langErrs: map[string]error{"b": errors.New("boom")},
		commits: map[string][]model.CommitData{
			"a": {{Repository: "a", Message: "feat: one"}},
			"c": {{Repository: "c", Message: "fix: two"}, {Repository: "c", Message: "docs: three"}},
		},
		commitErrs: map[string]error{"b": fmt.Errorf("wrapped: %w", ghclient.ErrRateLimited)},
	}

	var mu sync.Mutex
	var updates []Phase
	f := NewFetcher(New(src, nil), func(phase Phase, completed, total int) {
		mu.Lock()
		updates = append(updates, phase)
		mu.Unlock()
	})

	res, err := f.FetchAll(context.Background(), FetchOptions{Username: "octo", Workers: 2})
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	if res.Profile.Login != "octo" || len(res.Repositories) != 3 || res.Contributions == nil {
		t.Errorf("account data = %+v", res)
	}
	if len(res.Languages) != 3 {
		t.Fatalf("Languages len = %d, want 3 (aligned with repositories)", len(res.Languages))
	}
	if res.Languages[0]["Go"] != 100 || res.Languages[1] != nil || res.Languages[2]["Python"] != 50 {
		t.Errorf("Languages = %v", res.Languages)
	}
	if len(res.Commits) != 3 {
		t.Errorf("Commits len = %d, want 3", len(res.Commits))
	}
	if res.LanguageFailures != 1 || res.CommitFailures != 1 {
		t.Errorf("failures = %d/%d, want 1/1", res.LanguageFailures, res.CommitFailures)
	}
	if !res.RateLimited {
		t.Error("RateLimited should be set when a repository hit the rate limit")
	}
	if res.Colors["Go"] != "#00ADD8" {
		t.Errorf("Colors = %v", res.Colors)
	}
	if len(updates) == 0 || updates[0] != PhaseAccount || updates[len(updates)-1] != PhaseRepositories {
		t.Errorf("progress phases = %v", updates)
	}
}

func TestFetchAllAccountFailure(t *testing.T) {
	src := &fakeSource{profileErr: errors.New("bad credentials")}
	f := NewFetcher(New(src, nil), nil)

	_, err := f.FetchAll(context.Background(), FetchOptions{Username: "octo"})
	if err == nil {
		t.Fatal("expected error when the profile fetch fails")
	}
	if src.langCalls != 0 || src.commitCalls != 0 {
		t.Error("per-repository fetches should not run after an account failure")
	}
}

func TestFetchAllRepoLimit(t *testing.T) {
	var repos []model.Repository
	for i := range 5 {
		repos = append(repos, model.Repository{Owner: "octo", Name: fmt.Sprintf("r%d", i)})
	}
	src := &fakeSource{profile: &model.Profile{}, repos: repos, contrib: &model.Contributions{}}
	f := NewFetcher(New(src, nil), nil)

	if _, err := f.FetchAll(context.Background(), FetchOptions{Username: "octo", RepoLimit: 2}); err != nil {
		t.Fatal(err)
	}
	if src.commitCalls != 2 {
		t.Errorf("commit calls = %d, want 2", src.commitCalls)
	}
	if src.langCalls != 5 {
		t.Errorf("language calls = %d, want 5", src.langCalls)
	}
}

func TestServiceLanguagesCache(t *testing.T) {
	src := &fakeSource{langs: map[string]map[string]int64{"a": {"Go": 10}}}
	svc := New(src, &memLanguageCache{})
	repo := model.Repository{Owner: "octo", Name: "a"}

	for range 3 {
		langs, err := svc.Languages(context.Background(), repo)
		if err != nil {
			t.Fatal(err)
		}
		if langs["Go"] != 10 {
			t.Errorf("langs = %v", langs)
		}
	}
	if src.langCalls != 1 {
		t.Errorf("source calls = %d, want 1", src.langCalls)
	}
	if svc.CacheHits() != 2 {
		t.Errorf("CacheHits = %d, want 2", svc.CacheHits())
	}
}
