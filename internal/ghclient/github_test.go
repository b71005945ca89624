package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

func newTestClient(t *testing.T, mux *http.ServeMux, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithGraphQLEndpoint(srv.URL + "/graphql"),
		WithColorsURL(srv.URL + "/colors.json"),
	}, opts...)

	c, err := NewClient(context.Background(), "test-token", opts...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(context.Background(), ""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(w, map[string]any{
			"login":               "octo",
			"id":                  42,
			"name":                "Octo Cat",
			"public_repos":        7,
			"total_private_repos": 3,
			"followers":           11,
			"following":           2,
		})
	})
	c := newTestClient(t, mux)

	p, err := c.User(context.Background(), "octo")
	if err != nil {
		t.Fatalf("User failed: %v", err)
	}
	want := model.Profile{Login: "octo", ID: 42, Name: "Octo Cat", PublicRepos: 7, TotalPrivateRepos: 3, Followers: 11, Following: 2}
	if *p != want {
		t.Errorf("User = %+v, want %+v", *p, want)
	}
}

func TestUserNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"message": "Not Found"})
	})
	c := newTestClient(t, mux)

	_, err := c.User(context.Background(), "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestRepositoriesPagination(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("affiliation") != "owner" {
			t.Errorf("affiliation = %q, want owner", r.URL.Query().Get("affiliation"))
		}
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, []map[string]any{{"name": "b", "owner": map[string]any{"login": "octo"}, "fork": true}})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/user/repos?page=2>; rel="next"`, srvURL))
		writeJSON(w, []map[string]any{{
			"name":             "a",
			"full_name":        "octo/a",
			"owner":            map[string]any{"login": "octo"},
			"language":         "Go",
			"stargazers_count": 5,
			"forks_count":      1,
			"pushed_at":        "2026-01-02T03:04:05Z",
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	c, err := NewClient(context.Background(), "test-token", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	repos, err := c.Repositories(context.Background(), "octo")
	if err != nil {
		t.Fatalf("Repositories failed: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("len = %d, want 2", len(repos))
	}
	if repos[0].Owner != "octo" || repos[0].Stars != 5 || repos[0].Language != "Go" {
		t.Errorf("repos[0] = %+v", repos[0])
	}
	if !repos[0].PushedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("PushedAt = %v", repos[0].PushedAt)
	}
	if !repos[1].Fork {
		t.Error("repos[1] should be a fork")
	}
}

func TestRepositoriesFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"message": "Bad credentials"})
	})
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") != "owner" {
			t.Errorf("type = %q, want owner", r.URL.Query().Get("type"))
		}
		writeJSON(w, []map[string]any{{"name": "public", "owner": map[string]any{"login": "octo"}}})
	})
	c := newTestClient(t, mux)

	repos, err := c.Repositories(context.Background(), "octo")
	if err != nil {
		t.Fatalf("Repositories failed: %v", err)
	}
	if len(repos) != 1 || repos[0].Name != "public" {
		t.Errorf("repos = %+v", repos)
	}
}

func TestRepositoriesBothFail(t *testing.T) {
	mux := http.NewServeMux()
	fail := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"message": "boom"})
	}
	mux.HandleFunc("/user/repos", fail)
	mux.HandleFunc("/users/octo/repos", fail)
	c := newTestClient(t, mux)

	if _, err := c.Repositories(context.Background(), "octo"); err == nil {
		t.Error("expected error when both listings fail")
	}
}

func TestLanguages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/a/languages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{"Go": 7000, "Shell": 300})
	})
	c := newTestClient(t, mux)

	langs, err := c.Languages(context.Background(), "octo", "a")
	if err != nil {
		t.Fatalf("Languages failed: %v", err)
	}
	if langs["Go"] != 7000 || langs["Shell"] != 300 {
		t.Errorf("langs = %v", langs)
	}
}

func TestCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/a/commits", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("author") != "octo" {
			t.Errorf("author = %q", r.URL.Query().Get("author"))
		}
		if r.URL.Query().Get("since") == "" || r.URL.Query().Get("until") == "" {
			t.Error("since and until should be set")
		}
		writeJSON(w, []map[string]any{{
			"sha": "abc",
			"commit": map[string]any{
				"message": "feat: add cards",
				"author":  map[string]any{"name": "Octo", "date": "2026-03-10T23:15:00+02:00"},
			},
		}})
	})
	c := newTestClient(t, mux)

	until := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	commits, err := c.Commits(context.Background(), "octo", "a", "octo", until.AddDate(-1, 0, 0), until)
	if err != nil {
		t.Fatalf("Commits failed: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("len = %d, want 1", len(commits))
	}
	got := commits[0]
	if got.Hour != 21 {
		t.Errorf("Hour = %d, want 21 (UTC)", got.Hour)
	}
	if got.Repository != "a" || got.Message != "feat: add cards" {
		t.Errorf("commit = %+v", got)
	}
}

func TestContributions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req graphqlRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		if req.Variables["username"] != "octo" {
			t.Errorf("username variable = %v", req.Variables["username"])
		}
		if !strings.Contains(req.Query, "contributionsCollection") {
			t.Error("query should request contributionsCollection")
		}
		_, _ = io.WriteString(w, `{"data":{"user":{"contributionsCollection":{
			"totalCommitContributions": 120,
			"totalIssueContributions": 4,
			"totalPullRequestContributions": 30,
			"totalPullRequestReviewContributions": 12,
			"totalRepositoryContributions": 3,
			"totalRepositoriesWithContributedCommits": 9,
			"restrictedContributionsCount": 1,
			"contributionCalendar": {"totalContributions": 166, "weeks": [
				{"contributionDays": [
					{"date": "2026-03-08", "contributionCount": 0, "contributionLevel": "NONE"},
					{"date": "2026-03-09", "contributionCount": 5, "contributionLevel": "SECOND_QUARTILE"}
				]}
			]}
		}}}}`)
	})
	c := newTestClient(t, mux)

	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got, err := c.Contributions(context.Background(), "octo", to.AddDate(0, 0, -365), to)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	if got.TotalCommitContributions != 120 || got.TotalRepositoriesWithContributedCommits != 9 {
		t.Errorf("totals = %+v", got)
	}
	if len(got.Calendar.Weeks) != 1 || len(got.Calendar.Weeks[0].Days) != 2 {
		t.Fatalf("calendar = %+v", got.Calendar)
	}
	day := got.Calendar.Weeks[0].Days[1]
	if day.Count != 5 || !day.Date.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day = %+v", day)
	}
}

func TestContributionsUnknownUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User"}]}`)
	})
	c := newTestClient(t, mux)

	_, err := c.Contributions(context.Background(), "ghost", time.Now().AddDate(-1, 0, 0), time.Now())
	if err == nil || !strings.Contains(err.Error(), "Could not resolve") {
		t.Errorf("expected resolve error, got %v", err)
	}
}

func TestContributionsHTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestClient(t, mux)

	_, err := c.Contributions(context.Background(), "octo", time.Now().AddDate(-1, 0, 0), time.Now())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502 APIError, got %v", err)
	}
}

type memColorCache struct {
	colors map[string]string
	sets   int
}

func (m *memColorCache) LanguageColors() (map[string]string, bool) {
	return m.colors, m.colors != nil
}

func (m *memColorCache) SetLanguageColors(colors map[string]string) {
	m.colors = colors
	m.sets++
}

func TestLanguageColors(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/colors.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `{"Go":{"color":"#00ADD8","url":"x"},"Text":{"color":null,"url":"y"}}`)
	})
	cache := &memColorCache{}
	c := newTestClient(t, mux, WithColorCache(cache))

	colors := c.LanguageColors(context.Background())
	if colors["Go"] != "#00ADD8" {
		t.Errorf("Go = %q", colors["Go"])
	}
	if _, ok := colors["Text"]; ok {
		t.Error("null colors should be dropped")
	}

	_ = c.LanguageColors(context.Background())
	if n := hits.Load(); n != 1 {
		t.Errorf("colors fetched %d times, want 1", n)
	}
	if cache.sets != 1 {
		t.Errorf("cache set %d times, want 1", cache.sets)
	}
}

func TestLanguageColorsFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/colors.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, mux)

	colors := c.LanguageColors(context.Background())
	if len(colors) != len(model.FallbackLanguageColors) {
		t.Errorf("len = %d, want fallback table", len(colors))
	}
	if colors["Solidity"] != "#AA6746" {
		t.Errorf("Solidity = %q", colors["Solidity"])
	}
}

func TestRateLimited(t *testing.T) {
	var calls atomic.Int32
	reset := time.Now().Add(time.Hour).Unix()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(reset))
		w.WriteHeader(http.StatusForbidden)
	})
	c := newTestClient(t, mux)

	_, err := c.User(context.Background(), "octo")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// subsequent calls short-circuit without hitting the server
	_, err = c.User(context.Background(), "octo")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}

	remaining, limit, _, limited := c.RateLimitState().Status()
	if remaining != 0 || limit != 5000 || !limited {
		t.Errorf("Status = %d/%d limited=%v", remaining, limit, limited)
	}
}

func TestTokenScopes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OAuth-Scopes", "repo, read:org")
		writeJSON(w, map[string]any{"login": "octo"})
	})
	c := newTestClient(t, mux)

	if _, err := c.User(context.Background(), "octo"); err != nil {
		t.Fatal(err)
	}
	scopes := c.RateLimitState().Scopes()
	if len(scopes) != 2 || scopes[1] != "read:org" {
		t.Errorf("scopes = %v", scopes)
	}
}

func TestParseRateLimitHeaders(t *testing.T) {
	tests := []struct {
		name          string
		headers       map[string]string
		wantRemaining int
		wantLimit     int
		wantReset     int64
	}{
		{
			name: "all present",
			headers: map[string]string{
				"X-RateLimit-Remaining": "42",
				"X-RateLimit-Limit":     "5000",
				"X-RateLimit-Reset":     "1700000000",
			},
			wantRemaining: 42,
			wantLimit:     5000,
			wantReset:     1700000000,
		},
		{
			name:          "missing",
			headers:       map[string]string{},
			wantRemaining: -1,
			wantLimit:     -1,
		},
		{
			name:          "malformed",
			headers:       map[string]string{"X-RateLimit-Remaining": "lots"},
			wantRemaining: -1,
			wantLimit:     -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			for k, v := range tt.headers {
				resp.Header.Set(k, v)
			}
			remaining, limit, resetAt := parseRateLimitHeaders(resp)
			if remaining != tt.wantRemaining || limit != tt.wantLimit {
				t.Errorf("got %d/%d, want %d/%d", remaining, limit, tt.wantRemaining, tt.wantLimit)
			}
			if tt.wantReset != 0 && resetAt.Unix() != tt.wantReset {
				t.Errorf("resetAt = %d, want %d", resetAt.Unix(), tt.wantReset)
			}
		})
	}
}
