package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
	"golang.org/x/oauth2"
)

const (
	defaultGraphQLEndpoint = "https://api.github.com/graphql"
	defaultColorsURL       = "https://raw.githubusercontent.com/ozh/github-colors/master/colors.json"
	perPage                = 100
)

// Client wraps the GitHub REST and GraphQL APIs.
type Client struct {
	client *gh.Client
	http   *http.Client
	state  *RateLimitState
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string

	graphqlEndpoint string
	colorsURL       string
	colorCache      ColorCache
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points REST calls at a different API root.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		c.client.BaseURL = u
		return nil
	}
}

// WithGraphQLEndpoint overrides the GraphQL endpoint.
func WithGraphQLEndpoint(endpoint string) Option {
	return func(c *Client) error {
		c.graphqlEndpoint = endpoint
		return nil
	}
}

// WithColorsURL overrides where the language color table is fetched from.
func WithColorsURL(u string) Option {
	return func(c *Client) error {
		c.colorsURL = u
		return nil
	}
}

// WithColorCache memoizes the language color table across calls.
func WithColorCache(cc ColorCache) Option {
	return func(c *Client) error {
		c.colorCache = cc
		return nil
	}
}

// NewClient creates a new GitHub client using a personal access token.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = 30 * time.Second

	state := &RateLimitState{}
	tc.Transport = &rateLimitTransport{
		base:  tc.Transport,
		state: state,
	}

	c := &Client{
		client:          gh.NewClient(tc),
		http:            tc,
		state:           state,
		token:           token,
		graphqlEndpoint: defaultGraphQLEndpoint,
		colorsURL:       defaultColorsURL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RateLimitState exposes the headers observed so far.
func (c *Client) RateLimitState() *RateLimitState {
	return c.state
}

// User fetches the profile of login.
func (c *Client) User(ctx context.Context, login string) (*model.Profile, error) {
	u, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return nil, wrapErr("get user "+login, err)
	}
	return &model.Profile{
		Login:             u.GetLogin(),
		ID:                u.GetID(),
		Name:              u.GetName(),
		PublicRepos:       u.GetPublicRepos(),
		TotalPrivateRepos: int(u.GetTotalPrivateRepos()),
		Followers:         u.GetFollowers(),
		Following:         u.GetFollowing(),
	}, nil
}

// Repositories lists repositories owned by the authenticated user, falling
// back to the public repositories of login when that listing fails.
func (c *Client) Repositories(ctx context.Context, login string) ([]model.Repository, error) {
	repos, err := c.ownedRepositories(ctx)
	if err == nil {
		return repos, nil
	}
	log.Warn("failed to list authenticated repositories, falling back to public", "error", err)

	repos, err = c.publicRepositories(ctx, login)
	if err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) ownedRepositories(ctx context.Context) ([]model.Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Affiliation: "owner",
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var repos []model.Repository
	for {
		page, resp, err := c.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, wrapErr("list authenticated repositories", err)
		}
		for _, r := range page {
			repos = append(repos, toRepository(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

func (c *Client) publicRepositories(ctx context.Context, login string) ([]model.Repository, error) {
	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var repos []model.Repository
	for {
		page, resp, err := c.client.Repositories.ListByUser(ctx, login, opts)
		if err != nil {
			return nil, wrapErr("list repositories for "+login, err)
		}
		for _, r := range page {
			repos = append(repos, toRepository(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

func toRepository(r *gh.Repository) model.Repository {
	return model.Repository{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Fork:        r.GetFork(),
		Private:     r.GetPrivate(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		PushedAt:    r.GetPushedAt().Time,
	}
}

// Languages returns the byte count per language for a repository.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	langs, _, err := c.client.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("list languages %s/%s", owner, repo), err)
	}
	out := make(map[string]int64, len(langs))
	for name, size := range langs {
		out[name] = int64(size)
	}
	return out, nil
}

// Commits lists commits by author in a repository between since and until.
func (c *Client) Commits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]model.CommitData, error) {
	opts := &gh.CommitsListOptions{
		Author:      author,
		Since:       since,
		Until:       until,
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var commits []model.CommitData
	for {
		page, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapErr(fmt.Sprintf("list commits %s/%s", owner, repo), err)
		}
		for _, rc := range page {
			date := rc.GetCommit().GetAuthor().GetDate().Time.UTC()
			commits = append(commits, model.CommitData{
				Date:       date,
				Hour:       date.Hour(),
				Message:    rc.GetCommit().GetMessage(),
				Repository: repo,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return commits, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}
