package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/ghclient"
	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
	"golang.org/x/sync/errgroup"
)

// Phase identifies which part of the fetch a progress update refers to.
type Phase int

const (
	// PhaseAccount covers the profile, repository list, contributions and colors.
	PhaseAccount Phase = iota
	// PhaseRepositories covers per-repository languages and commits.
	PhaseRepositories
)

// ProgressFunc is called as fetch tasks complete.
type ProgressFunc func(phase Phase, completed, total int)

// FetchOptions configures the fetch operation.
type FetchOptions struct {
	Username string
	// Now anchors the contribution and commit windows.
	Now time.Time
	// ContributionDays is the trailing window for contributions and commits.
	ContributionDays int
	// RepoLimit caps how many repositories have their commits fetched.
	RepoLimit int
	// Workers bounds concurrent per-repository requests.
	Workers int
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.ContributionDays <= 0 {
		o.ContributionDays = constants.ContributionDays
	}
	if o.RepoLimit <= 0 {
		o.RepoLimit = constants.RepoCommitLimit
	}
	if o.Workers <= 0 {
		o.Workers = constants.DefaultWorkers
	}
	return o
}

// FetchResult contains all data fetched from GitHub.
type FetchResult struct {
	Profile       *model.Profile
	Repositories  []model.Repository
	Contributions *model.Contributions
	Colors        map[string]string
	// Languages is aligned with Repositories; failed fetches are nil.
	Languages []map[string]int64
	Commits   []model.CommitData

	LanguageFailures int
	CommitFailures   int
	CacheHits        int
	RateLimited      bool
}

// Fetcher fetches all data sources from GitHub in parallel.
type Fetcher struct {
	svc        *Service
	onProgress ProgressFunc
}

// NewFetcher creates a Fetcher. onProgress may be nil (no-op).
func NewFetcher(svc *Service, onProgress ProgressFunc) *Fetcher {
	return &Fetcher{
		svc:        svc,
		onProgress: onProgress,
	}
}

func (f *Fetcher) reportProgress(phase Phase, completed, total int) {
	if f.onProgress != nil {
		f.onProgress(phase, completed, total)
	}
}

// FetchAll fetches the account-level data in parallel, then fans out over
// repositories. Account-level failures abort the fetch; per-repository
// failures are logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	opts = opts.withDefaults()
	result := &FetchResult{}

	if err := f.fetchAccount(ctx, opts, result); err != nil {
		return nil, err
	}
	if err := f.fetchRepositories(ctx, opts, result); err != nil {
		return nil, err
	}

	result.CacheHits = f.svc.CacheHits()
	return result, nil
}

func (f *Fetcher) fetchAccount(ctx context.Context, opts FetchOptions, result *FetchResult) error {
	const totalFetches = 4
	var completed int32
	f.reportProgress(PhaseAccount, 0, totalFetches)

	updateProgress := func() {
		f.reportProgress(PhaseAccount, int(atomic.AddInt32(&completed, 1)), totalFetches)
	}

	src := f.svc.Source()
	to := opts.Now
	from := to.AddDate(0, 0, -opts.ContributionDays)

	// each goroutine writes a distinct field of result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer updateProgress()
		p, err := src.User(gctx, opts.Username)
		if err != nil {
			return fmt.Errorf("user profile: %w", err)
		}
		result.Profile = p
		return nil
	})

	g.Go(func() error {
		defer updateProgress()
		repos, err := src.Repositories(gctx, opts.Username)
		if err != nil {
			return fmt.Errorf("repositories: %w", err)
		}
		result.Repositories = repos
		log.Info("fetched repositories", "count", len(repos))
		return nil
	})

	g.Go(func() error {
		defer updateProgress()
		c, err := src.Contributions(gctx, opts.Username, from, to)
		if err != nil {
			return fmt.Errorf("contributions: %w", err)
		}
		result.Contributions = c
		return nil
	})

	g.Go(func() error {
		defer updateProgress()
		result.Colors = src.LanguageColors(gctx)
		return nil
	})

	return g.Wait()
}

func (f *Fetcher) fetchRepositories(ctx context.Context, opts FetchOptions, result *FetchResult) error {
	repos := result.Repositories
	commitRepos := repos
	if len(commitRepos) > opts.RepoLimit {
		commitRepos = commitRepos[:opts.RepoLimit]
	}

	total := len(repos) + len(commitRepos)
	var completed, langFailures, commitFailures int32
	var rateLimited atomic.Bool
	f.reportProgress(PhaseRepositories, 0, total)

	updateProgress := func() {
		f.reportProgress(PhaseRepositories, int(atomic.AddInt32(&completed, 1)), total)
	}
	noteFailure := func(counter *int32, what, repo string, err error) {
		atomic.AddInt32(counter, 1)
		if errors.Is(err, ghclient.ErrRateLimited) {
			rateLimited.Store(true)
		}
		log.Debug("skipping repository "+what, "repo", repo, "error", err)
	}

	langs := make([]map[string]int64, len(repos))
	commits := make([][]model.CommitData, len(commitRepos))
	since := opts.Now.AddDate(0, 0, -opts.ContributionDays)

	// errors are absorbed so one repository never cancels the others
	var g errgroup.Group
	g.SetLimit(opts.Workers)

	for i, repo := range repos {
		g.Go(func() error {
			defer updateProgress()
			if ctx.Err() != nil {
				return nil
			}
			l, err := f.svc.Languages(ctx, repo)
			if err != nil {
				noteFailure(&langFailures, "languages", repo.Name, err)
				return nil
			}
			langs[i] = l
			return nil
		})
	}

	for i, repo := range commitRepos {
		g.Go(func() error {
			defer updateProgress()
			if ctx.Err() != nil {
				return nil
			}
			c, err := f.svc.Source().Commits(ctx, repo.Owner, repo.Name, opts.Username, since, opts.Now)
			if err != nil {
				noteFailure(&commitFailures, "commits", repo.Name, err)
				return nil
			}
			commits[i] = c
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	result.Languages = langs
	for _, c := range commits {
		result.Commits = append(result.Commits, c...)
	}
	result.LanguageFailures = int(langFailures)
	result.CommitFailures = int(commitFailures)
	result.RateLimited = rateLimited.Load()

	log.Info("fetched repository details",
		"repositories", len(repos),
		"commits", len(result.Commits),
		"language_failures", result.LanguageFailures,
		"commit_failures", result.CommitFailures,
	)
	return nil
}
