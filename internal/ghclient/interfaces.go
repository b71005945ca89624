// Package ghclient provides GitHub API client functionality.
package ghclient

import (
	"context"
	"time"

	"github.com/spiffcs/statcard/internal/model"
)

// Source defines the GitHub operations needed to build a report.
// It enables substituting a fake in unit tests.
type Source interface {
	User(ctx context.Context, login string) (*model.Profile, error)
	Repositories(ctx context.Context, login string) ([]model.Repository, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int64, error)
	Commits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]model.CommitData, error)
	Contributions(ctx context.Context, login string, from, to time.Time) (*model.Contributions, error)
	LanguageColors(ctx context.Context) map[string]string
}

// Ensure Client implements Source interface.
var _ Source = (*Client)(nil)
