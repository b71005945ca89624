// Package service provides orchestration between GitHub API and caching layers.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/spiffcs/statcard/internal/ghclient"
	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
)

// LanguageCache stores per-repository language bytes keyed by push time.
type LanguageCache interface {
	GetLanguages(fullName string, pushedAt time.Time) (map[string]int64, bool)
	SetLanguages(fullName string, pushedAt time.Time, langs map[string]int64) error
}

// Service combines a GitHub source with an optional language cache.
type Service struct {
	source ghclient.Source
	cache  LanguageCache

	cacheHits atomic.Int64
}

// New creates a Service. If cache is nil, caching is disabled.
func New(source ghclient.Source, cache LanguageCache) *Service {
	return &Service{source: source, cache: cache}
}

// Source returns the underlying GitHub source.
func (s *Service) Source() ghclient.Source {
	return s.source
}

// Languages returns language bytes for repo, consulting the cache first.
func (s *Service) Languages(ctx context.Context, repo model.Repository) (map[string]int64, error) {
	fullName := repo.FullName
	if fullName == "" {
		fullName = repo.Owner + "/" + repo.Name
	}

	if s.cache != nil {
		if langs, ok := s.cache.GetLanguages(fullName, repo.PushedAt); ok {
			s.cacheHits.Add(1)
			log.Trace("languages cache hit", "repo", fullName)
			return langs, nil
		}
	}

	langs, err := s.source.Languages(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLanguages(fullName, repo.PushedAt, langs); err != nil {
			log.Debug("failed to cache languages", "repo", fullName, "error", err)
		}
	}
	return langs, nil
}

// CacheHits reports how many language lookups were served from cache.
func (s *Service) CacheHits() int {
	return int(s.cacheHits.Load())
}
