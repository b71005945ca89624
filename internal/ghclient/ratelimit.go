package ghclient

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spiffcs/statcard/internal/constants"
	"github.com/spiffcs/statcard/internal/log"
)

// RateLimitState tracks the most recent rate limit headers seen by a client.
type RateLimitState struct {
	mu        sync.RWMutex
	limited   bool
	resetAt   time.Time
	remaining int
	limit     int
	scopes    []string
	scopesSet bool
}

// IsLimited returns true while a hit rate limit has not yet reset.
func (s *RateLimitState) IsLimited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.limited {
		return false
	}
	return time.Now().Before(s.resetAt)
}

// SetLimited marks the state as limited until resetAt.
func (s *RateLimitState) SetLimited(limited bool, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limited = limited
	s.resetAt = resetAt
}

// Update records rate limit headers from a response.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt

	if remaining == 0 {
		s.limited = true
	}
}

// Status returns the last observed rate limit values.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time, limited bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.limited && time.Now().Before(s.resetAt)
}

// recordScopes stores the token's OAuth scopes the first time they are seen.
// It reports whether this call stored them.
func (s *RateLimitState) recordScopes(header string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scopesSet {
		return false
	}
	s.scopesSet = true
	for _, scope := range strings.Split(header, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			s.scopes = append(s.scopes, scope)
		}
	}
	return true
}

// Scopes returns the OAuth scopes reported for the token, if any were seen.
func (s *RateLimitState) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.scopes))
	copy(out, s.scopes)
	return out
}

// rateLimitTransport wraps an http.RoundTripper to handle GitHub rate limits
type rateLimitTransport struct {
	base  http.RoundTripper
	state *RateLimitState
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.state.IsLimited() {
		return nil, ErrRateLimited
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		t.state.Update(remaining, limit, resetAt)
	}

	if remaining <= constants.RateLimitLowWatermark && remaining > 0 {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	if scopes, ok := resp.Header[http.CanonicalHeaderKey("X-OAuth-Scopes")]; ok && t.state.recordScopes(strings.Join(scopes, ",")) {
		checkScopes(t.state.Scopes())
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			t.state.SetLimited(true, resetAt)
			_ = resp.Body.Close()
			return nil, ErrRateLimited
		}
	}

	return resp, nil
}

// checkScopes logs the token's scopes and warns when private organization
// contributions will be invisible.
func checkScopes(scopes []string) {
	log.Debug("token scopes", "scopes", strings.Join(scopes, ","))
	for _, s := range scopes {
		if s == "read:org" || s == "admin:org" {
			return
		}
	}
	log.Warn("token is missing the read:org scope; private organization activity may be incomplete")
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}

	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(unix, 0)
		}
	}

	return remaining, limit, resetAt
}
