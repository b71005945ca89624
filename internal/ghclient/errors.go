package ghclient

import (
	"errors"
	"fmt"

	gh "github.com/google/go-github/v57/github"
)

// ErrRateLimited is returned when the GitHub API rate limit has been exceeded.
var ErrRateLimited = errors.New("rate limited")

// APIError describes a failed GitHub API operation.
type APIError struct {
	Op         string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// wrapErr annotates err with the operation and, when available, the HTTP
// status from a go-github error response.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	apiErr := &APIError{Op: op, Err: err}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr.StatusCode = ghErr.Response.StatusCode
	}
	var rlErr *gh.RateLimitError
	if errors.As(err, &rlErr) && rlErr.Response != nil {
		apiErr.StatusCode = rlErr.Response.StatusCode
	}
	return apiErr
}
