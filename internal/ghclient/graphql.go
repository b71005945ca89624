package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
)

// graphqlTransport is shared by GraphQL requests for connection reuse.
var graphqlTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     30 * time.Second,
}

// graphqlRequest represents a GraphQL request payload.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse represents a generic GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// executeGraphQL posts a query and returns the raw data payload.
// GraphQL errors are logged; callers decide whether partial data is usable.
func (c *Client) executeGraphQL(ctx context.Context, query string, vars map[string]any) (json.RawMessage, []graphqlError, error) {
	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlEndpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{
		Transport: &rateLimitTransport{base: graphqlTransport, state: c.state},
		Timeout:   30 * time.Second,
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &APIError{
			Op:         "graphql",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
	}

	for _, e := range gqlResp.Errors {
		log.Debug("GraphQL error", "message", e.Message, "type", e.Type)
	}

	return gqlResp.Data, gqlResp.Errors, nil
}

type contributionsData struct {
	User *struct {
		ContributionsCollection struct {
			TotalCommitContributions                int `json:"totalCommitContributions"`
			TotalIssueContributions                 int `json:"totalIssueContributions"`
			TotalPullRequestContributions           int `json:"totalPullRequestContributions"`
			TotalPullRequestReviewContributions     int `json:"totalPullRequestReviewContributions"`
			TotalRepositoryContributions            int `json:"totalRepositoryContributions"`
			TotalRepositoriesWithContributedCommits int `json:"totalRepositoriesWithContributedCommits"`
			RestrictedContributionsCount            int `json:"restrictedContributionsCount"`
			ContributionCalendar                    struct {
				TotalContributions int `json:"totalContributions"`
				Weeks              []struct {
					ContributionDays []struct {
						Date              string `json:"date"`
						ContributionCount int    `json:"contributionCount"`
						ContributionLevel string `json:"contributionLevel"`
					} `json:"contributionDays"`
				} `json:"weeks"`
			} `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// Contributions fetches the contribution collection of login between from and to.
func (c *Client) Contributions(ctx context.Context, login string, from, to time.Time) (*model.Contributions, error) {
	vars := map[string]any{
		"username": login,
		"from":     from.UTC().Format(time.RFC3339),
		"to":       to.UTC().Format(time.RFC3339),
	}

	data, gqlErrs, err := c.executeGraphQL(ctx, contributionsQuery, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contributions: %w", err)
	}

	var parsed contributionsData
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse contributions: %w", err)
		}
	}
	if parsed.User == nil {
		if len(gqlErrs) > 0 {
			return nil, &APIError{Op: "graphql contributions", Err: fmt.Errorf("%s", gqlErrs[0].Message)}
		}
		return nil, &APIError{Op: "graphql contributions", Err: fmt.Errorf("user %q not found", login)}
	}

	cc := parsed.User.ContributionsCollection
	out := &model.Contributions{
		TotalCommitContributions:                cc.TotalCommitContributions,
		TotalIssueContributions:                 cc.TotalIssueContributions,
		TotalPullRequestContributions:           cc.TotalPullRequestContributions,
		TotalPullRequestReviewContributions:     cc.TotalPullRequestReviewContributions,
		TotalRepositoryContributions:            cc.TotalRepositoryContributions,
		TotalRepositoriesWithContributedCommits: cc.TotalRepositoriesWithContributedCommits,
		RestrictedContributionsCount:            cc.RestrictedContributionsCount,
		Calendar: model.ContributionCalendar{
			TotalContributions: cc.ContributionCalendar.TotalContributions,
		},
	}

	for _, w := range cc.ContributionCalendar.Weeks {
		week := model.ContributionWeek{Days: make([]model.CalendarDay, 0, len(w.ContributionDays))}
		for _, d := range w.ContributionDays {
			date, err := time.Parse(time.DateOnly, d.Date)
			if err != nil {
				log.Debug("skipping calendar day with bad date", "date", d.Date, "error", err)
				continue
			}
			week.Days = append(week.Days, model.CalendarDay{
				Date:  date,
				Count: d.ContributionCount,
				Level: d.ContributionLevel,
			})
		}
		out.Calendar.Weeks = append(out.Calendar.Weeks, week)
	}

	log.Debug("contribution breakdown",
		"from", from.Format(time.DateOnly),
		"to", to.Format(time.DateOnly),
		"commits", out.TotalCommitContributions,
		"prs", out.TotalPullRequestContributions,
		"reviews", out.TotalPullRequestReviewContributions,
		"issues", out.TotalIssueContributions,
		"repos", out.TotalRepositoryContributions,
		"restricted", out.RestrictedContributionsCount,
		"calendar_total", out.Calendar.TotalContributions,
	)

	return out, nil
}
