package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/spiffcs/statcard/internal/log"
	"github.com/spiffcs/statcard/internal/model"
)

// ColorCache stores the language color table between calls.
type ColorCache interface {
	LanguageColors() (map[string]string, bool)
	SetLanguageColors(colors map[string]string)
}

var colorsHTTPClient = &http.Client{Timeout: 15 * time.Second}

// LanguageColors returns the language color table. Failures fall back to
// the built-in table and are never returned as errors.
func (c *Client) LanguageColors(ctx context.Context) map[string]string {
	if c.colorCache != nil {
		if colors, ok := c.colorCache.LanguageColors(); ok {
			log.Debug("language colors cache hit", "count", len(colors))
			return colors
		}
	}

	colors, err := c.fetchLanguageColors(ctx)
	if err != nil {
		log.Warn("failed to fetch language colors, using fallback", "error", err)
		return maps.Clone(model.FallbackLanguageColors)
	}

	if c.colorCache != nil {
		c.colorCache.SetLanguageColors(colors)
	}
	return colors
}

func (c *Client) fetchLanguageColors(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.colorsURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := colorsHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var raw map[string]struct {
		Color *string `json:"color"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode colors: %w", err)
	}

	colors := make(map[string]string, len(raw))
	for name, entry := range raw {
		if entry.Color != nil && *entry.Color != "" {
			colors[name] = *entry.Color
		}
	}
	return colors, nil
}
