// Package tmdb is a minimal client for the TMDB search API, used to
// match imported titles to TMDB ids.
package tmdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/plotwist/importer/internal/config"
)

// ErrNoMatch indicates the search returned no results for a title.
var ErrNoMatch = errors.New("no tmdb match found")

// Client queries the TMDB v3 search endpoints.
type Client struct {
	http *resty.Client
}

// NewClient creates a TMDB client from configuration. The token is a v4
// API read access token sent as a bearer header.
func NewClient(cfg config.TMDB) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: http}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID    int64  `json:"id"`
	Title string `json:"title"` // movies
	Name  string `json:"name"`  // tv
}

// MatchMovie returns the TMDB id of the best movie match for a title.
func (c *Client) MatchMovie(ctx context.Context, name string) (int64, error) {
	return c.search(ctx, "/search/movie", name)
}

// MatchSeries returns the TMDB id of the best TV match for a title.
func (c *Client) MatchSeries(ctx context.Context, name string) (int64, error) {
	return c.search(ctx, "/search/tv", name)
}

// search runs one search request and picks the top-ranked result, which
// TMDB orders by relevance.
func (c *Client) search(ctx context.Context, path, query string) (int64, error) {
	var out searchResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&out).
		Get(path)
	if err != nil {
		return 0, fmt.Errorf("tmdb search request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("tmdb search returned status %d", resp.StatusCode())
	}
	if len(out.Results) == 0 {
		return 0, ErrNoMatch
	}

	return out.Results[0].ID, nil
}
