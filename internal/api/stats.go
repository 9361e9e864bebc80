package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) GetStats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/stats", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	return &out, nil
}

func (c *Client) GetTrendingKeywords(ctx context.Context, limit int) (*KeywordsResponse, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var out KeywordsResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/keywords/trending", q, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching trending keywords: %w", err)
	}
	return &out, nil
}
