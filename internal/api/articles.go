package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetArticles fetches one page of the filtered feed. params normally comes
// from filter.BuildQuery; page and perPage are added here.
func (c *Client) GetArticles(ctx context.Context, params url.Values, page, perPage int) (*ArticlesResponse, error) {
	q := cloneValues(params)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out ArticlesResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/articles", q, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching articles page %d: %w", page, err)
	}
	return &out, nil
}

func (c *Client) GetTrending(ctx context.Context, limit int) (*TrendingResponse, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var out TrendingResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/articles/trending", q, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching trending articles: %w", err)
	}
	return &out, nil
}

func (c *Client) GetArticle(ctx context.Context, id int64) (*Article, error) {
	var out Article
	path := "/articles/" + strconv.FormatInt(id, 10)
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching article %d: %w", id, err)
	}
	return &out, nil
}

// Search runs a full-text search. An empty query is a caller error; the
// loaders skip the request before reaching here.
func (c *Client) Search(ctx context.Context, query string, perPage int) (*ArticlesResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search: empty query")
	}
	q := url.Values{
		"q":        {query},
		"per_page": {strconv.Itoa(perPage)},
	}
	var out ArticlesResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/search", q, nil, &out); err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	return &out, nil
}

// TriggerScrape asks the backend to start a scrape run and returns at once.
func (c *Client) TriggerScrape(ctx context.Context) (*ScrapeResponse, error) {
	var out ScrapeResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/scrape", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("triggering scrape: %w", err)
	}
	return &out, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+2)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
