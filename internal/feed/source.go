package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/cache"
	"github.com/matheuskafuri/ainews/internal/filter"
	"golang.org/x/sync/errgroup"
)

// Cache kinds. Every key built by Source starts with one of these.
const (
	KindArticles = "articles"
	KindSearch   = "search"
	KindTrending = "trending"
	KindStats    = "stats"
	KindKeywords = "keywords"
)

// Policies holds the cache window for each kind of request.
type Policies struct {
	Articles cache.Policy
	Search   cache.Policy
	Trending cache.Policy
	Stats    cache.Policy
	Keywords cache.Policy
}

func DefaultPolicies() Policies {
	return Policies{
		Articles: cache.DefaultPolicy,
		Search:   cache.DefaultPolicy,
		Trending: cache.DefaultPolicy,
		Stats:    stretch(cache.DefaultPolicy, 2),
		Keywords: stretch(cache.DefaultPolicy, 3),
	}
}

// WithBase scales every window so Articles matches base.
func (p Policies) WithBase(base cache.Policy) Policies {
	return Policies{
		Articles: base,
		Search:   base,
		Trending: base,
		Stats:    stretch(base, 2),
		Keywords: stretch(base, 3),
	}
}

func stretch(p cache.Policy, n int) cache.Policy {
	return cache.Policy{Fresh: p.Fresh * time.Duration(n), MaxStale: p.MaxStale * time.Duration(n)}
}

// Source is the read side of the backend as the reader sees it: the API
// client behind the request cache. A nil cache.Query disables caching.
type Source struct {
	client   *api.Client
	query    *cache.Query
	policies Policies
	logger   *slog.Logger
}

type SourceOption func(*Source)

func WithPolicies(p Policies) SourceOption {
	return func(s *Source) { s.policies = p }
}

func WithLogger(l *slog.Logger) SourceOption {
	return func(s *Source) { s.logger = l }
}

func NewSource(client *api.Client, q *cache.Query, opts ...SourceOption) *Source {
	s := &Source{
		client:   client,
		query:    q,
		policies: DefaultPolicies(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Client() *api.Client { return s.client }

// ArticlesKey is the cache key of one feed page for the given filters.
func ArticlesKey(state filter.State, page, perPage int) string {
	return cache.Key(KindArticles, filter.BuildQuery(state).Encode(), page, perPage)
}

func SearchKey(query string, perPage int) string {
	return cache.Key(KindSearch, strings.TrimSpace(query), perPage)
}

func StatsKey() string { return cache.Key(KindStats) }

// cached runs fn through the request cache when one is configured.
func cached[T any](ctx context.Context, s *Source, key string, p cache.Policy, fn func(context.Context) (T, error)) (T, error) {
	if s.query == nil {
		return fn(ctx)
	}
	v, status, err := cache.Get(ctx, s.query, key, p, fn)
	if err != nil {
		return v, err
	}
	s.logger.Debug("cache", "key", key, "status", status.String())
	return v, nil
}

// FetchArticles returns one page of the feed for state.
func (s *Source) FetchArticles(ctx context.Context, state filter.State, page, perPage int) (*api.ArticlesResponse, error) {
	params := filter.BuildQuery(state)
	res, err := cached(ctx, s, ArticlesKey(state, page, perPage), s.policies.Articles,
		func(ctx context.Context) (api.ArticlesResponse, error) {
			r, err := s.client.GetArticles(ctx, params, page, perPage)
			if err != nil {
				return api.ArticlesResponse{}, err
			}
			return *r, nil
		})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Search runs a full-text search. A blank query yields an empty response
// without a request.
func (s *Source) Search(ctx context.Context, query string, perPage int) (*api.ArticlesResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &api.ArticlesResponse{}, nil
	}
	res, err := cached(ctx, s, SearchKey(query, perPage), s.policies.Search,
		func(ctx context.Context) (api.ArticlesResponse, error) {
			r, err := s.client.Search(ctx, query, perPage)
			if err != nil {
				return api.ArticlesResponse{}, err
			}
			return *r, nil
		})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Source) Trending(ctx context.Context, limit int) ([]api.Article, error) {
	return cached(ctx, s, cache.Key(KindTrending, limit), s.policies.Trending,
		func(ctx context.Context) ([]api.Article, error) {
			r, err := s.client.GetTrending(ctx, limit)
			if err != nil {
				return nil, err
			}
			return r.Articles, nil
		})
}

func (s *Source) Stats(ctx context.Context) (*api.StatsResponse, error) {
	res, err := cached(ctx, s, StatsKey(), s.policies.Stats,
		func(ctx context.Context) (api.StatsResponse, error) {
			r, err := s.client.GetStats(ctx)
			if err != nil {
				return api.StatsResponse{}, err
			}
			return *r, nil
		})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Source) TrendingKeywords(ctx context.Context, limit int) ([]api.KeywordCount, error) {
	return cached(ctx, s, cache.Key(KindKeywords, limit), s.policies.Keywords,
		func(ctx context.Context) ([]api.KeywordCount, error) {
			r, err := s.client.GetTrendingKeywords(ctx, limit)
			if err != nil {
				return nil, err
			}
			return r.Keywords, nil
		})
}

// Article always goes to the network; it backs the detail refresh.
func (s *Source) Article(ctx context.Context, id int64) (*api.Article, error) {
	return s.client.GetArticle(ctx, id)
}

// TriggerScrape starts a backend scrape. The response is never cached.
func (s *Source) TriggerScrape(ctx context.Context) (*api.ScrapeResponse, error) {
	res, err := s.client.TriggerScrape(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scrape triggered", "message", res.Message)
	return res, nil
}

// Refresh drops the cached first page for state so the next load hits the
// network.
func (s *Source) Refresh(ctx context.Context, state filter.State, perPage int) error {
	if s.query == nil {
		return nil
	}
	if err := s.query.Invalidate(ctx, ArticlesKey(state, 1, perPage)); err != nil {
		return fmt.Errorf("invalidating feed: %w", err)
	}
	return nil
}

// AfterScrape invalidates what a finished scrape makes outdated: the first
// feed page for state and the stats.
func (s *Source) AfterScrape(ctx context.Context, state filter.State, perPage int) error {
	if s.query == nil {
		return nil
	}
	if err := s.query.Invalidate(ctx, ArticlesKey(state, 1, perPage), StatsKey()); err != nil {
		return fmt.Errorf("invalidating after scrape: %w", err)
	}
	return nil
}

// Overview is what the home header and the trending view show.
type Overview struct {
	Stats    *api.StatsResponse
	Trending []api.Article
	Keywords []api.KeywordCount
	Errors   []error
}

// LoadOverview fetches stats, trending articles and trending keywords
// concurrently. A failing part does not prevent the others from loading;
// its error is collected in Errors.
func (s *Source) LoadOverview(ctx context.Context, trendingLimit, keywordsLimit int) Overview {
	var (
		mu  sync.Mutex
		out Overview
		g   errgroup.Group
	)
	collect := func(err error) {
		mu.Lock()
		out.Errors = append(out.Errors, err)
		mu.Unlock()
	}

	g.Go(func() error {
		st, err := s.Stats(ctx)
		if err != nil {
			collect(err)
			return nil
		}
		mu.Lock()
		out.Stats = st
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		arts, err := s.Trending(ctx, trendingLimit)
		if err != nil {
			collect(err)
			return nil
		}
		mu.Lock()
		out.Trending = arts
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		kws, err := s.TrendingKeywords(ctx, keywordsLimit)
		if err != nil {
			collect(err)
			return nil
		}
		mu.Lock()
		out.Keywords = kws
		mu.Unlock()
		return nil
	})

	g.Wait()
	return out
}
