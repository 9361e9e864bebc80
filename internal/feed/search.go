package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matheuskafuri/ainews/internal/api"
)

const DefaultSearchPageSize = 50

// SearchBackend runs full-text searches. *Source implements it.
type SearchBackend interface {
	Search(ctx context.Context, query string, perPage int) (*api.ArticlesResponse, error)
}

// SearchResult answers one query. Query is kept so callers can drop
// answers to queries the user has already moved past.
type SearchResult struct {
	Query      string
	Articles   []api.Article
	Pagination *api.Pagination
	Err        error
}

// Summary is the "N articles found" line shown above the results.
func (r SearchResult) Summary() string {
	if r.Query == "" {
		return ""
	}
	total := len(r.Articles)
	if r.Pagination != nil && r.Pagination.Total > 0 {
		total = r.Pagination.Total
	}
	noun := "articles"
	if total == 1 {
		noun = "article"
	}
	s := fmt.Sprintf("%d %s found", total, noun)
	if r.Pagination != nil && r.Pagination.Pages > 1 {
		s += fmt.Sprintf(" · page %d of %d", max(r.Pagination.Page, 1), r.Pagination.Pages)
	}
	return s
}

type SearchRequest struct {
	Query   string
	PerPage int
	seq     uint64
}

// Searcher runs one-shot searches. Results do not accumulate across pages
// and only the answer to the latest query is kept.
type Searcher struct {
	backend SearchBackend
	perPage int

	mu      sync.Mutex
	seq     uint64
	current SearchResult
	loading bool
}

func NewSearcher(b SearchBackend, perPage int) *Searcher {
	if perPage <= 0 {
		perPage = DefaultSearchPageSize
	}
	return &Searcher{backend: b, perPage: perPage}
}

// Begin registers query as the latest one. A blank query clears the
// results right away.
func (s *Searcher) Begin(query string) SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.TrimSpace(query)
	s.seq++
	if query == "" {
		s.current = SearchResult{}
		s.loading = false
	} else {
		s.loading = true
	}
	return SearchRequest{Query: query, PerPage: s.perPage, seq: s.seq}
}

// Fetch performs the search for req. An empty query makes no request.
func (s *Searcher) Fetch(ctx context.Context, req SearchRequest) SearchResult {
	if req.Query == "" {
		return SearchResult{}
	}
	res, err := s.backend.Search(ctx, req.Query, req.PerPage)
	if err != nil {
		return SearchResult{Query: req.Query, Err: err}
	}
	return SearchResult{Query: req.Query, Articles: res.Articles, Pagination: res.Pagination}
}

// Apply keeps res if it answers the latest query.
func (s *Searcher) Apply(req SearchRequest, res SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.seq != s.seq {
		return ErrStale
	}
	s.loading = false
	s.current = res
	return res.Err
}

func (s *Searcher) Search(ctx context.Context, query string) (SearchResult, error) {
	req := s.Begin(query)
	res := s.Fetch(ctx, req)
	if err := s.Apply(req, res); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Searcher) Result() SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Searcher) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
