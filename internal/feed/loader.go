package feed

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/filter"
)

const DefaultPageSize = 20

// ErrStale is returned when a response arrives for a feed that has since
// been reset or re-requested. The response is dropped.
var ErrStale = errors.New("feed: stale response discarded")

// Pager fetches one page of the feed. *Source implements it.
type Pager interface {
	FetchArticles(ctx context.Context, state filter.State, page, perPage int) (*api.ArticlesResponse, error)
}

// Request is one in-flight page load. It carries the generation and
// sequence it was issued under so Apply can tell whether it still matters.
type Request struct {
	State   filter.State
	Page    int
	PerPage int

	gen uint64
	seq uint64
}

type Result struct {
	Request  Request
	Articles []api.Article
	HasMore  bool
	Err      error
}

// Snapshot is a copy of the loader's committed state.
type Snapshot struct {
	Articles []api.Article
	Page     int
	HasMore  bool
	Loading  bool
	Err      error
}

// Loader accumulates feed pages for infinite scroll. Changing the filter
// identity resets it; responses issued before a reset are discarded.
//
// Interactive callers use Begin, Fetch and Apply so the network call can
// run off the event loop. LoadPage and LoadMore do all three in one go.
type Loader struct {
	mu       sync.Mutex
	pager    Pager
	pageSize int

	articles []api.Article
	page     int
	fetched  bool
	hasMore  bool
	loading  bool
	err      error
	failed   *Request

	identity filter.Identity
	bound    bool
	gen      uint64
	seq      uint64
}

func NewLoader(p Pager, pageSize int) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	l := &Loader{pager: p, pageSize: pageSize}
	l.resetLocked()
	return l
}

func (l *Loader) PageSize() int { return l.pageSize }

func (l *Loader) resetLocked() {
	l.gen++
	l.articles = nil
	l.page = 1
	l.fetched = false
	l.hasMore = true
	l.loading = false
	l.err = nil
	l.failed = nil
}

// Reset returns the loader to its initial state and invalidates every
// request still in flight.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetLocked()
}

// Observe is a filter.Listener. It resets the feed when the change touches
// the filter identity and ignores everything else.
func (l *Loader) Observe(prev, next filter.State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if filter.ResetsFeed(prev, next) {
		l.resetLocked()
	}
	l.identity = next.Identity()
	l.bound = true
}

// bindLocked resets the loader if state belongs to a different identity
// than the accumulated articles.
func (l *Loader) bindLocked(state filter.State) {
	id := state.Identity()
	if l.bound && id != l.identity {
		l.resetLocked()
	}
	l.identity = id
	l.bound = true
}

// Begin marks page as in flight for state and returns the request to pass
// to Fetch. A newer Begin supersedes any request still in flight.
func (l *Loader) Begin(state filter.State, page int) Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.beginLocked(state, page)
}

func (l *Loader) beginLocked(state filter.State, page int) Request {
	if page < 1 {
		page = 1
	}
	l.bindLocked(state)
	l.seq++
	l.page = page
	l.loading = true
	l.err = nil
	return Request{
		State:   state.Clone(),
		Page:    page,
		PerPage: l.pageSize,
		gen:     l.gen,
		seq:     l.seq,
	}
}

// BeginMore is the guarded form of Begin used for scrolling. It reports
// false, and starts nothing, while a page is in flight or when the last
// page has been reached.
func (l *Loader) BeginMore(state filter.State) (Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bindLocked(state)
	if l.loading || !l.hasMore {
		return Request{}, false
	}
	next := l.page + 1
	switch {
	case l.failed != nil:
		next = l.failed.Page
	case !l.fetched:
		next = l.page
	}
	return l.beginLocked(state, next), true
}

// BeginRetry re-issues the last failed page, if any.
func (l *Loader) BeginRetry() (Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failed == nil || l.loading {
		return Request{}, false
	}
	req := l.beginLocked(l.failed.State, l.failed.Page)
	l.failed = nil
	return req, true
}

// Fetch performs the network call for req. It does not touch loader state
// and is safe to run on any goroutine.
func (l *Loader) Fetch(ctx context.Context, req Request) Result {
	res, err := l.pager.FetchArticles(ctx, req.State, req.Page, req.PerPage)
	if err != nil {
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Articles: res.Articles, HasMore: res.Pagination.More()}
}

// Apply commits res if its request is still current. It returns ErrStale
// when the result was dropped and the fetch error when the load failed.
func (l *Loader) Apply(res Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	req := res.Request
	if req.gen != l.gen || req.seq != l.seq {
		return ErrStale
	}
	l.loading = false
	if res.Err != nil {
		l.err = res.Err
		failed := req
		l.failed = &failed
		return res.Err
	}
	if req.Page == 1 {
		l.articles = slices.Clone(res.Articles)
	} else {
		l.articles = append(l.articles, res.Articles...)
	}
	l.fetched = true
	l.hasMore = res.HasMore
	l.err = nil
	l.failed = nil
	return nil
}

// LoadPage fetches page for state and merges it: page 1 replaces the
// accumulated articles, later pages append.
func (l *Loader) LoadPage(ctx context.Context, state filter.State, page int) error {
	req := l.Begin(state, page)
	return l.Apply(l.Fetch(ctx, req))
}

// LoadMore loads the next page. It reports false without doing anything
// while a load is in flight or when there are no more pages.
func (l *Loader) LoadMore(ctx context.Context, state filter.State) (bool, error) {
	req, ok := l.BeginMore(state)
	if !ok {
		return false, nil
	}
	return true, l.Apply(l.Fetch(ctx, req))
}

// Retry re-issues the last failed page. It reports false when nothing
// failed.
func (l *Loader) Retry(ctx context.Context) (bool, error) {
	req, ok := l.BeginRetry()
	if !ok {
		return false, nil
	}
	return true, l.Apply(l.Fetch(ctx, req))
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Articles: slices.Clone(l.articles),
		Page:     l.page,
		HasMore:  l.hasMore,
		Loading:  l.loading,
		Err:      l.err,
	}
}

func (l *Loader) Articles() []api.Article { return l.Snapshot().Articles }

func (l *Loader) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.articles)
}
