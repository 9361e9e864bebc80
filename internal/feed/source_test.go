package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/cache"
	"github.com/matheuskafuri/ainews/internal/filter"
)

type hits struct {
	articles, search, stats, trending, keywords, scrape atomic.Int32
}

func newTestSource(t *testing.T, statsFail bool) (*Source, *hits) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &hits{}

	r.GET("/api/articles", func(c *gin.Context) {
		h.articles.Add(1)
		c.JSON(http.StatusOK, gin.H{
			"articles":   []gin.H{{"id": 1, "title": "A", "category": c.Query("category")}},
			"pagination": gin.H{"page": 1, "pages": 1, "has_next": false},
		})
	})
	r.GET("/api/search", func(c *gin.Context) {
		h.search.Add(1)
		c.JSON(http.StatusOK, gin.H{
			"articles":   []gin.H{{"id": 7, "title": c.Query("q")}},
			"pagination": gin.H{"page": 1, "pages": 1, "total": 1},
		})
	})
	r.GET("/api/stats", func(c *gin.Context) {
		h.stats.Add(1)
		if statsFail {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": gin.H{"total_articles": 12, "average_hotness": 0.5, "total_views": 99}, "period": "7d"})
	})
	r.GET("/api/articles/trending", func(c *gin.Context) {
		h.trending.Add(1)
		c.JSON(http.StatusOK, gin.H{"articles": []gin.H{{"id": 3}}, "count": 1})
	})
	r.GET("/api/keywords/trending", func(c *gin.Context) {
		h.keywords.Add(1)
		c.JSON(http.StatusOK, gin.H{"keywords": []gin.H{{"keyword": "llm", "count": 4}}})
	})
	r.POST("/api/scrape", func(c *gin.Context) {
		h.scrape.Add(1)
		c.JSON(http.StatusOK, gin.H{"message": "Scraping started"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL+"/api", 5*time.Second)
	q := cache.NewQuery(cache.NewMemoryStore())
	return NewSource(client, q), h
}

func TestSourceCachesPages(t *testing.T) {
	src, h := newTestSource(t, false)
	ctx := context.Background()
	st := filter.Defaults()

	first, err := src.FetchArticles(ctx, st, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	second, err := src.FetchArticles(ctx, st, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, h.articles.Load(), int32(1))
	assert.Equal(t, second.Articles[0].Category, first.Articles[0].Category)
	assert.Equal(t, second.Articles[0].Category, "AI")

	// other filters and other pages are separate entries
	other := st.Clone()
	other.Categories = []string{"Robotics"}
	src.FetchArticles(ctx, other, 1, 20)
	src.FetchArticles(ctx, st, 2, 20)
	assert.Equal(t, h.articles.Load(), int32(3))
}

func TestSourceRefreshInvalidatesFirstPage(t *testing.T) {
	src, h := newTestSource(t, false)
	ctx := context.Background()
	st := filter.Defaults()

	src.FetchArticles(ctx, st, 1, 20)
	if err := src.Refresh(ctx, st, 20); err != nil {
		t.Fatal(err)
	}
	src.FetchArticles(ctx, st, 1, 20)
	assert.Equal(t, h.articles.Load(), int32(2))
}

func TestSourceScrapeInvalidatesStats(t *testing.T) {
	src, h := newTestSource(t, false)
	ctx := context.Background()
	st := filter.Defaults()

	src.FetchArticles(ctx, st, 1, 20)
	src.Stats(ctx)

	res, err := src.TriggerScrape(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, res.Message, "Scraping started")
	if err := src.AfterScrape(ctx, st, 20); err != nil {
		t.Fatal(err)
	}

	src.FetchArticles(ctx, st, 1, 20)
	src.Stats(ctx)
	assert.Equal(t, h.scrape.Load(), int32(1))
	assert.Equal(t, h.articles.Load(), int32(2))
	assert.Equal(t, h.stats.Load(), int32(2))
}

func TestSourceEmptySearchSkipsRequest(t *testing.T) {
	src, h := newTestSource(t, false)
	res, err := src.Search(context.Background(), "   ", 50)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(res.Articles), 0)
	assert.Equal(t, h.search.Load(), int32(0))
}

func TestSourceWithoutCache(t *testing.T) {
	src, h := newTestSource(t, false)
	uncached := NewSource(src.Client(), nil)
	ctx := context.Background()

	uncached.TrendingKeywords(ctx, 10)
	uncached.TrendingKeywords(ctx, 10)
	assert.Equal(t, h.keywords.Load(), int32(2))
	if err := uncached.Refresh(ctx, filter.Defaults(), 20); err != nil {
		t.Errorf("Refresh without cache: %v", err)
	}
}

func TestLoadOverviewPartialFailure(t *testing.T) {
	src, _ := newTestSource(t, true)
	ov := src.LoadOverview(context.Background(), 50, 10)

	assert.Equal(t, ov.Stats == nil, true)
	assert.Equal(t, len(ov.Trending), 1)
	assert.Equal(t, len(ov.Keywords), 1)
	assert.Equal(t, ov.Keywords[0].Keyword, "llm")
	if len(ov.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", ov.Errors)
	}
	assert.Equal(t, api.ErrorMessage(ov.Errors[0]), "db down")
}

func TestLoaderOverSource(t *testing.T) {
	src, _ := newTestSource(t, false)
	l := NewLoader(src, DefaultPageSize)
	if err := l.LoadPage(context.Background(), filter.Defaults(), 1); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, l.Len(), 1)
	assert.Equal(t, l.HasMore(), false)
}
