package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Article is a read-only item as served by the backend.
type Article struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	Author       string    `json:"author,omitempty"`
	Category     string    `json:"category,omitempty"`
	PublishedAt  Timestamp `json:"published_at"`
	Summary      string    `json:"summary,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Keywords     Keywords  `json:"keywords"`
	HotnessScore float64   `json:"hotness_score"`
	Views        int       `json:"views"`
	Comments     int       `json:"comments"`
	Shares       int       `json:"shares,omitempty"`
	Likes        int       `json:"likes,omitempty"`
	Citations    int       `json:"citations,omitempty"`
	Sentiment    Sentiment `json:"sentiment,omitempty"`
}

// Keywords decodes the backend's JSON-encoded keyword list. The field is
// stored server side as a JSON string, so both `"[\"a\"]"` and `["a"]` are
// accepted. Anything else decodes to an empty list: one bad article must not
// fail the whole page.
type Keywords []string

func (k *Keywords) UnmarshalJSON(data []byte) error {
	*k = Keywords{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(raw))
		if len(data) == 0 {
			return nil
		}
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	out := make(Keywords, 0, len(list))
	for _, w := range list {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	*k = out
	return nil
}

// Timestamp accepts RFC 3339 and the backend's zone-less isoformat output.
// Unparsable values decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Pagination is the metadata block returned with paged endpoints.
// HasNext is a pointer so a missing flag can be told apart from false.
type Pagination struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	Total   int   `json:"total"`
	HasNext *bool `json:"has_next,omitempty"`
	HasPrev *bool `json:"has_prev,omitempty"`
}

// More reports whether another page exists. A missing flag means no.
func (p *Pagination) More() bool {
	if p == nil || p.HasNext == nil {
		return false
	}
	return *p.HasNext
}

type ArticlesResponse struct {
	Articles   []Article   `json:"articles"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type TrendingResponse struct {
	Articles []Article `json:"articles"`
	Count    int       `json:"count,omitempty"`
}

type Stats struct {
	TotalArticles  int     `json:"total_articles"`
	AverageHotness float64 `json:"average_hotness"`
	TotalViews     int     `json:"total_views"`
}

type StatsResponse struct {
	Stats  Stats  `json:"stats"`
	Period string `json:"period"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type KeywordsResponse struct {
	Keywords []KeywordCount `json:"keywords"`
}

type ScrapeResponse struct {
	Message string `json:"message"`
}
