package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

func TestKeywordsLenient(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{`"[\"llm\", \"agents\"]"`, []string{"llm", "agents"}},
		{`["llm"]`, []string{"llm"}},
		{`"not json"`, []string{}},
		{`""`, []string{}},
		{`null`, []string{}},
		{`42`, []string{}},
		{`"{\"a\":1}"`, []string{}},
		{`"[\" \", \"x\"]"`, []string{"x"}},
	}
	for _, tt := range tests {
		var k Keywords
		if err := json.Unmarshal([]byte(tt.raw), &k); err != nil {
			t.Errorf("Keywords(%s): unexpected error %v", tt.raw, err)
			continue
		}
		if !slices.Equal([]string(k), tt.want) {
			t.Errorf("Keywords(%s) = %v, want %v", tt.raw, k, tt.want)
		}
	}
}

func TestArticleWithBadFieldsDecodes(t *testing.T) {
	raw := `{"id": 3, "title": "T", "keywords": "not json", "published_at": "yesterday", "sentiment": "mixed"}`
	var a Article
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(a.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", a.Keywords)
	}
	if !a.PublishedAt.IsZero() {
		t.Errorf("expected zero time, got %v", a.PublishedAt)
	}
	if a.Sentiment != "mixed" {
		t.Errorf("expected unknown sentiment preserved, got %q", a.Sentiment)
	}
}

func TestTimestampLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`"2025-03-01T10:00:00Z"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{`"2025-03-01T10:00:00.123456"`, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC)},
		{`"2025-03-01T10:00:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{`"2025-03-01"`, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tt.raw), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if !ts.Equal(tt.want) {
			t.Errorf("Timestamp(%s) = %v, want %v", tt.raw, ts.Time, tt.want)
		}
	}
}

func TestArticleRoundTripThroughCache(t *testing.T) {
	in := Article{
		ID:          1,
		Title:       "x",
		Keywords:    Keywords{"a"},
		PublishedAt: Timestamp{time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Article
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.PublishedAt.Equal(in.PublishedAt.Time) || !slices.Equal(out.Keywords, in.Keywords) {
		t.Errorf("round trip mismatch: %+v", out)
	}

	var zero Article
	data, _ = json.Marshal(zero)
	if err := json.Unmarshal(data, &out); err != nil || !out.PublishedAt.IsZero() {
		t.Errorf("zero timestamp did not survive: %v %v", err, out.PublishedAt)
	}
}

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"message wins", &APIError{StatusCode: 500, Message: "m", ErrorText: "e"}, "m"},
		{"error field", &APIError{StatusCode: 404, ErrorText: "not found"}, "not found"},
		{"wrapped api error", fmt.Errorf("fetching: %w", &APIError{StatusCode: 400, ErrorText: "Query parameter required"}), "Query parameter required"},
		{"network", fmt.Errorf("x: %w", &NetworkError{Method: "GET", Path: "/stats", Err: errors.New("dial tcp")}), "Network error. Please check your connection."},
		{"bare api error", &APIError{StatusCode: 502, Body: "bad"}, "API returned 502: bad"},
		{"plain", errors.New("boom"), "boom"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		if got := ErrorMessage(tt.err); got != tt.want {
			t.Errorf("%s: ErrorMessage = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPaginationMore(t *testing.T) {
	yes, no := true, false
	var nilPage *Pagination
	if nilPage.More() {
		t.Error("nil pagination must mean no more pages")
	}
	if (&Pagination{}).More() {
		t.Error("missing has_next must mean no more pages")
	}
	if !(&Pagination{HasNext: &yes}).More() || (&Pagination{HasNext: &no}).More() {
		t.Error("has_next not honoured")
	}
}
