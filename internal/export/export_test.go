package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/mmcdole/gofeed"
)

func sampleArticles() []api.Article {
	return []api.Article{
		{
			ID:           1,
			Title:        "New reasoning model released",
			URL:          "https://example.com/a",
			Source:       "TechCrunch AI",
			Author:       "Jane",
			Summary:      "<p>A <b>big</b> release.</p>",
			Keywords:     api.Keywords{"llm", "reasoning"},
			HotnessScore: 0.85,
			PublishedAt:  api.Timestamp{Time: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
			ImageURL:     "https://example.com/a.png",
		},
		{ID: 2, Title: "Policy update", URL: "https://example.com/b", HotnessScore: 0.1},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"rss": RSS, " ATOM ": Atom, "json": JSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("expected error for csv")
	}
}

func TestWriteParsesBack(t *testing.T) {
	meta := Meta{
		Title:   "ainews",
		Link:    "http://localhost:5000/api",
		Created: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, format := range []Format{RSS, Atom, JSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, format, meta, sampleArticles()); err != nil {
				t.Fatalf("write: %v", err)
			}

			parsed, err := gofeed.NewParser().Parse(&buf)
			if err != nil {
				t.Fatalf("parse back: %v", err)
			}
			if parsed.Title != "ainews" {
				t.Errorf("title = %q", parsed.Title)
			}
			if len(parsed.Items) != 2 {
				t.Fatalf("expected 2 items, got %d", len(parsed.Items))
			}
			first := parsed.Items[0]
			if first.Title != "New reasoning model released" || first.Link != "https://example.com/a" {
				t.Errorf("first item = %q %q", first.Title, first.Link)
			}
		})
	}
}

func TestItemDescription(t *testing.T) {
	f := Build(Meta{Title: "x"}, sampleArticles())
	desc := f.Items[0].Description
	for _, want := range []string{"A big release.", "TechCrunch AI", "85%", "Very Hot", "llm, reasoning"} {
		if !strings.Contains(desc, want) {
			t.Errorf("description %q missing %q", desc, want)
		}
	}
	if f.Items[0].Enclosure == nil || f.Items[0].Enclosure.Type != "image/png" {
		t.Errorf("enclosure = %+v", f.Items[0].Enclosure)
	}
	if !f.Items[1].Created.Equal(f.Created) {
		t.Error("undated article should take the feed time")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Format("csv"), Meta{}, nil); err == nil {
		t.Error("expected error")
	}
}
