package filter

import (
	"testing"
)

func TestBuildQueryDefaults(t *testing.T) {
	got := BuildQuery(Defaults())
	if got.Get("category") != "AI" {
		t.Errorf("expected category=AI, got %q", got.Get("category"))
	}
	if got.Get("sort_by") != "hotness" {
		t.Errorf("expected sort_by=hotness, got %q", got.Get("sort_by"))
	}
	for _, key := range []string{"source", "keyword", "min_hotness", "q"} {
		if got.Has(key) {
			t.Errorf("unexpected %s in default query", key)
		}
	}
}

func TestBuildQueryJoinsSets(t *testing.T) {
	s := NewStore(Defaults())
	s.AddSource("Wired AI")
	s.AddSource("AI News")
	s.AddCategory("Robotics")
	s.AddKeyword("llm")
	s.AddKeyword("agents")

	got := BuildQuery(s.State())
	if got.Get("source") != "AI News,Wired AI" {
		t.Errorf("source = %q", got.Get("source"))
	}
	if got.Get("category") != "AI,Robotics" {
		t.Errorf("category = %q", got.Get("category"))
	}
	if got.Get("keyword") != "agents,llm" {
		t.Errorf("keyword = %q", got.Get("keyword"))
	}
}

func TestBuildQueryMinHotness(t *testing.T) {
	st := Defaults()
	if BuildQuery(st).Has("min_hotness") {
		t.Error("min_hotness must be omitted at 0")
	}
	st.MinHotness = 0.35
	if got := BuildQuery(st).Get("min_hotness"); got != "0.35" {
		t.Errorf("min_hotness = %q, want 0.35", got)
	}
}

func TestBuildQueryOmitsSearch(t *testing.T) {
	st := Defaults()
	st.SearchQuery = "transformers"
	for key, vals := range BuildQuery(st) {
		for _, v := range vals {
			if v == "transformers" {
				t.Errorf("search text leaked into %s", key)
			}
		}
	}
}

func TestBuildQueryDeterministic(t *testing.T) {
	states := []State{
		Defaults(),
		{Sources: []string{"A", "B"}, Categories: []string{"C"}, Keywords: []string{"k"}, MinHotness: 0.8, SortBy: SortDate},
		{SortBy: SortRelevance},
	}
	for _, st := range states {
		a := BuildQuery(st).Encode()
		b := BuildQuery(st).Encode()
		if a != b {
			t.Errorf("non-deterministic query: %q vs %q", a, b)
		}
	}
}

func TestResetsFeed(t *testing.T) {
	base := Defaults()

	tests := []struct {
		name   string
		mutate func(*State)
		want   bool
	}{
		{"search query", func(s *State) { s.SearchQuery = "x" }, false},
		{"keywords", func(s *State) { s.Keywords = []string{"llm"} }, false},
		{"time range", func(s *State) { s.TimeRange = "24h" }, false},
		{"summaries toggle", func(s *State) { s.ShowSummaries = false }, false},
		{"images toggle", func(s *State) { s.ShowImages = false }, false},
		{"sources", func(s *State) { s.Sources = []string{"Wired AI"} }, true},
		{"categories", func(s *State) { s.Categories = []string{"AI", "Robotics"} }, true},
		{"min hotness", func(s *State) { s.MinHotness = 0.4 }, true},
		{"sort", func(s *State) { s.SortBy = SortDate }, true},
	}
	for _, tt := range tests {
		next := base.Clone()
		tt.mutate(&next)
		if got := ResetsFeed(base, next); got != tt.want {
			t.Errorf("%s: ResetsFeed = %v, want %v", tt.name, got, tt.want)
		}
	}
}
