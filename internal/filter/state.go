package filter

import (
	"math"
	"slices"
	"strings"
)

// SortBy selects the server-side ordering of the article feed.
type SortBy string

const (
	SortHotness   SortBy = "hotness"
	SortDate      SortBy = "date"
	SortRelevance SortBy = "relevance"
)

// AllSorts returns the valid sort orders in display order.
func AllSorts() []SortBy {
	return []SortBy{SortHotness, SortDate, SortRelevance}
}

func (s SortBy) Valid() bool {
	switch s {
	case SortHotness, SortDate, SortRelevance:
		return true
	}
	return false
}

// Next cycles through AllSorts.
func (s SortBy) Next() SortBy {
	all := AllSorts()
	i := slices.Index(all, s)
	return all[(i+1)%len(all)]
}

func (s SortBy) Label() string {
	switch s {
	case SortHotness:
		return "Hotness Score"
	case SortDate:
		return "Publication Date"
	case SortRelevance:
		return "Relevance"
	}
	return string(s)
}

// State is the user's current filter, sort and search selection.
type State struct {
	SearchQuery   string
	Sources       []string
	Categories    []string
	Keywords      []string
	MinHotness    float64
	SortBy        SortBy
	TimeRange     string
	ShowSummaries bool
	ShowImages    bool
}

// Defaults returns the state the reader starts with.
func Defaults() State {
	return State{
		Categories:    []string{"AI"},
		SortBy:        SortHotness,
		TimeRange:     "7d",
		ShowSummaries: true,
		ShowImages:    true,
	}
}

// Clone returns a deep copy so callers never share slices with the store.
func (s State) Clone() State {
	s.Sources = slices.Clone(s.Sources)
	s.Categories = slices.Clone(s.Categories)
	s.Keywords = slices.Clone(s.Keywords)
	return s
}

// Equal reports whether two states hold the same selection.
func (s State) Equal(o State) bool {
	return s.SearchQuery == o.SearchQuery &&
		slices.Equal(s.Sources, o.Sources) &&
		slices.Equal(s.Categories, o.Categories) &&
		slices.Equal(s.Keywords, o.Keywords) &&
		s.MinHotness == o.MinHotness &&
		s.SortBy == o.SortBy &&
		s.TimeRange == o.TimeRange &&
		s.ShowSummaries == o.ShowSummaries &&
		s.ShowImages == o.ShowImages
}

func (s State) HasSource(name string) bool {
	return slices.Contains(s.Sources, strings.TrimSpace(name))
}

func (s State) HasCategory(name string) bool {
	return slices.Contains(s.Categories, strings.TrimSpace(name))
}

func (s State) HasKeyword(word string) bool {
	return slices.Contains(s.Keywords, strings.TrimSpace(word))
}

// normalize enforces the State invariants: sets are unique and sorted,
// MinHotness lies in [0,1] and SortBy is valid.
func (s State) normalize(fallback SortBy) State {
	s.Sources = normalizeSet(s.Sources)
	s.Categories = normalizeSet(s.Categories)
	s.Keywords = normalizeSet(s.Keywords)
	s.MinHotness = clampHotness(s.MinHotness)
	if !s.SortBy.Valid() {
		s.SortBy = fallback
	}
	return s
}

func normalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func clampHotness(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
